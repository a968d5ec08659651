package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/state"
)

func TestPublishHandler_PublishesRecords(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	backend := state.NewMemory()
	defer backend.Close()

	sub, err := backend.Subscribe(ctx, state.NewKeys(cfg.KeyPrefix).LogChannel())
	require.NoError(t, err)
	defer sub.Close()

	handler := NewPublishHandler(backend, cfg, slog.LevelInfo)
	logger := slog.New(handler).With("worker_id", 3)
	logger.Info("Task completed", "task", "double")

	select {
	case payload := <-sub.C():
		var rec logRecord
		require.NoError(t, json.Unmarshal(payload, &rec))
		assert.Equal(t, "Task completed", rec.Message)
		assert.Equal(t, "INFO", rec.Level)
		assert.Equal(t, "double", rec.Attrs["task"])
		assert.EqualValues(t, 3, rec.Attrs["worker_id"])
	case <-time.After(time.Second):
		t.Fatal("no log record published")
	}
}

func TestPublishHandler_LevelFilter(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	backend := state.NewMemory()
	defer backend.Close()

	sub, err := backend.Subscribe(ctx, state.NewKeys(cfg.KeyPrefix).LogChannel())
	require.NoError(t, err)
	defer sub.Close()

	logger := slog.New(NewPublishHandler(backend, cfg, slog.LevelWarn))
	logger.Info("below threshold")
	logger.Warn("at threshold")

	select {
	case payload := <-sub.C():
		var rec logRecord
		require.NoError(t, json.Unmarshal(payload, &rec))
		assert.Equal(t, "at threshold", rec.Message)
	case <-time.After(time.Second):
		t.Fatal("warn record not published")
	}
	select {
	case payload := <-sub.C():
		t.Fatalf("unexpected extra record: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishHandler_Groups(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	backend := state.NewMemory()
	defer backend.Close()

	sub, err := backend.Subscribe(ctx, state.NewKeys(cfg.KeyPrefix).LogChannel())
	require.NoError(t, err)
	defer sub.Close()

	logger := slog.New(NewPublishHandler(backend, cfg, slog.LevelInfo)).WithGroup("pool")
	logger.Info("started", "id", "p1")

	select {
	case payload := <-sub.C():
		var rec logRecord
		require.NoError(t, json.Unmarshal(payload, &rec))
		assert.Equal(t, "p1", rec.Attrs["pool.id"])
	case <-time.After(time.Second):
		t.Fatal("no record published")
	}
}

func TestCollector_ReemitsRecords(t *testing.T) {
	cfg := config.Default()
	backend := state.NewMemory()
	defer backend.Close()

	collector := NewCollector(backend, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		collector.Run(ctx)
	}()
	time.Sleep(20 * time.Millisecond) // let the subscription open

	// End-to-end: a publishing logger on one side, the collector on the
	// other. The collector re-emits through slog.Default; this only
	// asserts it consumes without error and stops on cancel.
	logger := slog.New(NewPublishHandler(backend, cfg, slog.LevelInfo))
	logger.Info("from another process", "worker_id", 1)

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop on cancel")
	}
}
