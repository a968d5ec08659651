package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentexec/agentexec/pkg/activity"
	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/queue"
	"github.com/agentexec/agentexec/pkg/results"
	"github.com/agentexec/agentexec/pkg/state"
	"github.com/agentexec/agentexec/pkg/task"
)

type poolFixture struct {
	cfg        *config.Config
	backend    *state.Memory
	codec      *task.Codec
	registry   *task.Registry
	activities *fakeActivities
	results    *results.Store
	pool       *Pool
	queue      *queue.Queue
}

func newPoolFixture(t *testing.T, workers int) *poolFixture {
	t.Helper()
	cfg := config.Default()
	cfg.WorkerCount = workers
	cfg.DequeueTimeout = 20 * time.Millisecond
	cfg.GracefulShutdownTimeout = 2 * time.Second
	cfg.ResultPollInterval = 10 * time.Millisecond

	backend := state.NewMemory()
	t.Cleanup(func() { backend.Close() })

	fx := &poolFixture{
		cfg:        cfg,
		backend:    backend,
		codec:      task.NewCodec(),
		registry:   task.NewRegistry(),
		activities: newFakeActivities(),
	}
	fx.results = results.New(backend, cfg)
	fx.pool = NewPool(backend, fx.registry, fx.activities, fx.results, cfg)
	fx.queue = queue.New(backend, fx.registry, fx.activities, cfg)
	return fx
}

func (fx *poolFixture) register(t *testing.T, name string, fn task.Handler[doubleContext, doubleResult]) {
	t.Helper()
	_, err := task.Register(fx.registry, name, fn, task.WithCodec(fx.codec))
	require.NoError(t, err)
}

func TestPool_ProcessesQueuedTasks(t *testing.T) {
	ctx := context.Background()
	fx := newPoolFixture(t, 3)
	fx.register(t, "double", func(_ context.Context, _ uuid.UUID, in doubleContext) (doubleResult, error) {
		return doubleResult{N: in.N * 2}, nil
	})

	ids := make([]uuid.UUID, 0, 10)
	for i := 0; i < 10; i++ {
		id, err := fx.queue.Enqueue(ctx, "double", doubleContext{N: i})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, fx.pool.Start(ctx))
	defer fx.pool.Shutdown(ctx)

	payloads, err := fx.results.Join(ctx, ids, 5*time.Second)
	require.NoError(t, err)
	for i, payload := range payloads {
		var res doubleResult
		require.NoError(t, fx.codec.DecodeInto(payload, &res))
		assert.Equal(t, i*2, res.N)
	}
}

func TestPool_HighPriorityRunsFirst(t *testing.T) {
	ctx := context.Background()
	fx := newPoolFixture(t, 1)

	var mu sync.Mutex
	var order []uuid.UUID
	fx.register(t, "double", func(_ context.Context, agentID uuid.UUID, in doubleContext) (doubleResult, error) {
		mu.Lock()
		order = append(order, agentID)
		mu.Unlock()
		return doubleResult{N: in.N}, nil
	})

	lowID, err := fx.queue.Enqueue(ctx, "double", doubleContext{N: 1})
	require.NoError(t, err)
	highID, err := fx.queue.Enqueue(ctx, "double", doubleContext{N: 2}, queue.WithPriority(queue.PriorityHigh))
	require.NoError(t, err)

	require.NoError(t, fx.pool.Start(ctx))
	_, err = fx.results.Join(ctx, []uuid.UUID{lowID, highID}, 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, fx.pool.Shutdown(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 2)
	assert.Equal(t, highID, order[0], "front-pushed task must run before the earlier back-pushed one")
	assert.Equal(t, lowID, order[1])
}

func TestPool_ShutdownStopsWorkersAndCancelsPending(t *testing.T) {
	ctx := context.Background()
	fx := newPoolFixture(t, 2)
	fx.register(t, "double", func(_ context.Context, _ uuid.UUID, in doubleContext) (doubleResult, error) {
		return doubleResult{N: in.N}, nil
	})

	require.NoError(t, fx.pool.Start(ctx))
	require.NoError(t, fx.pool.Shutdown(ctx))

	done := make(chan struct{})
	go func() {
		fx.pool.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("workers did not stop after shutdown")
	}

	// A task enqueued after shutdown stays queued until CancelPending
	// from the next shutdown; the one from this shutdown ran with an
	// empty queue.
	assert.Equal(t, 0, fx.activities.canceled)

	// Shutdown is idempotent.
	assert.NoError(t, fx.pool.Shutdown(ctx))
}

func TestPool_ShutdownCancelsUnclaimedWork(t *testing.T) {
	ctx := context.Background()
	fx := newPoolFixture(t, 1)
	block := make(chan struct{})
	fx.register(t, "double", func(_ context.Context, _ uuid.UUID, in doubleContext) (doubleResult, error) {
		<-block
		return doubleResult{N: in.N}, nil
	})

	// One task will be claimed and block; the rest stay queued.
	for i := 0; i < 4; i++ {
		_, err := fx.queue.Enqueue(ctx, "double", doubleContext{N: i})
		require.NoError(t, err)
	}

	require.NoError(t, fx.pool.Start(ctx))
	time.Sleep(100 * time.Millisecond) // let the single worker claim one

	shutdownDone := make(chan error, 1)
	go func() { shutdownDone <- fx.pool.Shutdown(ctx) }()
	time.Sleep(50 * time.Millisecond)
	close(block)

	select {
	case err := <-shutdownDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not finish")
	}

	// The three unclaimed tasks were marked canceled.
	assert.Equal(t, 3, fx.activities.canceled)
}

func TestPool_StartTwiceFails(t *testing.T) {
	ctx := context.Background()
	fx := newPoolFixture(t, 1)

	require.NoError(t, fx.pool.Start(ctx))
	defer fx.pool.Shutdown(ctx)

	assert.Error(t, fx.pool.Start(ctx))
}

func TestPool_RunInline(t *testing.T) {
	ctx := context.Background()
	fx := newPoolFixture(t, 1)
	fx.register(t, "double", func(_ context.Context, _ uuid.UUID, in doubleContext) (doubleResult, error) {
		return doubleResult{N: in.N * 2}, nil
	})

	agentID, err := fx.pool.RunInline(ctx, "double", doubleContext{N: 5})
	require.NoError(t, err)

	got, err := results.Wait[doubleResult](ctx, fx.results, fx.codec, agentID, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 10, got.N)

	assert.Equal(t, []activity.Status{
		activity.StatusQueued,
		activity.StatusRunning,
		activity.StatusComplete,
	}, fx.activities.statuses(agentID))
}

func TestPool_RunInlineUnknownTask(t *testing.T) {
	ctx := context.Background()
	fx := newPoolFixture(t, 1)

	_, err := fx.pool.RunInline(ctx, "missing", doubleContext{})
	assert.ErrorIs(t, err, task.ErrUnknownTask)
}

func TestWorker_ExitsOnBackendClose(t *testing.T) {
	fx := newPoolFixture(t, 1)
	w := NewWorker(0, fx.backend, fx.pool.Executor(), fx.cfg, "nope")

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(context.Background())
	}()

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, fx.backend.Close())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not exit after backend close")
	}
}

func TestWorker_DropsMalformedEnvelope(t *testing.T) {
	ctx := context.Background()
	fx := newPoolFixture(t, 1)
	fx.register(t, "double", func(_ context.Context, _ uuid.UUID, in doubleContext) (doubleResult, error) {
		return doubleResult{N: in.N}, nil
	})

	require.NoError(t, fx.backend.PushBack(ctx, fx.cfg.QueueName, []byte("garbage")))
	id, err := fx.queue.Enqueue(ctx, "double", doubleContext{N: 7})
	require.NoError(t, err)

	require.NoError(t, fx.pool.Start(ctx))
	defer fx.pool.Shutdown(ctx)

	// The garbage item is skipped and the real one still completes.
	got, err := results.Wait[doubleResult](ctx, fx.results, fx.codec, id, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 7, got.N)
}
