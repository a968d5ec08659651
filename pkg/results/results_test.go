package results

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/state"
	"github.com/agentexec/agentexec/pkg/task"
)

func newTestStore(t *testing.T) (*Store, *state.Memory) {
	t.Helper()
	cfg := config.Default()
	cfg.ResultPollInterval = 10 * time.Millisecond
	backend := state.NewMemory()
	t.Cleanup(func() { backend.Close() })
	return New(backend, cfg), backend
}

func TestStore_SetAndWait(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	id := uuid.New()

	require.NoError(t, s.Set(ctx, id, []byte("payload")))

	got, err := s.Wait(ctx, id, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	// The slot survives a Wait.
	got, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestStore_WaitForLateResult(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	id := uuid.New()

	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = s.Set(ctx, id, []byte("late"))
	}()

	got, err := s.Wait(ctx, id, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "late", string(got))
}

func TestStore_WaitTimeout(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	start := time.Now()
	_, err := s.Wait(ctx, uuid.New(), 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestStore_WaitContextCancel(t *testing.T) {
	s, _ := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := s.Wait(ctx, uuid.New(), 10*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_Join(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	require.NoError(t, s.Set(ctx, ids[0], []byte("a")))
	require.NoError(t, s.Set(ctx, ids[2], []byte("c")))
	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = s.Set(ctx, ids[1], []byte("b"))
	}()

	payloads, err := s.Join(ctx, ids, time.Second)
	require.NoError(t, err)
	require.Len(t, payloads, 3)
	assert.Equal(t, "a", string(payloads[0]))
	assert.Equal(t, "b", string(payloads[1]))
	assert.Equal(t, "c", string(payloads[2]))
}

func TestStore_JoinPartialFailure(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	require.NoError(t, s.Set(ctx, ids[0], []byte("a")))

	payloads, err := s.Join(ctx, ids, 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "a", string(payloads[0]))
	assert.Nil(t, payloads[1])
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	id := uuid.New()

	require.NoError(t, s.Set(ctx, id, []byte("x")))

	existed, err := s.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, state.ErrNotFound)
}

type sumResult struct {
	Total int `json:"total"`
}

func TestWaitTyped(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	id := uuid.New()

	codec := task.NewCodec()
	def, err := task.New("sum", func(_ context.Context, _ uuid.UUID, in sumResult) (sumResult, error) {
		return in, nil
	}, task.WithCodec(codec))
	require.NoError(t, err)

	payload, err := def.EncodeContext(sumResult{Total: 42})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, id, payload))

	got, err := Wait[sumResult](ctx, s, codec, id, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Total)
}
