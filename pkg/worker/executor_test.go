package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentexec/agentexec/pkg/activity"
	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/results"
	"github.com/agentexec/agentexec/pkg/state"
	"github.com/agentexec/agentexec/pkg/task"
)

type transition struct {
	status     activity.Status
	message    string
	percentage *int
}

// fakeActivities is an in-memory ActivityStore for worker tests.
type fakeActivities struct {
	mu          sync.Mutex
	transitions map[uuid.UUID][]transition
	appendErr   error
	canceled    int
}

func newFakeActivities() *fakeActivities {
	return &fakeActivities{transitions: make(map[uuid.UUID][]transition)}
}

func (f *fakeActivities) Create(_ context.Context, _ string, opts ...activity.CreateOption) (uuid.UUID, error) {
	id, _ := activity.ApplyCreateOptions(opts)
	if id == uuid.Nil {
		id = uuid.New()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions[id] = []transition{{status: activity.StatusQueued, message: "Waiting to start."}}
	return id, nil
}

func (f *fakeActivities) Append(_ context.Context, agentID uuid.UUID, status activity.Status, message string, percentage *int) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions[agentID] = append(f.transitions[agentID], transition{status, message, percentage})
	return nil
}

func (f *fakeActivities) CancelPending(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id, ts := range f.transitions {
		if last := ts[len(ts)-1]; last.status.Active() {
			f.transitions[id] = append(ts, transition{status: activity.StatusCanceled, message: activity.CanceledMessage})
			n++
		}
	}
	f.canceled += n
	return n, nil
}

func (f *fakeActivities) statuses(agentID uuid.UUID) []activity.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]activity.Status, 0, len(f.transitions[agentID]))
	for _, tr := range f.transitions[agentID] {
		out = append(out, tr.status)
	}
	return out
}

func (f *fakeActivities) last(agentID uuid.UUID) transition {
	f.mu.Lock()
	defer f.mu.Unlock()
	ts := f.transitions[agentID]
	return ts[len(ts)-1]
}

type doubleContext struct {
	N int `json:"n"`
}

type doubleResult struct {
	N int `json:"n"`
}

type execFixture struct {
	cfg        *config.Config
	backend    *state.Memory
	codec      *task.Codec
	registry   *task.Registry
	activities *fakeActivities
	results    *results.Store
	executor   *Executor
}

func newExecFixture(t *testing.T) *execFixture {
	t.Helper()
	cfg := config.Default()
	cfg.ResultPollInterval = 10 * time.Millisecond
	backend := state.NewMemory()
	t.Cleanup(func() { backend.Close() })

	codec := task.NewCodec()
	registry := task.NewRegistry()
	_, err := task.Register(registry, "double", func(_ context.Context, _ uuid.UUID, in doubleContext) (doubleResult, error) {
		return doubleResult{N: in.N * 2}, nil
	}, task.WithCodec(codec))
	require.NoError(t, err)
	_, err = task.Register(registry, "fail", func(_ context.Context, _ uuid.UUID, _ doubleContext) (doubleResult, error) {
		return doubleResult{}, fmt.Errorf("division by zero")
	}, task.WithCodec(codec))
	require.NoError(t, err)
	_, err = task.Register(registry, "explode", func(_ context.Context, _ uuid.UUID, in doubleContext) (doubleResult, error) {
		var counts map[string]int
		counts["boom"] = in.N
		return doubleResult{}, nil
	}, task.WithCodec(codec))
	require.NoError(t, err)

	activities := newFakeActivities()
	res := results.New(backend, cfg)
	return &execFixture{
		cfg:        cfg,
		backend:    backend,
		codec:      codec,
		registry:   registry,
		activities: activities,
		results:    res,
		executor:   NewExecutor(registry, activities, res, cfg),
	}
}

func (fx *execFixture) envelope(t *testing.T, taskName string, in any) task.Envelope {
	t.Helper()
	def, err := fx.registry.Get(taskName)
	require.NoError(t, err)
	encoded, err := def.EncodeContext(in)
	require.NoError(t, err)
	id, err := fx.activities.Create(context.Background(), taskName)
	require.NoError(t, err)
	return task.Envelope{TaskName: taskName, AgentID: id, Context: encoded}
}

func TestExecutor_Success(t *testing.T) {
	ctx := context.Background()
	fx := newExecFixture(t)
	env := fx.envelope(t, "double", doubleContext{N: 21})

	require.NoError(t, fx.executor.Execute(ctx, env))

	assert.Equal(t, []activity.Status{
		activity.StatusQueued,
		activity.StatusRunning,
		activity.StatusComplete,
	}, fx.activities.statuses(env.AgentID))

	fx.activities.mu.Lock()
	running := fx.activities.transitions[env.AgentID][1]
	fx.activities.mu.Unlock()
	require.NotNil(t, running.percentage)
	assert.Equal(t, 0, *running.percentage)

	last := fx.activities.last(env.AgentID)
	assert.Equal(t, "Completed successfully.", last.message)
	require.NotNil(t, last.percentage)
	assert.Equal(t, 100, *last.percentage)

	got, err := results.Wait[doubleResult](ctx, fx.results, fx.codec, env.AgentID, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 42, got.N)
}

func TestExecutor_HandlerError(t *testing.T) {
	ctx := context.Background()
	fx := newExecFixture(t)
	env := fx.envelope(t, "fail", doubleContext{N: 1})

	require.NoError(t, fx.executor.Execute(ctx, env))

	last := fx.activities.last(env.AgentID)
	assert.Equal(t, activity.StatusError, last.status)
	assert.Equal(t, "An error occurred during execution. division by zero", last.message)

	_, err := fx.results.Get(ctx, env.AgentID)
	assert.ErrorIs(t, err, state.ErrNotFound, "failed tasks publish no result")
}

func TestExecutor_HandlerPanicIsContained(t *testing.T) {
	ctx := context.Background()
	fx := newExecFixture(t)
	env := fx.envelope(t, "explode", doubleContext{N: 1})

	require.NotPanics(t, func() {
		require.NoError(t, fx.executor.Execute(ctx, env), "a panicking handler must not look like an infrastructure failure")
	})

	last := fx.activities.last(env.AgentID)
	assert.Equal(t, activity.StatusError, last.status)
	assert.Contains(t, last.message, "handler panicked")

	_, err := fx.results.Get(ctx, env.AgentID)
	assert.ErrorIs(t, err, state.ErrNotFound, "panicked tasks publish no result")

	// The executor keeps processing after the panic.
	next := fx.envelope(t, "double", doubleContext{N: 2})
	require.NoError(t, fx.executor.Execute(ctx, next))
	assert.Equal(t, activity.StatusComplete, fx.activities.last(next.AgentID).status)
}

func TestExecutor_UnknownTask(t *testing.T) {
	ctx := context.Background()
	fx := newExecFixture(t)
	id, err := fx.activities.Create(ctx, "ghost")
	require.NoError(t, err)

	env := task.Envelope{TaskName: "ghost", AgentID: id, Context: []byte(`{}`)}
	require.NoError(t, fx.executor.Execute(ctx, env))

	last := fx.activities.last(id)
	assert.Equal(t, activity.StatusError, last.status)
}

func TestExecutor_UndecodablePayloadIsDropped(t *testing.T) {
	ctx := context.Background()
	fx := newExecFixture(t)
	id, err := fx.activities.Create(ctx, "double")
	require.NoError(t, err)

	env := task.Envelope{
		TaskName: "double",
		AgentID:  id,
		Context:  []byte(`{"__schema__":"unknown.Type","__data__":{}}`),
	}
	require.NoError(t, fx.executor.Execute(ctx, env), "serialization failures are terminal, not infrastructure errors")

	last := fx.activities.last(id)
	assert.Equal(t, activity.StatusError, last.status)
}

func TestExecutor_RecorderFailureIsReturned(t *testing.T) {
	ctx := context.Background()
	fx := newExecFixture(t)
	env := fx.envelope(t, "double", doubleContext{N: 1})

	fx.activities.appendErr = fmt.Errorf("database gone")
	err := fx.executor.Execute(ctx, env)
	assert.ErrorContains(t, err, "database gone")
}
