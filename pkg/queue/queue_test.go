package queue

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentexec/agentexec/pkg/activity"
	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/state"
	"github.com/agentexec/agentexec/pkg/task"
)

type fakeRecorder struct {
	created []createdActivity
	fail    error
}

type createdActivity struct {
	agentType string
	agentID   uuid.UUID
	metadata  map[string]interface{}
}

func (f *fakeRecorder) Create(_ context.Context, agentType string, opts ...activity.CreateOption) (uuid.UUID, error) {
	if f.fail != nil {
		return uuid.Nil, f.fail
	}
	id, md := activity.ApplyCreateOptions(opts)
	if id == uuid.Nil {
		id = uuid.New()
	}
	f.created = append(f.created, createdActivity{agentType: agentType, agentID: id, metadata: md})
	return id, nil
}

type echoContext struct {
	Value string `json:"value"`
}

type echoResult struct {
	Value string `json:"value"`
}

func newTestQueue(t *testing.T) (*Queue, *state.Memory, *fakeRecorder, *config.Config) {
	t.Helper()
	cfg := config.Default()
	backend := state.NewMemory()
	t.Cleanup(func() { backend.Close() })

	registry := task.NewRegistry()
	_, err := task.Register(registry, "echo", func(_ context.Context, _ uuid.UUID, in echoContext) (echoResult, error) {
		return echoResult(in), nil
	}, task.WithCodec(task.NewCodec()))
	require.NoError(t, err)

	rec := &fakeRecorder{}
	return New(backend, registry, rec, cfg), backend, rec, cfg
}

func TestQueue_Enqueue(t *testing.T) {
	ctx := context.Background()
	q, backend, rec, cfg := newTestQueue(t)

	agentID, err := q.Enqueue(ctx, "echo", echoContext{Value: "hi"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, agentID)

	require.Len(t, rec.created, 1)
	assert.Equal(t, "echo", rec.created[0].agentType)
	assert.Equal(t, agentID, rec.created[0].agentID)

	raw, err := backend.PopTail(ctx, cfg.QueueName, time.Second)
	require.NoError(t, err)
	env, err := task.DecodeEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, "echo", env.TaskName)
	assert.Equal(t, agentID, env.AgentID)
}

func TestQueue_EnqueuePriority(t *testing.T) {
	ctx := context.Background()
	q, backend, _, cfg := newTestQueue(t)

	lowID, err := q.Enqueue(ctx, "echo", echoContext{Value: "low"})
	require.NoError(t, err)
	highID, err := q.Enqueue(ctx, "echo", echoContext{Value: "high"}, WithPriority(PriorityHigh))
	require.NoError(t, err)

	raw, err := backend.PopTail(ctx, cfg.QueueName, time.Second)
	require.NoError(t, err)
	env, err := task.DecodeEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, highID, env.AgentID)

	raw, err = backend.PopTail(ctx, cfg.QueueName, time.Second)
	require.NoError(t, err)
	env, err = task.DecodeEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, lowID, env.AgentID)
}

func TestQueue_EnqueueUnknownTask(t *testing.T) {
	ctx := context.Background()
	q, _, rec, _ := newTestQueue(t)

	_, err := q.Enqueue(ctx, "nope", echoContext{})
	assert.ErrorIs(t, err, task.ErrUnknownTask)
	assert.Empty(t, rec.created, "no activity should be opened for an unknown task")
}

func TestQueue_EnqueueBadContextLeavesNoActivity(t *testing.T) {
	ctx := context.Background()
	q, _, rec, _ := newTestQueue(t)

	_, err := q.Enqueue(ctx, "echo", echoResult{Value: "wrong type"})
	assert.ErrorIs(t, err, task.ErrSerialization)
	assert.Empty(t, rec.created)
}

func TestQueue_EnqueueWithOptions(t *testing.T) {
	ctx := context.Background()
	q, _, rec, _ := newTestQueue(t)

	want := uuid.New()
	md := map[string]interface{}{"tenant": "acme"}
	got, err := q.Enqueue(ctx, "echo", echoContext{Value: "x"}, WithAgentID(want), WithMetadata(md))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	require.Len(t, rec.created, 1)
	assert.Equal(t, md, rec.created[0].metadata)
}

func TestQueue_TypedEnqueue(t *testing.T) {
	ctx := context.Background()
	q, _, _, _ := newTestQueue(t)

	_, err := Enqueue(ctx, q, "echo", echoContext{Value: "typed"})
	assert.NoError(t, err)
}
