// Package queue is the producer-side facade: it turns a task name and a
// typed context value into a queue envelope, opens the activity trail,
// and hands the envelope to the state backend.
package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/agentexec/agentexec/pkg/activity"
	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/state"
	"github.com/agentexec/agentexec/pkg/task"
)

// Priority selects which end of the list an envelope is pushed to.
type Priority int

const (
	// PriorityLow appends to the back of the queue (the default).
	PriorityLow Priority = iota

	// PriorityHigh pushes to the front, ahead of every low-priority
	// item.
	PriorityHigh
)

// Recorder is the slice of the activity store the queue needs. The full
// store satisfies it; tests substitute a fake.
type Recorder interface {
	Create(ctx context.Context, agentType string, opts ...activity.CreateOption) (uuid.UUID, error)
}

// Queue enqueues task invocations.
type Queue struct {
	backend  state.Backend
	registry *task.Registry
	recorder Recorder
	cfg      *config.Config
	logger   *slog.Logger
}

// New returns a queue over the given backend and registry.
func New(backend state.Backend, registry *task.Registry, recorder Recorder, cfg *config.Config) *Queue {
	return &Queue{
		backend:  backend,
		registry: registry,
		recorder: recorder,
		cfg:      cfg,
		logger:   slog.With("component", "queue"),
	}
}

// Option customizes an Enqueue call.
type Option func(*enqueueParams)

type enqueueParams struct {
	priority Priority
	agentID  uuid.UUID
	metadata map[string]interface{}
}

// WithPriority selects the queue end. Defaults to PriorityLow.
func WithPriority(p Priority) Option {
	return func(e *enqueueParams) { e.priority = p }
}

// WithAgentID pins the run to a caller-chosen agent id.
func WithAgentID(id uuid.UUID) Option {
	return func(e *enqueueParams) { e.agentID = id }
}

// WithMetadata attaches opaque caller data to the run's activity.
func WithMetadata(md map[string]interface{}) Option {
	return func(e *enqueueParams) { e.metadata = md }
}

// Enqueue validates taskContext against the registered definition, opens
// the activity, and pushes the envelope. Returns the agent id that
// identifies the run across the activity store and the result rendezvous.
func (q *Queue) Enqueue(ctx context.Context, taskName string, taskContext any, opts ...Option) (uuid.UUID, error) {
	var p enqueueParams
	for _, opt := range opts {
		opt(&p)
	}

	def, err := q.registry.Get(taskName)
	if err != nil {
		return uuid.Nil, err
	}

	// Serialize before creating the activity so a bad context value
	// leaves no orphaned activity behind.
	encodedContext, err := def.EncodeContext(taskContext)
	if err != nil {
		return uuid.Nil, err
	}

	createOpts := make([]activity.CreateOption, 0, 2)
	if p.agentID != uuid.Nil {
		createOpts = append(createOpts, activity.WithAgentID(p.agentID))
	}
	if p.metadata != nil {
		createOpts = append(createOpts, activity.WithMetadata(p.metadata))
	}
	agentID, err := q.recorder.Create(ctx, taskName, createOpts...)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to open activity for task %q: %w", taskName, err)
	}

	envelope, err := task.EncodeEnvelope(task.Envelope{
		TaskName: taskName,
		AgentID:  agentID,
		Context:  encodedContext,
	})
	if err != nil {
		return uuid.Nil, err
	}

	if p.priority == PriorityHigh {
		err = q.backend.PushFront(ctx, q.cfg.QueueName, envelope)
	} else {
		err = q.backend.PushBack(ctx, q.cfg.QueueName, envelope)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to enqueue task %q: %w", taskName, err)
	}

	q.logger.Debug("Enqueued task",
		"task", taskName,
		"agent_id", agentID,
		"priority", p.priority)
	return agentID, nil
}

// Enqueue is the typed wrapper: the context value's type is checked at
// compile time against the handler the caller registered.
func Enqueue[C any](ctx context.Context, q *Queue, taskName string, taskContext C, opts ...Option) (uuid.UUID, error) {
	return q.Enqueue(ctx, taskName, taskContext, opts...)
}
