package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	"github.com/agentexec/agentexec/pkg/activity"
	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/results"
	"github.com/agentexec/agentexec/pkg/task"
)

// Recorder is the slice of the activity store workers need. The full
// store satisfies it; tests substitute a fake.
type Recorder interface {
	Append(ctx context.Context, agentID uuid.UUID, status activity.Status, message string, percentage *int) error
	CancelPending(ctx context.Context) (int, error)
}

// Executor runs one task invocation end to end: activity transitions,
// handler execution, and result publication.
type Executor struct {
	registry *task.Registry
	recorder Recorder
	results  *results.Store
	cfg      *config.Config
	logger   *slog.Logger
}

// NewExecutor returns an executor over the given collaborators.
func NewExecutor(registry *task.Registry, recorder Recorder, res *results.Store, cfg *config.Config) *Executor {
	return &Executor{
		registry: registry,
		recorder: recorder,
		results:  res,
		cfg:      cfg,
		logger:   slog.With("component", "executor"),
	}
}

// Execute processes a decoded envelope. Serialization failures and
// handler errors are terminal for the item: the activity is marked
// errored and the item is dropped, never retried. Only infrastructure
// errors (activity store or result store unreachable) are returned.
func (e *Executor) Execute(ctx context.Context, env task.Envelope) error {
	logger := e.logger.With("task", env.TaskName, "agent_id", env.AgentID)

	def, err := e.registry.Get(env.TaskName)
	if err != nil {
		logger.Error("Dropping item for unregistered task", "error", err)
		return e.markErrored(ctx, env.AgentID, err)
	}

	started := 0
	if err := e.recorder.Append(ctx, env.AgentID, activity.StatusRunning, e.cfg.ActivityMessageStarted, &started); err != nil {
		return fmt.Errorf("failed to mark activity running: %w", err)
	}

	resultPayload, err := e.runHandler(ctx, def, env)
	if err != nil {
		if errors.Is(err, task.ErrSerialization) {
			logger.Error("Dropping undecodable item", "error", err)
		} else {
			logger.Error("Task handler failed", "error", err)
		}
		return e.markErrored(ctx, env.AgentID, err)
	}

	if err := e.results.Set(ctx, env.AgentID, resultPayload); err != nil {
		// The handler ran; losing the result is worse than reporting it
		// late, so the activity is errored rather than completed.
		logger.Error("Failed to publish result", "error", err)
		return e.markErrored(ctx, env.AgentID, err)
	}

	done := 100
	if err := e.recorder.Append(ctx, env.AgentID, activity.StatusComplete, e.cfg.ActivityMessageComplete, &done); err != nil {
		return fmt.Errorf("failed to mark activity complete: %w", err)
	}
	logger.Debug("Task completed")
	return nil
}

// runHandler invokes the handler, converting a panic in user code into
// an ordinary handler error. Without the recover a single bad task would
// take down every worker in the process.
func (e *Executor) runHandler(ctx context.Context, def *task.Definition, env task.Envelope) (payload []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Task handler panicked",
				"task", env.TaskName,
				"agent_id", env.AgentID,
				"panic", r,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return def.Execute(ctx, env.AgentID, env.Context)
}

// RunInline executes a task synchronously in the caller's goroutine,
// bypassing the queue but keeping the full activity and result trail.
func (e *Executor) RunInline(ctx context.Context, taskName string, agentID uuid.UUID, encodedContext []byte) error {
	return e.Execute(ctx, task.Envelope{
		TaskName: taskName,
		AgentID:  agentID,
		Context:  encodedContext,
	})
}

// markErrored records the terminal error transition, expanding the
// {error} placeholder of the configured message.
func (e *Executor) markErrored(ctx context.Context, agentID uuid.UUID, cause error) error {
	message := strings.ReplaceAll(e.cfg.ActivityMessageError, "{error}", cause.Error())
	if err := e.recorder.Append(ctx, agentID, activity.StatusError, message, nil); err != nil {
		return fmt.Errorf("failed to mark activity errored: %w", err)
	}
	return nil
}
