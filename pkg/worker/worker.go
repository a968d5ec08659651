// Package worker implements the consumer side: workers pop envelopes
// from the state backend and execute them, and a pool supervises a fixed
// set of workers with cooperative cross-process shutdown.
package worker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/state"
	"github.com/agentexec/agentexec/pkg/task"
)

// Worker is one consumer loop. It claims envelopes with a bounded
// blocking pop so it can observe the pool's shutdown flag between
// attempts.
type Worker struct {
	id          int
	backend     state.Backend
	executor    *Executor
	cfg         *config.Config
	shutdownKey string
	logger      *slog.Logger
}

// NewWorker returns a worker bound to the pool's shutdown flag.
func NewWorker(id int, backend state.Backend, executor *Executor, cfg *config.Config, shutdownKey string) *Worker {
	return &Worker{
		id:          id,
		backend:     backend,
		executor:    executor,
		cfg:         cfg,
		shutdownKey: shutdownKey,
		logger:      slog.With("component", "worker", "worker_id", id),
	}
}

// Run consumes until the context is canceled, the shutdown flag is set,
// or the backend becomes unavailable. A backend outage is fatal for the
// loop: retrying against a dead broker only hides the failure.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Worker started")
	defer w.logger.Info("Worker stopped")

	for {
		if ctx.Err() != nil {
			return
		}

		if w.shutdownRequested(ctx) {
			w.logger.Debug("Shutdown flag observed")
			return
		}

		raw, err := w.backend.PopTail(ctx, w.cfg.QueueName, w.cfg.DequeueTimeout)
		if err != nil {
			switch {
			case errors.Is(err, state.ErrEmpty):
				continue
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return
			case errors.Is(err, state.ErrClosed), errors.Is(err, state.ErrUnavailable):
				w.logger.Error("State backend unavailable, exiting", "error", err)
				return
			default:
				w.logger.Error("Dequeue failed, exiting", "error", err)
				return
			}
		}

		env, err := task.DecodeEnvelope(raw)
		if err != nil {
			// No agent id to record against; the item is dropped.
			w.logger.Error("Dropping malformed envelope", "error", err)
			continue
		}

		if err := w.executor.Execute(ctx, env); err != nil {
			w.logger.Error("Failed to record task outcome, exiting",
				"task", env.TaskName,
				"agent_id", env.AgentID,
				"error", err)
			return
		}
	}
}

// shutdownRequested checks the pool's shutdown flag. Lookup errors count
// as no flag: a flaky read must not stop consumption.
func (w *Worker) shutdownRequested(ctx context.Context) bool {
	_, err := w.backend.Get(ctx, w.shutdownKey)
	return err == nil
}
