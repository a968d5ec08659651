package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentexec/agentexec/pkg/activity"
	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/results"
	"github.com/agentexec/agentexec/pkg/state"
	"github.com/agentexec/agentexec/pkg/task"
)

// ActivityStore is the full activity surface the pool needs: opening
// activities for inline runs and recording transitions and cancellations.
type ActivityStore interface {
	Recorder
	Create(ctx context.Context, agentType string, opts ...activity.CreateOption) (uuid.UUID, error)
}

// Pool supervises a fixed set of workers sharing one state backend. The
// pool id keys the cross-process shutdown flag, so several pools can
// consume the same queue and be stopped independently.
type Pool struct {
	id         string
	backend    state.Backend
	registry   *task.Registry
	activities ActivityStore
	results    *results.Store
	executor   *Executor
	cfg        *config.Config
	keys       state.Keys
	logger     *slog.Logger

	mu       sync.Mutex
	started  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewPool wires a pool from its collaborators. Tasks must be registered
// before Start; the registry is read concurrently by the workers.
func NewPool(backend state.Backend, registry *task.Registry, activities ActivityStore, res *results.Store, cfg *config.Config) *Pool {
	id := uuid.NewString()
	return &Pool{
		id:         id,
		backend:    backend,
		registry:   registry,
		activities: activities,
		results:    res,
		executor:   NewExecutor(registry, activities, res, cfg),
		cfg:        cfg,
		keys:       state.NewKeys(cfg.KeyPrefix),
		logger:     slog.With("component", "pool", "pool_id", id),
	}
}

// ID returns the pool's shutdown-flag identity.
func (p *Pool) ID() string { return p.id }

// Executor returns the pool's task executor.
func (p *Pool) Executor() *Executor { return p.executor }

// Start clears a stale shutdown flag and launches the workers. It
// returns immediately; use Wait or Run to block.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return fmt.Errorf("pool already started")
	}

	if _, err := p.backend.Delete(ctx, p.keys.Shutdown(p.id)); err != nil {
		return fmt.Errorf("failed to clear shutdown flag: %w", err)
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.started = true

	for i := 0; i < p.cfg.WorkerCount; i++ {
		w := NewWorker(i, p.backend, p.executor, p.cfg, p.keys.Shutdown(p.id))
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.Run(workerCtx)
		}()
	}

	p.logger.Info("Worker pool started",
		"workers", p.cfg.WorkerCount,
		"queue", p.cfg.QueueName,
		"tasks", p.registry.Names())
	return nil
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Run starts the pool, mirrors log records published by other processes,
// and blocks until ctx is canceled, then shuts down gracefully.
func (p *Pool) Run(ctx context.Context) error {
	if err := p.Start(ctx); err != nil {
		return err
	}

	collector := NewCollector(p.backend, p.cfg)
	collectorDone := make(chan struct{})
	collectorCtx, stopCollector := context.WithCancel(context.Background())
	go func() {
		defer close(collectorDone)
		collector.Run(collectorCtx)
	}()

	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		p.wg.Wait()
	}()

	select {
	case <-ctx.Done():
	case <-workersDone:
		p.logger.Warn("All workers exited before shutdown was requested")
	}

	err := p.Shutdown(context.Background())
	stopCollector()
	<-collectorDone
	return err
}

// Shutdown sets the shutdown flag, waits for workers to drain within the
// graceful timeout, force-cancels stragglers, and finally marks every
// still-pending activity canceled so nothing stays queued forever.
func (p *Pool) Shutdown(ctx context.Context) error {
	var err error
	p.stopOnce.Do(func() {
		err = p.shutdown(ctx)
	})
	return err
}

func (p *Pool) shutdown(ctx context.Context) error {
	p.logger.Info("Shutting down worker pool", "grace", p.cfg.GracefulShutdownTimeout)

	// The flag is cross-process: every worker keyed to this pool id
	// observes it between pops, whichever process it runs in.
	if err := p.backend.Set(ctx, p.keys.Shutdown(p.id), []byte("1"), 0); err != nil {
		p.logger.Error("Failed to set shutdown flag, force-canceling workers", "error", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.wg.Wait()
	}()

	select {
	case <-done:
		p.logger.Info("All workers drained")
	case <-time.After(p.cfg.GracefulShutdownTimeout):
		p.logger.Warn("Graceful shutdown timed out, canceling running tasks")
		p.forceCancel()
		<-done
	case <-ctx.Done():
		p.forceCancel()
		<-done
	}

	// The caller's context may already be gone; cancellation bookkeeping
	// still has to happen.
	cancelCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := p.activities.CancelPending(cancelCtx)
	if err != nil {
		return fmt.Errorf("failed to cancel pending activities: %w", err)
	}
	if n > 0 {
		p.logger.Info("Canceled pending activities", "count", n)
	}
	p.logger.Info("Worker pool stopped")
	return nil
}

func (p *Pool) forceCancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

// RunInline executes a registered task synchronously, with the same
// activity trail and result publication as a queued run. Returns the
// agent id; the result is readable from the rendezvous.
func (p *Pool) RunInline(ctx context.Context, taskName string, taskContext any, opts ...activity.CreateOption) (uuid.UUID, error) {
	def, err := p.registry.Get(taskName)
	if err != nil {
		return uuid.Nil, err
	}
	encoded, err := def.EncodeContext(taskContext)
	if err != nil {
		return uuid.Nil, err
	}
	agentID, err := p.activities.Create(ctx, taskName, opts...)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to open activity for task %q: %w", taskName, err)
	}
	if err := p.executor.RunInline(ctx, taskName, agentID, encoded); err != nil {
		return agentID, err
	}
	return agentID, nil
}
