// Package cleanup provides data retention: finished activities past the
// retention window and expired key-value rows are removed periodically.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/agentexec/agentexec/pkg/config"
)

// ActivityPurger deletes old terminal activities. The activity store
// satisfies it.
type ActivityPurger interface {
	DeleteOldTerminal(ctx context.Context, retentionDays int) (int, error)
}

// KVPurger reclaims expired key-value rows. The postgres state backend
// satisfies it; memory and redis expire keys on their own.
type KVPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// Service is the background retention loop. All operations are
// idempotent and safe to run from multiple processes.
type Service struct {
	cfg        *config.Config
	activities ActivityPurger
	kv         KVPurger // nil when the backend expires keys itself

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a cleanup service. kv may be nil.
func NewService(cfg *config.Config, activities ActivityPurger, kv KVPurger) *Service {
	return &Service{
		cfg:        cfg,
		activities: activities,
		kv:         kv,
	}
}

// Start launches the background cleanup loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("Cleanup service started",
		"retention_days", s.cfg.ActivityRetentionDays,
		"interval", s.cfg.CleanupInterval)
}

// Stop signals the cleanup loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("Cleanup service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single retention pass.
func (s *Service) RunOnce(ctx context.Context) {
	if s.cfg.ActivityRetentionDays > 0 {
		count, err := s.activities.DeleteOldTerminal(ctx, s.cfg.ActivityRetentionDays)
		if err != nil {
			slog.Error("Retention: activity cleanup failed", "error", err)
		} else if count > 0 {
			slog.Info("Retention: deleted old activities", "count", count)
		}
	}

	if s.kv != nil {
		count, err := s.kv.PurgeExpired(ctx)
		if err != nil {
			slog.Error("Retention: key-value cleanup failed", "error", err)
		} else if count > 0 {
			slog.Info("Retention: purged expired keys", "count", count)
		}
	}
}
