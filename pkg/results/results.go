// Package results implements the result rendezvous: a worker publishes a
// task's serialized result under the agent id, and any process sharing
// the state backend can wait for it.
package results

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/state"
	"github.com/agentexec/agentexec/pkg/task"
)

// ErrTimeout indicates a Wait that saw no result within its timeout. The
// task may still be queued, running, or its result may have expired.
var ErrTimeout = errors.New("timed out waiting for result")

// Store writes and reads result slots in the state backend.
type Store struct {
	backend      state.Backend
	keys         state.Keys
	ttl          time.Duration
	pollInterval time.Duration
}

// New returns a store over the given backend.
func New(backend state.Backend, cfg *config.Config) *Store {
	return &Store{
		backend:      backend,
		keys:         state.NewKeys(cfg.KeyPrefix),
		ttl:          cfg.ResultTTL,
		pollInterval: cfg.ResultPollInterval,
	}
}

// Set publishes a result for agentID. The slot expires after the
// configured TTL.
func (s *Store) Set(ctx context.Context, agentID uuid.UUID, payload []byte) error {
	if err := s.backend.Set(ctx, s.keys.Result(agentID), payload, s.ttl); err != nil {
		return fmt.Errorf("failed to store result for %s: %w", agentID, err)
	}
	return nil
}

// Get returns the result for agentID without blocking, or
// state.ErrNotFound if none is present.
func (s *Store) Get(ctx context.Context, agentID uuid.UUID) ([]byte, error) {
	return s.backend.Get(ctx, s.keys.Result(agentID))
}

// Wait polls for the result of agentID until it appears or timeout
// elapses. The slot is left in place for other readers; use Delete to
// reclaim it early.
func (s *Store) Wait(ctx context.Context, agentID uuid.UUID, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	for {
		payload, err := s.Get(ctx, agentID)
		if err == nil {
			return payload, nil
		}
		if !errors.Is(err, state.ErrNotFound) {
			return nil, err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: agent %s after %v", ErrTimeout, agentID, timeout)
		}
		wait := s.pollInterval
		if remaining < wait {
			wait = remaining
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Join waits for all agent ids in parallel and returns the payloads in
// input order. Failures do not abort the other waits; the returned error
// aggregates every failed slot and the corresponding payloads are nil.
func (s *Store) Join(ctx context.Context, agentIDs []uuid.UUID, timeout time.Duration) ([][]byte, error) {
	payloads := make([][]byte, len(agentIDs))
	errs := make([]error, len(agentIDs))

	var wg sync.WaitGroup
	for i, id := range agentIDs {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			payloads[i], errs[i] = s.Wait(ctx, id, timeout)
		}(i, id)
	}
	wg.Wait()

	return payloads, errors.Join(errs...)
}

// Delete removes the result slot for agentID, reporting whether one
// existed.
func (s *Store) Delete(ctx context.Context, agentID uuid.UUID) (bool, error) {
	return s.backend.Delete(ctx, s.keys.Result(agentID))
}

// Wait retrieves and decodes the result of agentID into R using the
// codec the task's definition registered its result type with.
func Wait[R any](ctx context.Context, s *Store, codec *task.Codec, agentID uuid.UUID, timeout time.Duration) (R, error) {
	var out R
	payload, err := s.Wait(ctx, agentID, timeout)
	if err != nil {
		return out, err
	}
	if err := codec.DecodeInto(payload, &out); err != nil {
		return out, err
	}
	return out, nil
}
