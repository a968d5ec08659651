// Package state defines the pluggable state backend used by the task
// execution framework: a priority list with a blocking pop, a key-value
// store with TTL, and a publish/subscribe channel.
//
// Three implementations are provided: an in-process broker for tests and
// single-process deployments, a Redis broker, and a PostgreSQL broker that
// claims list items with FOR UPDATE SKIP LOCKED and fans out messages over
// LISTEN/NOTIFY.
package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/database"
)

// Sentinel errors for backend operations.
var (
	// ErrEmpty indicates a blocking pop timed out with no item available.
	ErrEmpty = errors.New("list empty")

	// ErrNotFound indicates a key is absent or its TTL expired.
	ErrNotFound = errors.New("key not found")

	// ErrUnavailable indicates the backend connection is gone. Workers
	// treat it as fatal and exit their loop.
	ErrUnavailable = errors.New("state backend unavailable")

	// ErrClosed indicates the backend or subscription was closed.
	ErrClosed = errors.New("state backend closed")
)

// Backend is the capability set every broker must provide.
//
// Ordering contract: an item pushed with PushFront is delivered to a
// consumer before any item pushed with PushBack, even one enqueued
// earlier; within the same priority class delivery is FIFO.
//
// Atomicity contract: a popped item is seen by exactly one consumer.
// A consumer crash after the pop loses the item (at-most-once delivery).
type Backend interface {
	// PushFront inserts an item at the high-priority end of the list.
	PushFront(ctx context.Context, list string, payload []byte) error

	// PushBack inserts an item at the low-priority end of the list.
	PushBack(ctx context.Context, list string, payload []byte) error

	// PopTail atomically claims the next item, blocking up to timeout.
	// Returns ErrEmpty when the timeout elapses with nothing available.
	PopTail(ctx context.Context, list string, timeout time.Duration) ([]byte, error)

	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key, reporting whether it existed.
	Delete(ctx context.Context, key string) (bool, error)

	// Publish sends payload to every current subscriber of channel.
	// Publication is fire-and-forget: slow or absent subscribers drop
	// messages, and failures must not block the caller's work.
	Publish(ctx context.Context, channel string, payload []byte) error

	// Subscribe returns a subscription delivering messages published to
	// channel after the call.
	Subscribe(ctx context.Context, channel string) (Subscription, error)

	// Close releases all backend resources.
	Close() error
}

// Subscription is a live pub/sub stream.
type Subscription interface {
	// C returns the message channel. It is closed when the subscription
	// or its backend is closed.
	C() <-chan []byte

	// Close cancels the subscription.
	Close() error
}

// New builds the backend selected by cfg.StateBackend. The database client
// is only required for the postgres backend and may be nil otherwise.
func New(cfg *config.Config, db *database.Client) (Backend, error) {
	switch cfg.StateBackend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendRedis:
		return NewRedis(cfg)
	case config.BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres state backend requires a database client")
		}
		return NewPostgres(db), nil
	default:
		return nil, fmt.Errorf("unsupported state backend %q", cfg.StateBackend)
	}
}
