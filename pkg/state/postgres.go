package state

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"

	"github.com/agentexec/agentexec/ent"
	"github.com/agentexec/agentexec/ent/kventry"
	"github.com/agentexec/agentexec/ent/queueitem"
	"github.com/agentexec/agentexec/pkg/database"
)

const (
	priorityFront = 0
	priorityBack  = 1

	// claimPollInterval bounds how long a blocked PopTail waits between
	// claim attempts when no NOTIFY wake-up arrives.
	claimPollInterval = 100 * time.Millisecond
)

// Postgres is a Backend stored in PostgreSQL. List items live in a table
// and are claimed with FOR UPDATE SKIP LOCKED inside a transaction, so a
// popped item is seen by exactly one consumer even across processes.
// Pub/sub rides on LISTEN/NOTIFY over a dedicated connection.
type Postgres struct {
	db       *database.Client
	listener *pgListener
}

// NewPostgres wraps an existing database client. The LISTEN connection is
// established lazily on the first Subscribe call.
func NewPostgres(db *database.Client) *Postgres {
	return &Postgres{
		db:       db,
		listener: newPGListener(db.DSN()),
	}
}

// PushFront inserts an item at the high-priority end of the list.
func (p *Postgres) PushFront(ctx context.Context, list string, payload []byte) error {
	return p.push(ctx, list, payload, priorityFront)
}

// PushBack inserts an item at the low-priority end of the list.
func (p *Postgres) PushBack(ctx context.Context, list string, payload []byte) error {
	return p.push(ctx, list, payload, priorityBack)
}

func (p *Postgres) push(ctx context.Context, list string, payload []byte, priority int) error {
	err := p.db.QueueItem.Create().
		SetQueue(list).
		SetPriority(priority).
		SetPayload(payload).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// PopTail claims the next item, preferring front-pushed items and FIFO
// within each priority class. It polls until timeout since list inserts
// have no NOTIFY hook.
func (p *Postgres) PopTail(ctx context.Context, list string, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	for {
		payload, ok, err := p.claim(ctx, list)
		if err != nil {
			return nil, err
		}
		if ok {
			return payload, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrEmpty
		}
		wait := claimPollInterval
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

// claim pops one item inside a transaction. FOR UPDATE SKIP LOCKED makes
// concurrent consumers skip rows another transaction already claimed.
func (p *Postgres) claim(ctx context.Context, list string) ([]byte, bool, error) {
	tx, err := p.db.Tx(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	item, err := tx.QueueItem.Query().
		Where(queueitem.QueueEQ(list)).
		Order(ent.Asc(queueitem.FieldPriority), ent.Asc(queueitem.FieldID)).
		ForUpdate(sql.WithLockAction(sql.SkipLocked)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := tx.QueueItem.DeleteOne(item).Exec(ctx); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return item.Payload, true, nil
}

// Get returns the value for key, honoring expiry. Expired rows are
// deleted on read.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := p.db.KVEntry.Get(ctx, key)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		_ = p.db.KVEntry.DeleteOneID(key).Exec(ctx)
		return nil, ErrNotFound
	}
	return entry.Value, nil
}

// Set stores value under key with an optional TTL.
func (p *Postgres) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}
	err := p.db.KVEntry.Create().
		SetID(key).
		SetValue(value).
		SetNillableExpiresAt(expiresAt).
		OnConflictColumns(kventry.FieldID).
		Update(func(u *ent.KVEntryUpsert) {
			u.SetValue(value)
			if expiresAt != nil {
				u.SetExpiresAt(*expiresAt)
			} else {
				u.ClearExpiresAt()
			}
			u.SetUpdatedAt(time.Now())
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes key, reporting whether it existed.
func (p *Postgres) Delete(ctx context.Context, key string) (bool, error) {
	err := p.db.KVEntry.DeleteOneID(key).Exec(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return true, nil
}

// PurgeExpired deletes key-value rows whose TTL has passed. Reads
// already treat them as absent; this reclaims the storage.
func (p *Postgres) PurgeExpired(ctx context.Context) (int, error) {
	n, err := p.db.KVEntry.Delete().
		Where(kventry.ExpiresAtNotNil(), kventry.ExpiresAtLT(time.Now())).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

// Publish sends payload over pg_notify. NOTIFY payloads are capped at
// 8000 bytes; larger messages are dropped rather than failing the caller.
func (p *Postgres) Publish(ctx context.Context, channel string, payload []byte) error {
	if len(payload) > 7500 {
		return nil
	}
	_, err := p.db.DB().ExecContext(ctx, "SELECT pg_notify($1, $2)", pgChannelName(channel), string(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Subscribe opens a LISTEN subscription for channel.
func (p *Postgres) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	return p.listener.subscribe(ctx, pgChannelName(channel))
}

// Close stops the LISTEN connection. The shared database client is owned
// by the caller and stays open.
func (p *Postgres) Close() error {
	p.listener.stop()
	return nil
}
