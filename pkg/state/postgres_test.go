package state

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testdb "github.com/agentexec/agentexec/test/database"
)

func newTestPostgres(t *testing.T) *Postgres {
	t.Helper()
	client := testdb.NewTestClient(t)
	backend := NewPostgres(client)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestPostgres_PriorityOrdering(t *testing.T) {
	ctx := context.Background()
	backend := newTestPostgres(t)

	require.NoError(t, backend.PushBack(ctx, "q", []byte("low-1")))
	require.NoError(t, backend.PushBack(ctx, "q", []byte("low-2")))
	require.NoError(t, backend.PushFront(ctx, "q", []byte("high-1")))

	for _, want := range []string{"high-1", "low-1", "low-2"} {
		item, err := backend.PopTail(ctx, "q", time.Second)
		require.NoError(t, err)
		assert.Equal(t, want, string(item))
	}

	_, err := backend.PopTail(ctx, "q", 200*time.Millisecond)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestPostgres_SkipLockedClaimIsExclusive(t *testing.T) {
	ctx := context.Background()
	backend := newTestPostgres(t)

	const items = 20
	for i := 0; i < items; i++ {
		require.NoError(t, backend.PushBack(ctx, "q", []byte(fmt.Sprintf("item-%d", i))))
	}

	var (
		mu   sync.Mutex
		seen = make(map[string]int)
		wg   sync.WaitGroup
	)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				item, err := backend.PopTail(ctx, "q", 300*time.Millisecond)
				if err != nil {
					return
				}
				mu.Lock()
				seen[string(item)]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, items)
	for item, count := range seen {
		assert.Equal(t, 1, count, "item %s claimed more than once", item)
	}
}

func TestPostgres_KVRoundTripAndTTL(t *testing.T) {
	ctx := context.Background()
	backend := newTestPostgres(t)

	require.NoError(t, backend.Set(ctx, "k", []byte("v1"), 0))
	got, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	// Upsert: last writer wins.
	require.NoError(t, backend.Set(ctx, "k", []byte("v2"), 0))
	got, err = backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	require.NoError(t, backend.Set(ctx, "ephemeral", []byte("x"), 50*time.Millisecond))
	time.Sleep(100 * time.Millisecond)
	_, err = backend.Get(ctx, "ephemeral")
	assert.ErrorIs(t, err, ErrNotFound)

	existed, err := backend.Delete(ctx, "k")
	require.NoError(t, err)
	assert.True(t, existed)
	existed, err = backend.Delete(ctx, "k")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestPostgres_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	backend := newTestPostgres(t)

	require.NoError(t, backend.Set(ctx, "keep", []byte("x"), time.Hour))
	require.NoError(t, backend.Set(ctx, "forever", []byte("x"), 0))
	require.NoError(t, backend.Set(ctx, "gone", []byte("x"), time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	n, err := backend.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = backend.Get(ctx, "keep")
	require.NoError(t, err)
	_, err = backend.Get(ctx, "forever")
	require.NoError(t, err)
}

func TestPostgres_PubSubViaNotify(t *testing.T) {
	ctx := context.Background()
	backend := newTestPostgres(t)

	sub, err := backend.Subscribe(ctx, "agentexec:logs")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, backend.Publish(ctx, "agentexec:logs", []byte(`{"msg":"hello"}`)))

	select {
	case payload := <-sub.C():
		assert.JSONEq(t, `{"msg":"hello"}`, string(payload))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for NOTIFY delivery")
	}
}

func TestPostgres_OversizedPublishIsDropped(t *testing.T) {
	ctx := context.Background()
	backend := newTestPostgres(t)

	sub, err := backend.Subscribe(ctx, "agentexec:logs")
	require.NoError(t, err)
	defer sub.Close()

	big := make([]byte, 8000)
	require.NoError(t, backend.Publish(ctx, "agentexec:logs", big), "oversized payloads are dropped, not errors")

	select {
	case <-sub.C():
		t.Fatal("oversized payload should not be delivered")
	case <-time.After(300 * time.Millisecond):
	}
}
