package state

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PriorityOrdering(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	// Back-pushed items enqueued first still lose to front-pushed ones.
	require.NoError(t, m.PushBack(ctx, "tasks", []byte("low-1")))
	require.NoError(t, m.PushBack(ctx, "tasks", []byte("low-2")))
	require.NoError(t, m.PushFront(ctx, "tasks", []byte("high-1")))
	require.NoError(t, m.PushFront(ctx, "tasks", []byte("high-2")))

	var got []string
	for i := 0; i < 4; i++ {
		item, err := m.PopTail(ctx, "tasks", time.Second)
		require.NoError(t, err)
		got = append(got, string(item))
	}
	assert.Equal(t, []string{"high-1", "high-2", "low-1", "low-2"}, got)
}

func TestMemory_PopTailTimeout(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	start := time.Now()
	_, err := m.PopTail(ctx, "empty", 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrEmpty)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestMemory_PopTailWakesOnPush(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	done := make(chan []byte, 1)
	go func() {
		item, err := m.PopTail(ctx, "tasks", 5*time.Second)
		if err == nil {
			done <- item
		}
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, m.PushBack(ctx, "tasks", []byte("wake")))

	select {
	case item := <-done:
		assert.Equal(t, "wake", string(item))
	case <-time.After(time.Second):
		t.Fatal("blocked pop was not woken by push")
	}
}

func TestMemory_PushWakesEveryBlockedConsumer(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	// Two consumers block, then two items arrive back to back. Both
	// consumers must claim one promptly; a consumer that misses the wake
	// would stall for its full pop timeout despite an available item.
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := m.PopTail(ctx, "tasks", 5*time.Second)
			results <- err
		}()
	}
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, m.PushBack(ctx, "tasks", []byte("one")))
	require.NoError(t, m.PushBack(ctx, "tasks", []byte("two")))

	for i := 0; i < 2; i++ {
		select {
		case err := <-results:
			require.NoError(t, err)
		case <-time.After(500 * time.Millisecond):
			t.Fatal("a blocked consumer slept through an available item")
		}
	}
}

func TestMemory_PopTailContextCancel(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := m.PopTail(ctx, "tasks", 5*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemory_ExactlyOnceDelivery(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	const items = 100
	for i := 0; i < items; i++ {
		require.NoError(t, m.PushBack(ctx, "tasks", []byte(fmt.Sprintf("item-%d", i))))
	}

	var mu sync.Mutex
	seen := make(map[string]int)
	var wg sync.WaitGroup
	for c := 0; c < 8; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				item, err := m.PopTail(ctx, "tasks", 50*time.Millisecond)
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

	assert.Len(t, seen, items)
	for item, count := range seen {
		assert.Equal(t, 1, count, "item %s delivered %d times", item, count)
	}
}

func TestMemory_ListsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	require.NoError(t, m.PushBack(ctx, "a", []byte("for-a")))

	_, err := m.PopTail(ctx, "b", 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrEmpty)

	item, err := m.PopTail(ctx, "a", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "for-a", string(item))
}

func TestMemory_KV(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "k", []byte("v1"), 0))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	// Overwrite.
	require.NoError(t, m.Set(ctx, "k", []byte("v2"), 0))
	got, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	existed, err := m.Delete(ctx, "k")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = m.Delete(ctx, "k")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestMemory_KVExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	require.NoError(t, m.Set(ctx, "short", []byte("v"), 30*time.Millisecond))

	got, err := m.Get(ctx, "short")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	time.Sleep(50 * time.Millisecond)
	_, err = m.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_PubSub(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	// A message published before any subscription is lost.
	require.NoError(t, m.Publish(ctx, "events", []byte("lost")))

	sub1, err := m.Subscribe(ctx, "events")
	require.NoError(t, err)
	sub2, err := m.Subscribe(ctx, "events")
	require.NoError(t, err)
	defer sub1.Close()
	defer sub2.Close()

	require.NoError(t, m.Publish(ctx, "events", []byte("hello")))

	for _, sub := range []Subscription{sub1, sub2} {
		select {
		case msg := <-sub.C():
			assert.Equal(t, "hello", string(msg))
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive message")
		}
	}
}

func TestMemory_SubscriptionClose(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	sub, err := m.Subscribe(ctx, "events")
	require.NoError(t, err)
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close()) // idempotent

	_, open := <-sub.C()
	assert.False(t, open)

	// Publishing after the subscriber left must not fail.
	assert.NoError(t, m.Publish(ctx, "events", []byte("nobody-home")))
}

func TestMemory_CloseUnblocksAndRejects(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	errCh := make(chan error, 1)
	go func() {
		_, err := m.PopTail(ctx, "tasks", 10*time.Second)
		errCh <- err
	}()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, m.Close())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("blocked pop was not unblocked by Close")
	}

	assert.ErrorIs(t, m.PushBack(ctx, "tasks", []byte("x")), ErrClosed)
	assert.ErrorIs(t, m.Set(ctx, "k", []byte("v"), 0), ErrClosed)
	_, err := m.Subscribe(ctx, "events")
	assert.ErrorIs(t, err, ErrClosed)
}
