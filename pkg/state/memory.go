package state

import (
	"context"
	"sync"
	"time"
)

// subscriberBuffer is the channel depth per in-memory subscriber. Messages
// beyond it are dropped, matching the fire-and-forget pub/sub contract.
const subscriberBuffer = 256

// Memory is an in-process Backend. It is safe for concurrent use and is
// the default for tests and single-process deployments.
type Memory struct {
	mu     sync.Mutex
	closed bool

	lists   map[string]*memoryList
	kv      map[string]memoryValue
	subs    map[string]map[*memorySub]struct{}
	signals map[string]chan struct{}
}

type memoryList struct {
	high [][]byte // FIFO: PopTail takes high[0] first
	low  [][]byte
}

type memoryValue struct {
	data      []byte
	expiresAt time.Time // zero = no expiry
}

// NewMemory creates an empty in-process backend.
func NewMemory() *Memory {
	return &Memory{
		lists:   make(map[string]*memoryList),
		kv:      make(map[string]memoryValue),
		subs:    make(map[string]map[*memorySub]struct{}),
		signals: make(map[string]chan struct{}),
	}
}

// PushFront inserts an item at the high-priority end of the list.
func (m *Memory) PushFront(ctx context.Context, list string, payload []byte) error {
	return m.push(list, payload, true)
}

// PushBack inserts an item at the low-priority end of the list.
func (m *Memory) PushBack(ctx context.Context, list string, payload []byte) error {
	return m.push(list, payload, false)
}

func (m *Memory) push(list string, payload []byte, front bool) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	l, ok := m.lists[list]
	if !ok {
		l = &memoryList{}
		m.lists[list] = l
	}
	item := append([]byte(nil), payload...)
	if front {
		l.high = append(l.high, item)
	} else {
		l.low = append(l.low, item)
	}
	sig := m.signals[list]
	delete(m.signals, list)
	m.mu.Unlock()

	// Wake every blocked consumer; each re-checks the list, so no
	// consumer sleeps through an item another push made available.
	if sig != nil {
		close(sig)
	}
	return nil
}

// PopTail claims the next item, preferring the high-priority class and
// FIFO within each class. Blocks up to timeout.
func (m *Memory) PopTail(ctx context.Context, list string, timeout time.Duration) ([]byte, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return nil, ErrClosed
		}
		if l, ok := m.lists[list]; ok {
			if item, ok := l.pop(); ok {
				m.mu.Unlock()
				return item, nil
			}
		}
		sig := m.signal(list)
		m.mu.Unlock()

		select {
		case <-sig:
			// Retry; another consumer may have won the race.
		case <-deadline.C:
			return nil, ErrEmpty
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (l *memoryList) pop() ([]byte, bool) {
	if len(l.high) > 0 {
		item := l.high[0]
		l.high = l.high[1:]
		return item, true
	}
	if len(l.low) > 0 {
		item := l.low[0]
		l.low = l.low[1:]
		return item, true
	}
	return nil, false
}

// signal returns the wake-up channel for a list, creating it on demand.
// A push closes the current channel to broadcast; the next waiter makes
// a fresh one. Callers must hold m.mu.
func (m *Memory) signal(list string) chan struct{} {
	sig, ok := m.signals[list]
	if !ok {
		sig = make(chan struct{})
		m.signals[list] = sig
	}
	return sig
}

// Get returns the value for key, honoring expiry.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	v, ok := m.kv[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !v.expiresAt.IsZero() && time.Now().After(v.expiresAt) {
		delete(m.kv, key)
		return nil, ErrNotFound
	}
	return append([]byte(nil), v.data...), nil
}

// Set stores value under key with an optional TTL.
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	v := memoryValue{data: append([]byte(nil), value...)}
	if ttl > 0 {
		v.expiresAt = time.Now().Add(ttl)
	}
	m.kv[key] = v
	return nil
}

// Delete removes key, reporting whether it existed.
func (m *Memory) Delete(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrClosed
	}
	_, ok := m.kv[key]
	delete(m.kv, key)
	return ok, nil
}

// Publish delivers payload to current subscribers. Subscribers with a full
// buffer miss the message.
func (m *Memory) Publish(ctx context.Context, channel string, payload []byte) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	subs := make([]*memorySub, 0, len(m.subs[channel]))
	for s := range m.subs[channel] {
		subs = append(subs, s)
	}
	m.mu.Unlock()

	msg := append([]byte(nil), payload...)
	for _, s := range subs {
		select {
		case s.ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber for channel.
func (m *Memory) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	s := &memorySub{
		ch:      make(chan []byte, subscriberBuffer),
		backend: m,
		channel: channel,
	}
	if m.subs[channel] == nil {
		m.subs[channel] = make(map[*memorySub]struct{})
	}
	m.subs[channel][s] = struct{}{}
	return s, nil
}

// Close shuts the backend down and closes all subscriptions.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for _, subs := range m.subs {
		for s := range subs {
			close(s.ch)
		}
	}
	m.subs = make(map[string]map[*memorySub]struct{})
	// Wake any blocked consumers so they observe the closed state.
	for _, sig := range m.signals {
		close(sig)
	}
	m.signals = make(map[string]chan struct{})
	return nil
}

type memorySub struct {
	ch      chan []byte
	backend *Memory
	channel string
	once    sync.Once
}

func (s *memorySub) C() <-chan []byte {
	return s.ch
}

func (s *memorySub) Close() error {
	s.once.Do(func() {
		s.backend.mu.Lock()
		if subs, ok := s.backend.subs[s.channel]; ok {
			if _, live := subs[s]; live {
				delete(subs, s)
				close(s.ch)
			}
		}
		s.backend.mu.Unlock()
	})
	return nil
}
