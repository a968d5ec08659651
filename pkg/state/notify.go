package state

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// pgChannelName maps a backend channel name onto a plain identifier,
// since LISTEN takes an identifier rather than an arbitrary string.
func pgChannelName(channel string) string {
	return strings.ReplaceAll(channel, ":", "_")
}

// listenCmd represents a LISTEN/UNLISTEN command to be executed by the
// receive loop, which is the sole goroutine that touches the pgx connection.
type listenCmd struct {
	sql    string
	result chan error
}

// pgListener owns the dedicated LISTEN connection and fans incoming
// notifications out to local subscribers.
type pgListener struct {
	connString string

	mu       sync.Mutex
	conn     *pgx.Conn
	subs     map[string]map[*pgSub]struct{}
	started  bool
	stopped  bool
	cancel   context.CancelFunc
	loopDone chan struct{}

	// cmdCh serializes LISTEN/UNLISTEN through the receive loop. This
	// avoids the "conn busy" race between WaitForNotification and Exec.
	cmdCh chan listenCmd
}

func newPGListener(connString string) *pgListener {
	return &pgListener{
		connString: connString,
		subs:       make(map[string]map[*pgSub]struct{}),
		cmdCh:      make(chan listenCmd, 16),
	}
}

// start establishes the LISTEN connection and spawns the receive loop.
// Callers must hold l.mu.
func (l *pgListener) start(ctx context.Context) error {
	if l.started {
		return nil
	}
	if l.stopped {
		return ErrClosed
	}
	conn, err := pgx.Connect(ctx, l.connString)
	if err != nil {
		return fmt.Errorf("%w: connect for LISTEN: %v", ErrUnavailable, err)
	}
	l.conn = conn
	l.started = true

	loopCtx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.loopDone = make(chan struct{})
	go func() {
		defer close(l.loopDone)
		l.receiveLoop(loopCtx)
	}()
	return nil
}

// subscribe registers a subscriber for channel, issuing LISTEN on the
// first subscriber of that channel.
func (l *pgListener) subscribe(ctx context.Context, channel string) (Subscription, error) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return nil, ErrClosed
	}
	if err := l.start(ctx); err != nil {
		l.mu.Unlock()
		return nil, err
	}
	first := len(l.subs[channel]) == 0
	s := &pgSub{
		ch:       make(chan []byte, subscriberBuffer),
		listener: l,
		channel:  channel,
	}
	if l.subs[channel] == nil {
		l.subs[channel] = make(map[*pgSub]struct{})
	}
	l.subs[channel][s] = struct{}{}
	l.mu.Unlock()

	if first {
		if err := l.exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

// exec runs a LISTEN/UNLISTEN statement via the receive loop.
func (l *pgListener) exec(ctx context.Context, sql string) error {
	cmd := listenCmd{sql: sql, result: make(chan error, 1)}
	select {
	case l.cmdCh <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.result:
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnavailable, sql, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// receiveLoop continuously receives notifications and dispatches them to
// subscribers. It is the sole goroutine that touches the pgx connection.
func (l *pgListener) receiveLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		l.processPendingCmds(ctx)

		l.mu.Lock()
		conn := l.conn
		l.mu.Unlock()
		if conn == nil {
			l.reconnect(ctx)
			continue
		}

		// Short timeout so pending LISTEN/UNLISTEN commands get a turn.
		waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		notification, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if waitCtx.Err() != nil {
				continue
			}
			slog.Error("NOTIFY receive error", "error", err)
			l.reconnect(ctx)
			continue
		}

		l.dispatch(notification.Channel, []byte(notification.Payload))
	}
}

func (l *pgListener) dispatch(channel string, payload []byte) {
	l.mu.Lock()
	subs := make([]*pgSub, 0, len(l.subs[channel]))
	for s := range l.subs[channel] {
		subs = append(subs, s)
	}
	l.mu.Unlock()

	for _, s := range subs {
		select {
		case s.ch <- payload:
		default:
			// Slow consumer: drop, per the fire-and-forget contract.
		}
	}
}

// processPendingCmds drains the command channel and executes each
// LISTEN/UNLISTEN statement on the pgx connection.
func (l *pgListener) processPendingCmds(ctx context.Context) {
	for {
		select {
		case cmd := <-l.cmdCh:
			l.mu.Lock()
			conn := l.conn
			l.mu.Unlock()
			if conn == nil {
				cmd.result <- fmt.Errorf("LISTEN connection not established")
				continue
			}
			_, err := conn.Exec(ctx, cmd.sql)
			cmd.result <- err
		default:
			return
		}
	}
}

// reconnect re-establishes the LISTEN connection with exponential backoff
// and re-issues LISTEN for every channel that still has subscribers.
func (l *pgListener) reconnect(ctx context.Context) {
	l.mu.Lock()
	if l.conn != nil {
		_ = l.conn.Close(ctx)
		l.conn = nil
	}
	l.mu.Unlock()

	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		conn, err := pgx.Connect(ctx, l.connString)
		if err != nil {
			slog.Error("LISTEN reconnect failed", "error", err, "backoff", backoff)
			backoff = min(backoff*2, 30*time.Second)
			continue
		}

		l.mu.Lock()
		l.conn = conn
		channels := make([]string, 0, len(l.subs))
		for ch, subs := range l.subs {
			if len(subs) > 0 {
				channels = append(channels, ch)
			}
		}
		l.mu.Unlock()

		for _, ch := range channels {
			if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ch}.Sanitize()); err != nil {
				slog.Error("Re-LISTEN failed", "channel", ch, "error", err)
			}
		}
		slog.Info("LISTEN connection re-established")
		return
	}
}

// stop signals the receive loop to exit, waits for it, and closes the
// connection and every subscriber channel.
func (l *pgListener) stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	cancel := l.cancel
	done := l.loopDone
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		ctx, cancelClose := context.WithTimeout(context.Background(), 5*time.Second)
		_ = l.conn.Close(ctx)
		cancelClose()
		l.conn = nil
	}
	for _, subs := range l.subs {
		for s := range subs {
			close(s.ch)
		}
	}
	l.subs = make(map[string]map[*pgSub]struct{})
}

type pgSub struct {
	ch       chan []byte
	listener *pgListener
	channel  string
	once     sync.Once
}

func (s *pgSub) C() <-chan []byte {
	return s.ch
}

func (s *pgSub) Close() error {
	s.once.Do(func() {
		l := s.listener
		l.mu.Lock()
		last := false
		if subs, ok := l.subs[s.channel]; ok {
			if _, live := subs[s]; live {
				delete(subs, s)
				close(s.ch)
				last = len(subs) == 0
			}
		}
		stopped := l.stopped
		l.mu.Unlock()

		if last && !stopped {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = l.exec(ctx, "UNLISTEN "+pgx.Identifier{s.channel}.Sanitize())
			cancel()
		}
	})
	return nil
}
