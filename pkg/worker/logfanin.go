package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/state"
)

// logRecord is the wire form of one log line on the fan-in channel.
type logRecord struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// PublishHandler is a slog.Handler that mirrors records onto the state
// backend's log channel, so worker processes scattered across hosts can
// funnel their logs into one collector. Publishing is fire-and-forget:
// a broken broker never breaks logging.
type PublishHandler struct {
	backend state.Backend
	channel string
	level   slog.Leveler
	attrs   []slog.Attr
	group   string
}

var _ slog.Handler = (*PublishHandler)(nil)

// NewPublishHandler returns a handler publishing to the configured log
// channel at the given minimum level.
func NewPublishHandler(backend state.Backend, cfg *config.Config, level slog.Leveler) *PublishHandler {
	return &PublishHandler{
		backend: backend,
		channel: state.NewKeys(cfg.KeyPrefix).LogChannel(),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *PublishHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *PublishHandler) Handle(ctx context.Context, r slog.Record) error {
	rec := logRecord{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
		Attrs:   make(map[string]any, r.NumAttrs()+len(h.attrs)),
	}
	for _, a := range h.attrs {
		h.addAttr(rec.Attrs, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.addAttr(rec.Attrs, a)
		return true
	})
	if len(rec.Attrs) == 0 {
		rec.Attrs = nil
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_ = h.backend.Publish(ctx, h.channel, payload)
	return nil
}

func (h *PublishHandler) addAttr(dst map[string]any, a slog.Attr) {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	dst[key] = a.Value.Resolve().Any()
}

// WithAttrs implements slog.Handler.
func (h *PublishHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *PublishHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}

// Collector subscribes to the log channel and re-emits records through
// the local logger. A pool's Run loop starts one so a single process can
// surface the whole deployment's worker logs.
type Collector struct {
	backend state.Backend
	channel string
	logger  *slog.Logger
}

// NewCollector returns a collector for the configured log channel.
func NewCollector(backend state.Backend, cfg *config.Config) *Collector {
	return &Collector{
		backend: backend,
		channel: state.NewKeys(cfg.KeyPrefix).LogChannel(),
		logger:  slog.Default(),
	}
}

// Run consumes until ctx is canceled or the subscription closes.
func (c *Collector) Run(ctx context.Context) {
	sub, err := c.backend.Subscribe(ctx, c.channel)
	if err != nil {
		c.logger.Error("Log collector could not subscribe", "channel", c.channel, "error", err)
		return
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-sub.C():
			if !ok {
				return
			}
			c.emit(ctx, payload)
		}
	}
}

func (c *Collector) emit(ctx context.Context, payload []byte) {
	var rec logRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		c.logger.Warn("Dropping malformed log record", "error", err)
		return
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(rec.Level)); err != nil {
		level = slog.LevelInfo
	}
	attrs := make([]slog.Attr, 0, len(rec.Attrs))
	for k, v := range rec.Attrs {
		attrs = append(attrs, slog.Any(k, v))
	}
	c.logger.LogAttrs(ctx, level, rec.Message, attrs...)
}
