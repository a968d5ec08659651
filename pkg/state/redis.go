package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agentexec/agentexec/pkg/config"
)

// Redis is a Backend on top of a Redis server.
//
// Each list is stored as a pair of Redis lists: "<list>:high" for items
// pushed to the front and "<list>" for items pushed to the back. Both are
// LPUSHed and consumed with BRPOP, which scans its keys in order, so the
// high list drains first and each list stays FIFO.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the Redis URL in cfg and verifies the connection.
func NewRedis(cfg *config.Config) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.PoolSize = cfg.RedisPoolSize
	opts.PoolTimeout = cfg.RedisPoolTimeout

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RedisPoolTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &Redis{client: client}, nil
}

// NewRedisFromClient wraps an existing client (useful for testing).
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func highList(list string) string { return list + ":high" }

// PushFront inserts an item at the high-priority end of the list.
func (r *Redis) PushFront(ctx context.Context, list string, payload []byte) error {
	if err := r.client.LPush(ctx, highList(list), payload).Err(); err != nil {
		return wrapRedisErr(err)
	}
	return nil
}

// PushBack inserts an item at the low-priority end of the list.
func (r *Redis) PushBack(ctx context.Context, list string, payload []byte) error {
	if err := r.client.LPush(ctx, list, payload).Err(); err != nil {
		return wrapRedisErr(err)
	}
	return nil
}

// PopTail claims the next item, blocking up to timeout.
func (r *Redis) PopTail(ctx context.Context, list string, timeout time.Duration) ([]byte, error) {
	res, err := r.client.BRPop(ctx, timeout, highList(list), list).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrEmpty
		}
		return nil, wrapRedisErr(err)
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of length %d", len(res))
	}
	return []byte(res[1]), nil
}

// Get returns the value for key, or ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, wrapRedisErr(err)
	}
	return data, nil
}

// Set stores value under key with an optional TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return wrapRedisErr(err)
	}
	return nil
}

// Delete removes key, reporting whether it existed.
func (r *Redis) Delete(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, wrapRedisErr(err)
	}
	return n > 0, nil
}

// Publish sends payload to subscribers of channel.
func (r *Redis) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		return wrapRedisErr(err)
	}
	return nil
}

// Subscribe opens a Redis pub/sub subscription for channel.
func (r *Redis) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	pubsub := r.client.Subscribe(ctx, channel)
	// Force the subscription onto the wire so messages published after
	// Subscribe returns are not missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, wrapRedisErr(err)
	}

	sub := &redisSub{
		pubsub: pubsub,
		ch:     make(chan []byte, subscriberBuffer),
	}
	go sub.pump()
	return sub, nil
}

// Close releases the Redis connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

func wrapRedisErr(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

type redisSub struct {
	pubsub *redis.PubSub
	ch     chan []byte
}

func (s *redisSub) pump() {
	defer close(s.ch)
	for msg := range s.pubsub.Channel() {
		select {
		case s.ch <- []byte(msg.Payload):
		default:
			// Slow consumer: drop, per the fire-and-forget contract.
		}
	}
}

func (s *redisSub) C() <-chan []byte {
	return s.ch
}

func (s *redisSub) Close() error {
	return s.pubsub.Close()
}
