package debate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aidebater/internal/agent"
)

// Throttle is a fixed-window request counter shared through Redis, so
// parallel tournament workers and separate processes respect one vendor
// quota.
type Throttle struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewThrottle(rdb *redis.Client, limit int, window time.Duration) *Throttle {
	return &Throttle{rdb: rdb, limit: limit, window: window}
}

func throttleKey(key string) string {
	return fmt.Sprintf("rate:agent:%s", key)
}

// Allow counts one request against key and reports whether it fits the window.
// The counter and its expiry are sent together; EXPIRE NX leaves a running
// window alone and gives a key that lost its TTL a new one.
func (t *Throttle) Allow(ctx context.Context, key string) (bool, error) {
	k := throttleKey(key)
	var count *redis.IntCmd
	_, err := t.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, t.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("throttle %s: %w", key, err)
	}
	return count.Val() <= int64(t.limit), nil
}

// Wait blocks until a request against key is allowed.
func (t *Throttle) Wait(ctx context.Context, key string) error {
	for {
		ok, err := t.Allow(ctx, key)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		ttl, err := t.rdb.PTTL(ctx, throttleKey(key)).Result()
		if err != nil || ttl <= 0 {
			ttl = t.window / 10
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ttl):
		}
	}
}

// ThrottledBackend waits for the throttle before every call.
type ThrottledBackend struct {
	agent.Backend
	throttle *Throttle
}

// Throttled wraps b so its calls are counted per "class|model".
func Throttled(b agent.Backend, t *Throttle) agent.Backend {
	if t == nil || t.limit <= 0 {
		return b
	}
	return &ThrottledBackend{Backend: b, throttle: t}
}

func (b *ThrottledBackend) Complete(ctx context.Context, system string, msgs []agent.Message) (string, error) {
	if err := b.throttle.Wait(ctx, b.Class()+"|"+b.Model()); err != nil {
		return "", err
	}
	return b.Backend.Complete(ctx, system, msgs)
}
