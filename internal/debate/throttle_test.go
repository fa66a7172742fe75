package debate

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"aidebater/internal/agent/agenttest"
)

// fakeRedis answers INCR, EXPIRE and PTTL in memory through client hooks,
// so no server is dialled.
type fakeRedis struct {
	mu          sync.Mutex
	counts      map[string]int64
	ttls        map[string]time.Duration
	failExpires int
	commands    []string
}

func newFakeRedis(t *testing.T) (*redis.Client, *fakeRedis) {
	t.Helper()
	f := &fakeRedis{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
	rdb := redis.NewClient(&redis.Options{Addr: "fake:6379"})
	rdb.AddHook(f)
	t.Cleanup(func() { rdb.Close() })
	return rdb, f
}

func (f *fakeRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("fake redis does not dial")
	}
}

func (f *fakeRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		f.apply(cmd)
		return cmd.Err()
	}
}

func (f *fakeRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		var first error
		for _, cmd := range cmds {
			f.apply(cmd)
			if err := cmd.Err(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
}

func (f *fakeRedis) apply(cmd redis.Cmder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	args := cmd.Args()
	f.commands = append(f.commands, strings.ToLower(cmd.Name()))
	switch c := cmd.(type) {
	case *redis.StatusCmd: // MULTI
		c.SetVal("OK")
	case *redis.SliceCmd: // EXEC
		c.SetVal(nil)
	case *redis.IntCmd: // INCR
		key := args[1].(string)
		f.counts[key]++
		c.SetVal(f.counts[key])
	case *redis.BoolCmd: // EXPIRE key seconds NX
		if f.failExpires > 0 {
			f.failExpires--
			c.SetErr(errors.New("READONLY You can't write against a read only replica."))
			return
		}
		key := args[1].(string)
		if _, ok := f.ttls[key]; ok {
			c.SetVal(false)
			return
		}
		f.ttls[key] = time.Duration(args[2].(int64)) * time.Second
		c.SetVal(true)
	case *redis.DurationCmd: // PTTL
		ttl, ok := f.ttls[args[1].(string)]
		if !ok {
			ttl = -1
		}
		c.SetVal(ttl)
	default:
		c.SetErr(errors.New("unsupported command " + cmd.Name()))
	}
}

func (f *fakeRedis) ttl(key string) (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.ttls[key]
	return d, ok
}

func TestThrottleAllowCountsWithinWindow(t *testing.T) {
	rdb, f := newFakeRedis(t)
	th := NewThrottle(rdb, 2, time.Minute)
	ctx := context.Background()

	var got []bool
	for i := 0; i < 3; i++ {
		ok, err := th.Allow(ctx, "OpenAI|gpt-4")
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		got = append(got, ok)
	}
	if got[0] != true || got[1] != true || got[2] != false {
		t.Errorf("Allow() = %v, want [true true false]", got)
	}
	if ttl, ok := f.ttl("rate:agent:OpenAI|gpt-4"); !ok || ttl != time.Minute {
		t.Errorf("window ttl = %v (set %v), want 1m", ttl, ok)
	}
	if n := strings.Count(strings.Join(f.commands, " "), "expire"); n != 3 {
		t.Errorf("expire sent %d times, want once per Allow", n)
	}
}

func TestThrottleRestoresExpiryAfterFailure(t *testing.T) {
	rdb, f := newFakeRedis(t)
	f.failExpires = 1
	th := NewThrottle(rdb, 5, time.Minute)
	ctx := context.Background()

	if _, err := th.Allow(ctx, "k"); err == nil {
		t.Fatal("Allow() hid a failed EXPIRE")
	}
	if _, ok := f.ttl("rate:agent:k"); ok {
		t.Fatal("fake recorded a ttl for the failed EXPIRE")
	}
	if _, err := th.Allow(ctx, "k"); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if ttl, ok := f.ttl("rate:agent:k"); !ok || ttl != time.Minute {
		t.Errorf("ttl after retry = %v (set %v), want 1m", ttl, ok)
	}
}

func TestThrottledBackendPassesThrough(t *testing.T) {
	rdb, _ := newFakeRedis(t)
	b := agenttest.NewScripted("Prop", "m", "hello")
	wrapped := Throttled(b, NewThrottle(rdb, 10, time.Minute))
	out, err := wrapped.Complete(context.Background(), "system", nil)
	if err != nil || out != "hello" {
		t.Fatalf("Complete() = %q, %v", out, err)
	}
	if Throttled(b, nil) != b {
		t.Error("nil throttle should not wrap the backend")
	}
}
