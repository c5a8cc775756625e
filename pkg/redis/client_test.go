package redis

import (
	"context"
	"testing"
	"time"

	"github.com/payvault-io/payvault-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values  map[string]string
	expired map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, expired: map[string]time.Duration{}}
}

func (f *fakeStore) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := f.values[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	n := int64(1)
	if v, ok := f.values[key]; ok && v == "1" {
		n = 2
	}
	if n == 1 {
		f.values[key] = "1"
	} else {
		f.values[key] = "2"
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expired[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestIdempotencyKeyNamespacing(t *testing.T) {
	c := &Client{store: newFakeStore()}
	key := c.IdempotencyKey("u1|POST|/api/v1/payments", "abc")
	if key != "pv:idempotency:u1|POST|/api/v1/payments:abc" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestSetNXFirstWriterWins(t *testing.T) {
	c := &Client{store: newFakeStore()}
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "k", "first", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first SetNX: ok=%v err=%v", ok, err)
	}
	ok, err = c.SetNX(ctx, "k", "second", time.Minute)
	if err != nil || ok {
		t.Fatalf("second SetNX should lose: ok=%v err=%v", ok, err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || got != "first" {
		t.Fatalf("expected first value kept, got %q err=%v", got, err)
	}
}

func TestFixedWindowAllow(t *testing.T) {
	store := newFakeStore()
	c := &Client{store: store}
	ctx := context.Background()

	allowed, count, err := c.FixedWindowAllow(ctx, "checkout:u1", 1, time.Minute)
	if err != nil || !allowed || count != 1 {
		t.Fatalf("first call: allowed=%v count=%d err=%v", allowed, count, err)
	}
	if _, ok := store.expired[c.RateLimitKey("checkout:u1")]; !ok {
		t.Fatal("expected TTL set on first increment")
	}

	allowed, count, err = c.FixedWindowAllow(ctx, "checkout:u1", 1, time.Minute)
	if err != nil || allowed || count != 2 {
		t.Fatalf("second call should exceed limit: allowed=%v count=%d err=%v", allowed, count, err)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error with neither URL nor address")
	}
}
