package cache

import (
	"context"
	stderrors "errors"
	"strconv"
	"testing"
	"time"

	"ojspace/pkg/utils/logger"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_BasicOps(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	got, err := c.Get(ctx, "missing")
	if err != nil || got != "" {
		t.Fatalf("miss = %q, %v", got, err)
	}
	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := c.Get(ctx, "k"); got != "v" {
		t.Fatalf("Get = %q", got)
	}
	if ttl, _ := c.TTL(ctx, "k"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("TTL = %v", ttl)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if got, _ := c.Get(ctx, "k"); got != "" {
		t.Fatalf("key should be gone, got %q", got)
	}
	if err := c.Del(ctx); err != nil {
		t.Fatalf("empty Del: %v", err)
	}
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	if _, err := NewRedisCacheWithConfig(&RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond}); err == nil {
		t.Fatal("expected ping failure")
	}
	if _, err := NewRedisCacheWithConfig(&RedisConfig{}); err == nil {
		t.Fatal("expected error for empty addr")
	}
	if _, err := NewRedisCacheWithConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestGetWithCached(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return 7, nil
	}
	marshal := func(v int) (string, error) { return strconv.Itoa(v), nil }
	unmarshal := strconv.Atoi

	for i := 0; i < 3; i++ {
		v, err := GetWithCached(ctx, c, "n", time.Minute, marshal, unmarshal, fetch)
		if err != nil || v != 7 {
			t.Fatalf("GetWithCached = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := GetWithCached(ctx, c, "n", time.Minute, marshal, unmarshal, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("expired key should refetch, got %d calls", calls)
	}
}

func TestGetWithCached_ErrorsAreNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	boom := stderrors.New("boom")
	_, err := GetWithCached(context.Background(), c, "e", time.Minute,
		func(int) (string, error) { return "", nil },
		strconv.Atoi,
		func(context.Context) (int, error) { return 0, boom })
	if !stderrors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if mr.Exists("e") {
		t.Fatal("failures must not be cached")
	}
}

func TestGetWithCached_CacheDownFallsThrough(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.SetGlobal(logger.FromZap(zap.New(core)))
	t.Cleanup(func() { logger.SetGlobal(nil) })

	c, mr := newTestCache(t)
	mr.Close()
	v, err := GetWithCached(context.Background(), c, "n", time.Minute,
		func(v int) (string, error) { return strconv.Itoa(v), nil },
		strconv.Atoi,
		func(context.Context) (int, error) { return 3, nil })
	if err != nil || v != 3 {
		t.Fatalf("GetWithCached = %d, %v", v, err)
	}
	if n := logs.FilterMessage("cache get failed").Len(); n != 1 {
		t.Fatalf("expected a get warning, got %d", n)
	}
	if n := logs.FilterMessage("cache set failed").Len(); n != 1 {
		t.Fatalf("expected a set warning, got %d", n)
	}
}

func TestGetWithCached_UndecodableValueIsRefetched(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.SetGlobal(logger.FromZap(zap.New(core)))
	t.Cleanup(func() { logger.SetGlobal(nil) })

	c, mr := newTestCache(t)
	if err := mr.Set("n", "not-a-number"); err != nil {
		t.Fatal(err)
	}
	v, err := GetWithCached(context.Background(), c, "n", time.Minute,
		func(v int) (string, error) { return strconv.Itoa(v), nil },
		strconv.Atoi,
		func(context.Context) (int, error) { return 4, nil })
	if err != nil || v != 4 {
		t.Fatalf("GetWithCached = %d, %v", v, err)
	}
	if got, _ := mr.Get("n"); got != "4" {
		t.Fatalf("cache should hold the refetched value, got %q", got)
	}
	if n := logs.FilterMessage("cached value undecodable").Len(); n != 1 {
		t.Fatalf("expected a decode warning, got %d", n)
	}
}

func TestJitterTTL(t *testing.T) {
	for i := 0; i < 50; i++ {
		got := JitterTTL(time.Minute)
		if got > time.Minute || got < 54*time.Second {
			t.Fatalf("JitterTTL = %v", got)
		}
	}
	if JitterTTL(0) != 0 {
		t.Fatal("zero ttl must stay zero")
	}
}
