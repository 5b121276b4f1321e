package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewClientWithRedis(rdb, nil), mr
}

type payload struct {
	Tags []string `json:"tags"`
}

func TestCacheGetOrLoadSafe(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewCache(client, "trend")
	ctx := context.Background()

	var loads int32
	loader := func(context.Context) (any, error) {
		atomic.AddInt32(&loads, 1)
		return payload{Tags: []string{"coffee"}}, nil
	}

	first, err := cache.GetOrLoadSafe(ctx, "trend:tiktok:coffee", time.Hour, loader)
	if err != nil {
		t.Fatalf("GetOrLoadSafe: %v", err)
	}
	second, err := cache.GetOrLoadSafe(ctx, "trend:tiktok:coffee", time.Hour, loader)
	if err != nil {
		t.Fatalf("GetOrLoadSafe: %v", err)
	}
	if string(first) != `{"tags":["coffee"]}` || string(first) != string(second) {
		t.Errorf("values = %s / %s", first, second)
	}
	if loads != 1 {
		t.Errorf("loader called %d times, want 1", loads)
	}
	if ttl := mr.TTL("trend:tiktok:coffee"); ttl != time.Hour {
		t.Errorf("ttl = %v", ttl)
	}
}

func TestCacheGetOrLoadSafeConcurrent(t *testing.T) {
	client, _ := newTestClient(t)
	cache := NewCache(client, "trend")

	var loads int32
	release := make(chan struct{})
	loader := func(context.Context) (any, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return payload{Tags: []string{"x"}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cache.GetOrLoadSafe(context.Background(), "k", time.Minute, loader)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&loads); n < 1 || n > 8 {
		t.Fatalf("loads = %d", n)
	}
}

func TestCacheLoaderErrorNotCached(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewCache(client, "trend")

	_, err := cache.GetOrLoadSafe(context.Background(), "k", time.Minute, func(context.Context) (any, error) {
		return nil, errors.New("upstream down")
	})
	if err == nil {
		t.Fatal("expected loader error")
	}
	if mr.Exists("k") {
		t.Fatal("error result must not be cached")
	}
}

func TestCacheJSONRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	cache := NewCache(client, "test")
	ctx := context.Background()

	var got payload
	if hit, err := cache.GetJSON(ctx, "missing", &got); err != nil || hit {
		t.Fatalf("missing key: hit=%v err=%v", hit, err)
	}
	if err := cache.SetJSON(ctx, "p", payload{Tags: []string{"a", "b"}}, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if hit, err := cache.GetJSON(ctx, "p", &got); err != nil || !hit || len(got.Tags) != 2 {
		t.Fatalf("GetJSON = %v %v %+v", hit, err, got)
	}
	if err := cache.InvalidatePattern(ctx, "p*"); err != nil {
		t.Fatalf("InvalidatePattern: %v", err)
	}
	if hit, _ := cache.GetJSON(ctx, "p", &got); hit {
		t.Fatal("expected key invalidated")
	}
}

func TestRateLimiterAllow(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()
	key := BuildRateLimitKey("10.0.0.1", "/v1/content/generate")

	for i := 0; i < 3; i++ {
		ok, remaining, err := limiter.Allow(ctx, key, 3, time.Hour)
		if err != nil || !ok {
			t.Fatalf("request %d rejected: %v", i, err)
		}
		if remaining != 2-i {
			t.Errorf("request %d remaining = %d", i, remaining)
		}
	}
	ok, _, err := limiter.Allow(ctx, key, 3, time.Hour)
	if err != nil || ok {
		t.Fatalf("4th request allowed=%v err=%v", ok, err)
	}

	if err := limiter.Reset(ctx, key); err != nil {
		t.Fatal(err)
	}
	if ok, _, _ := limiter.Allow(ctx, key, 3, time.Hour); !ok {
		t.Fatal("expected allow after reset")
	}
}

func TestHealthCheck(t *testing.T) {
	client, mr := newTestClient(t)
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	mr.Close()
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error after server close")
	}
}
