package ratelimit

import (
	"context"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/phambaophuc/image-toolkit/internal/config"
)

func newRedisStore(t *testing.T) (CounterStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	store, err := NewRedisStore(config.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisStore error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store, mr
}

func TestRedisStore_Consume(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	for i := 1; i <= 2; i++ {
		used, consumed, err := store.Consume(ctx, "k", 2)
		if err != nil || !consumed || used != i {
			t.Fatalf("call %d: got used=%d consumed=%v err=%v", i, used, consumed, err)
		}
	}

	used, consumed, err := store.Consume(ctx, "k", 2)
	if err != nil || consumed || used != 2 {
		t.Fatalf("over quota: got used=%d consumed=%v err=%v", used, consumed, err)
	}

	got, err := mr.Get(counterKey("k"))
	if err != nil || got != "2" {
		t.Errorf("stored counter: got %q, %v", got, err)
	}
	if usage, _ := store.Usage(ctx, "k"); usage != 2 {
		t.Errorf("Usage: got %d", usage)
	}
	if usage, _ := store.Usage(ctx, "other"); usage != 0 {
		t.Errorf("Usage of unknown key: got %d", usage)
	}
}

func TestRedisStore_Concurrent(t *testing.T) {
	store, _ := newRedisStore(t)
	l := NewLimiter([]string{"k"}, 10, store)
	cred, _ := l.Authenticate("k")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.CheckAndConsume(context.Background(), cred); err == nil {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 10 {
		t.Errorf("allowed %d requests, want 10", allowed)
	}
}

func TestRedisStore_HealthCheck(t *testing.T) {
	store, mr := newRedisStore(t)

	if err := store.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
	mr.Close()
	if err := store.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck should fail when redis is down")
	}
}

func TestNewStore(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.Backend = config.RateLimitMemory
	store, err := NewStore(cfg)
	if err != nil || store.Name() != "memory" {
		t.Fatalf("memory: got %v, %v", store, err)
	}

	cfg.Auth.Backend = "memcached"
	if _, err := NewStore(cfg); err == nil {
		t.Error("unknown backend should fail")
	}
}
