package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/phambaophuc/image-toolkit/internal/config"
)

// CounterStore keeps per-credential usage counters.
type CounterStore interface {
	// Consume increments the counter for key unless it has already reached quota.
	// It returns the usage after the call and whether a unit was consumed.
	Consume(ctx context.Context, key string, quota int) (used int, consumed bool, err error)
	// Usage returns the current counter for key.
	Usage(ctx context.Context, key string) (int, error)
	Name() string
	HealthCheck(ctx context.Context) error
	Close() error
}

// NewStore builds the counter store selected by RATE_LIMIT_BACKEND.
func NewStore(cfg *config.Config) (CounterStore, error) {
	switch cfg.Auth.Backend {
	case "", config.RateLimitMemory:
		return NewMemoryStore(), nil
	case config.RateLimitRedis:
		return NewRedisStore(cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported rate limit backend: %s", cfg.Auth.Backend)
	}
}

// counterKey hashes the credential so raw API keys never appear in the store.
func counterKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "quota:usage:" + hex.EncodeToString(sum[:])
}
