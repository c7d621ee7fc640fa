package ratelimit

import (
	"context"
	"errors"
	"fmt"

	"github.com/phambaophuc/image-toolkit/internal/config"
	"github.com/redis/go-redis/v9"
)

// consumeScript compares and increments in one step so concurrent requests cannot
// push a counter past its quota.
var consumeScript = redis.NewScript(`
local used = tonumber(redis.call('GET', KEYS[1]) or '0')
if used >= tonumber(ARGV[1]) then
  return {used, 0}
end
used = redis.call('INCR', KEYS[1])
return {used, 1}
`)

type redisStore struct {
	client *redis.Client
}

// NewRedisStore shares counters between replicas through redis.
func NewRedisStore(cfg config.RedisConfig) (CounterStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisStore{client: client}, nil
}

func (s *redisStore) Consume(ctx context.Context, key string, quota int) (int, bool, error) {
	res, err := consumeScript.Run(ctx, s.client, []string{counterKey(key)}, quota).Int64Slice()
	if err != nil {
		return 0, false, fmt.Errorf("quota script failed: %w", err)
	}
	if len(res) != 2 {
		return 0, false, fmt.Errorf("quota script returned %d values", len(res))
	}
	return int(res[0]), res[1] == 1, nil
}

func (s *redisStore) Usage(ctx context.Context, key string) (int, error) {
	used, err := s.client.Get(ctx, counterKey(key)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return used, err
}

func (s *redisStore) Name() string { return "redis" }

func (s *redisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
