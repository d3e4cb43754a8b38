package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisCounterPrefix = "throttle:count:"
	redisBlockPrefix   = "throttle:block:"
)

// RedisStore shares throttle state between instances. Expiry is delegated to
// Redis key TTLs, so Prune is a no-op.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Hit counts one request in the window for key. INCR and EXPIRE NX run in one
// transaction, so the first hit opens the window, later hits never extend it,
// and a counter left without a TTL gets one on its next hit.
func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	k := redisCounterPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (s *RedisStore) Block(ctx context.Context, ip string, d time.Duration) error {
	return s.client.Set(ctx, redisBlockPrefix+ip, 1, d).Err()
}

func (s *RedisStore) BlockedFor(ctx context.Context, ip string) (time.Duration, error) {
	ttl, err := s.client.PTTL(ctx, redisBlockPrefix+ip).Result()
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		return 0, nil
	}
	return ttl, nil
}

func (s *RedisStore) Blocked(ctx context.Context) (map[string]time.Duration, error) {
	out := make(map[string]time.Duration)

	iter := s.client.Scan(ctx, 0, redisBlockPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		ttl, err := s.client.PTTL(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if ttl > 0 {
			out[strings.TrimPrefix(key, redisBlockPrefix)] = ttl
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RedisStore) Prune(context.Context) error {
	return nil
}
