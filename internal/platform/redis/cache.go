// Package redis provides the Redis-backed implementation of the cache
// abstraction used by the API.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/bulatsharif/trading-api/internal/cache"
	"github.com/bulatsharif/trading-api/internal/config"
)

// RedisCache implements cache.Cache using a shared Redis instance.
// Entry expiry is enforced server-side via SET with expiration.
type RedisCache struct {
	client *goredis.Client
}

// Ensure RedisCache implements cache.Cache
var _ cache.Cache = (*RedisCache)(nil)

// New creates a RedisCache from the cache configuration. The connection is
// verified with a ping so a misconfigured cache host fails at startup
// rather than on the first request.
func New(ctx context.Context, cfg config.CacheConfig) (*RedisCache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return &RedisCache{client: client}, nil
}

// Get implements cache.Cache.Get.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, cache.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return value, nil
}

// Set implements cache.Cache.Set.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Close releases the underlying client's connections.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
