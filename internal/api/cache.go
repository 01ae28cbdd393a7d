package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/commerce-pulse/internal/config"
	"github.com/ignite/commerce-pulse/internal/pkg/logger"
)

// Cache is a Redis-backed response cache for dashboard payloads. A nil
// client makes every operation a no-op, so handlers never branch on
// whether caching is configured.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache connects to Redis per config. Returns a no-op cache when
// caching is disabled.
func NewCache(cfg config.CacheConfig) *Cache {
	if !cfg.Enabled {
		return &Cache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	return &Cache{
		client: client,
		ttl:    time.Duration(cfg.TTLSeconds) * time.Second,
	}
}

// NewCacheWithClient wraps an existing client. Used by tests.
func NewCacheWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached payload for key, or false on a miss. Redis
// errors are treated as misses and logged.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("cache get failed", "key", key, "error", err.Error())
		return nil, false
	}
	return data, true
}

// Set stores a payload. Write failures are logged, never surfaced; a
// broken cache must not break the response.
func (c *Cache) Set(ctx context.Context, key string, data []byte) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("cache set failed", "key", key, "error", err.Error())
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
