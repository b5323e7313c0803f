// internal/common/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventaide/internal/common/config"
	apperrors "eventaide/internal/common/errors"
	"eventaide/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores JSON documents in Redis under a common key prefix.
type RedisCache struct {
	Client *redis.Client
	prefix string
}

// NewRedis creates a new Redis-backed cache
func NewRedis(cfg config.CacheConfig) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return NewFromClient(rdb, cfg.Prefix)
}

// NewFromClient wraps an existing client (tests hand in miniredis or redismock clients).
func NewFromClient(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{Client: client, prefix: prefix}
}

// Ping tests the Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// Key joins parts under the cache prefix, e.g. eventaide:city:new york.
func (c *RedisCache) Key(parts ...string) string {
	if c.prefix == "" {
		return strings.Join(parts, ":")
	}
	return c.prefix + ":" + strings.Join(parts, ":")
}

// GetJSON decodes the value at key into dest. A missing key reports (false, nil);
// a Redis failure reports CACHE_UNAVAILABLE and callers treat it as a miss.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues(keyspace(key, c.prefix), "miss").Inc()
		return false, nil
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues(keyspace(key, c.prefix), "error").Inc()
		return false, apperrors.NewCacheUnavailableError(err)
	}
	if err := json.Unmarshal(val, dest); err != nil {
		// A stale or foreign value; drop it so the next write replaces it.
		_ = c.Client.Del(ctx, key).Err()
		metrics.CacheLookups.WithLabelValues(keyspace(key, c.prefix), "miss").Inc()
		return false, nil
	}
	metrics.CacheLookups.WithLabelValues(keyspace(key, c.prefix), "hit").Inc()
	return true, nil
}

// SetJSON stores value at key with the given expiration.
func (c *RedisCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	if err := c.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		return apperrors.NewCacheUnavailableError(err)
	}
	return nil
}

// keyspace is the first key segment after the prefix ("city", "events"), used as a metric label.
func keyspace(key, prefix string) string {
	if prefix != "" {
		key = strings.TrimPrefix(key, prefix+":")
	}
	if i := strings.Index(key, ":"); i >= 0 {
		return key[:i]
	}
	return key
}
