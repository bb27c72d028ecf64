// Package cache provides the optional Redis-backed retrieval cache.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache caches rendered context strings between retrievals.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache.
func NewRedisCache(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis connection failed: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Get retrieves a value from cache. Returns empty string if key not found.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Set stores a value in cache with TTL.
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// GetIndexVersion retrieves the current index version for a collection.
func (c *RedisCache) GetIndexVersion(ctx context.Context, collection string) (int64, error) {
	val, err := c.client.Get(ctx, "index:version:"+collection).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

// IncrIndexVersion increments the index version, invalidating every context
// cached under the previous version.
func (c *RedisCache) IncrIndexVersion(ctx context.Context, collection string) (int64, error) {
	return c.client.Incr(ctx, "index:version:"+collection).Result()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// ContextCacheKey generates a cache key for a retrieval question.
func ContextCacheKey(collection, question string, version int64) string {
	h := sha256.Sum256([]byte(question))
	return fmt.Sprintf("context:%s:%x:%d", collection, h[:8], version)
}
