package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextCacheKey(t *testing.T) {
	key := ContextCacheKey("repo", "how does auth work?", 3)

	assert.Contains(t, key, "context:repo:")
	assert.Contains(t, key, ":3")

	// Same question, same key; any change, a different key.
	assert.Equal(t, key, ContextCacheKey("repo", "how does auth work?", 3))
	assert.NotEqual(t, key, ContextCacheKey("repo", "how does auth work?", 4))
	assert.NotEqual(t, key, ContextCacheKey("repo", "other question", 3))
	assert.NotEqual(t, key, ContextCacheKey("other", "how does auth work?", 3))
}

func TestRedisCache(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	cache, err := NewRedisCache(redisURL)
	if err != nil {
		t.Skip("Redis not available")
	}
	defer cache.Close()

	ctx := context.Background()
	key := fmt.Sprintf("test:context:%d", time.Now().UnixNano())

	err = cache.Set(ctx, key, "rendered context", 1*time.Minute)
	require.NoError(t, err)

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "rendered context", got)

	got, err = cache.Get(ctx, key+":missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisCacheIndexVersion(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	cache, err := NewRedisCache(redisURL)
	if err != nil {
		t.Skip("Redis not available")
	}
	defer cache.Close()

	ctx := context.Background()
	collection := fmt.Sprintf("test-version-%d", time.Now().UnixNano())

	version, err := cache.GetIndexVersion(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	newVersion, err := cache.IncrIndexVersion(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, int64(1), newVersion)

	version, err = cache.GetIndexVersion(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}
