//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests against a local Redis
// Run with: go test -v -tags=integration ./internal/cache/...

func setupTestCache(t *testing.T) (*RedisCache, context.Context) {
	c, err := NewRedisCache(Config{
		Host: "localhost",
		Port: "6379",
		DB:   1,
	})
	require.NoError(t, err, "Failed to connect to test Redis")
	return c, context.Background()
}

func TestCache_SetGetDelete(t *testing.T) {
	c, ctx := setupTestCache(t)
	defer c.Close()

	key := "schedule:1999:1"

	_, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit, "Absent key is a miss, not an error")

	require.NoError(t, c.Set(ctx, key, "payload", time.Minute))

	val, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "payload", val)

	require.NoError(t, c.Delete(ctx, key))

	_, hit, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit, "Deleted key should miss")
}
