package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})
	return client
}

func TestRedisLimiter_Allow(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	limiter := NewRedisLimiter(client, 3, time.Minute, "test")

	for i := range 3 {
		res, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	other, err := limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestRedisLimiter_WindowSlides(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	limiter := NewRedisLimiter(client, 2, time.Minute, "test")
	now := time.Now()
	limiter.now = func() time.Time { return now }

	for range 2 {
		res, err := limiter.Allow(ctx, "client")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		now = now.Add(time.Millisecond)
	}
	res, err := limiter.Allow(ctx, "client")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	now = now.Add(2 * time.Minute)
	res, err = limiter.Allow(ctx, "client")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisLimiter_Reset(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	limiter := NewRedisLimiter(client, 1, time.Minute, "test")

	_, err := limiter.Allow(ctx, "client")
	require.NoError(t, err)
	require.NoError(t, limiter.Reset(ctx, "client"))

	res, err := limiter.Allow(ctx, "client")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
