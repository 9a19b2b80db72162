package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewClientFromRedis(rdb), mr
}

func TestRateLimiter_Allow(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()
	key := BuildRateLimitKey("ratelimit", "127.0.0.1", "/api/generate-idea")

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}

	ok, err := limiter.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	remaining, err := limiter.Remaining(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()

	current := time.UnixMilli(1_700_000_000_000)
	limiter.now = func() time.Time { return current }

	ok, err := limiter.Allow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = limiter.Allow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	current = current.Add(1500 * time.Millisecond)
	ok, err = limiter.Allow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiter_SameMillisecondCounted(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewRateLimiter(client)
	fixed := time.UnixMilli(1_700_000_000_000)
	limiter.now = func() time.Time { return fixed }

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(context.Background(), "same", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := limiter.Allow(context.Background(), "same", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRateLimiter_RedisDown(t *testing.T) {
	client, mr := newTestClient(t)
	mr.Close()

	_, err := NewRateLimiter(client).Allow(context.Background(), "k", 1, time.Minute)
	assert.Error(t, err)
}

func TestBuildRateLimitKey(t *testing.T) {
	assert.Equal(t, "rl:1.2.3.4:/api/x", BuildRateLimitKey("rl:", "1.2.3.4", "/api/x"))
	assert.Equal(t, "ratelimit:c:r", BuildRateLimitKey("", "c", "r"))
}
