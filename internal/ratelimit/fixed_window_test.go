package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, mr *miniredis.Miniredis, limit int, window time.Duration) *FixedWindowLimiter {
	t.Helper()
	limiter, err := NewRedisFixedWindowLimiter(mr.Addr(), "", "test:ratelimit", limit, window)
	require.NoError(t, err)
	t.Cleanup(func() { _ = limiter.Close() })
	return limiter
}

func TestFixedWindowLimiterRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := newTestLimiter(t, mr, 2, time.Minute)
	ctx := context.Background()

	first, err := limiter.Allow(ctx, "ip-1")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)
	assert.Equal(t, 2, first.Limit)
	assert.Greater(t, first.Reset, time.Duration(0))
	assert.LessOrEqual(t, first.Reset, time.Minute)

	second, err := limiter.Allow(ctx, "ip-1")
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	third, err := limiter.Allow(ctx, "ip-1")
	require.NoError(t, err)
	assert.False(t, third.Allowed)
	assert.Equal(t, 0, third.Remaining)

	other, err := limiter.Allow(ctx, "ip-2")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are limited independently")
}

func TestFixedWindowLimiterNewWindowResetsQuota(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := newTestLimiter(t, mr, 1, time.Minute)
	ctx := context.Background()

	start := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return start }

	res, err := limiter.Allow(ctx, "ip-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	res, err = limiter.Allow(ctx, "ip-1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	limiter.now = func() time.Time { return start.Add(time.Minute) }
	res, err = limiter.Allow(ctx, "ip-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestFixedWindowLimiterSetsExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := newTestLimiter(t, mr, 5, 30*time.Second)

	_, err := limiter.Allow(context.Background(), "ip-1")
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "test:ratelimit:ip-1:")
	assert.Equal(t, 30*time.Second, mr.TTL(keys[0]))
}

func TestFixedWindowLimiterRedisFailOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := newTestLimiter(t, mr, 1, time.Second)
	mr.Close()

	res, err := limiter.Allow(context.Background(), "ip-1")
	assert.Error(t, err)
	assert.True(t, res.Allowed)
}

func TestFixedWindowLimiterBlankKey(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := newTestLimiter(t, mr, 1, time.Minute)

	_, err := limiter.Allow(context.Background(), "  ")
	require.NoError(t, err)
	require.Len(t, mr.Keys(), 1)
	assert.Contains(t, mr.Keys()[0], ":unknown:")
}

func TestNewRedisFixedWindowLimiterValidation(t *testing.T) {
	tests := []struct {
		name   string
		addr   string
		limit  int
		window time.Duration
	}{
		{"empty addr", "", 1, time.Second},
		{"zero limit", "localhost:6379", 0, time.Second},
		{"zero window", "localhost:6379", 1, 0},
		{"sub-millisecond window", "localhost:6379", 1, time.Microsecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, err := NewRedisFixedWindowLimiter(tt.addr, "", "", tt.limit, tt.window)
			assert.Error(t, err)
			assert.Nil(t, limiter)
		})
	}
}

func TestNewRedisFixedWindowLimiterDefaults(t *testing.T) {
	limiter, err := NewRedisFixedWindowLimiter("localhost:6379", "", " ", 10, time.Minute)
	require.NoError(t, err)
	defer func() { _ = limiter.Close() }()
	assert.Equal(t, DefaultPrefix, limiter.redisPrefix)
	assert.Equal(t, 10, limiter.Limit())
	assert.Equal(t, time.Minute, limiter.Window())
}
