package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/settlement-gateway/internal/cache"
	"github.com/magabrotheeeer/settlement-gateway/internal/config"
)

func TestRedisLimiter_Allow(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.Redis{Address: mr.Addr(), DialTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	l := NewRedisLimiter(c, 2, time.Minute)
	ctx := context.Background()

	d, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)

	d, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, time.Duration(0))

	d, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "other clients have their own window")

	mr.FastForward(time.Minute + time.Second)
	d, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "window expired")
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("redis down")
}

func TestRedisLimiter_CounterError(t *testing.T) {
	_, err := NewRedisLimiter(failingCounter{}, 1, time.Second).Allow(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ratelimit.RedisLimiter.Allow")
}

func TestMemoryLimiter_Allow(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(3, 3*time.Second)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for range 3 {
		d, err := l.Allow(ctx, "client")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}

	d, err := l.Allow(ctx, "client")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Second, d.RetryAfter)

	now = now.Add(time.Second)
	d, err = l.Allow(ctx, "client")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "one token refilled")
}

func TestMemoryLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(1, time.Second)
	l.now = func() time.Time { return now }

	_, _ = l.Allow(context.Background(), "a")
	_, _ = l.Allow(context.Background(), "b")
	assert.Len(t, l.buckets, 2)

	now = now.Add(5 * time.Second)
	_, _ = l.Allow(context.Background(), "c")
	assert.Len(t, l.buckets, 1)
}
