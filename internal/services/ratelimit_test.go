package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRateLimiterLocksAfterMaxAttempts(t *testing.T) {
	cache := newFakeCache()
	limiter := NewLoginRateLimiter(cache, 5, 15*time.Minute, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		limiter.Hit(ctx, "10.0.0.1", "1234567")
		locked, _, err := limiter.TooManyAttempts(ctx, "10.0.0.1", "1234567")
		require.NoError(t, err)
		assert.False(t, locked, "attempt %d should not lock", i+1)
	}

	limiter.Hit(ctx, "10.0.0.1", "1234567")
	locked, minutes, err := limiter.TooManyAttempts(ctx, "10.0.0.1", "1234567")
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, 15, minutes)
}

func TestRateLimiterKeyIsPerIPAndIdentifier(t *testing.T) {
	cache := newFakeCache()
	limiter := NewLoginRateLimiter(cache, 5, 15*time.Minute, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		limiter.Hit(ctx, "10.0.0.1", "1234567")
	}

	locked, _, _ := limiter.TooManyAttempts(ctx, "10.0.0.2", "1234567")
	assert.False(t, locked, "different IP shares no counter")
	locked, _, _ = limiter.TooManyAttempts(ctx, "10.0.0.1", "7654321")
	assert.False(t, locked, "different identifier shares no counter")
}

func TestRateLimiterIPIsLowercased(t *testing.T) {
	cache := newFakeCache()
	limiter := NewLoginRateLimiter(cache, 1, 15*time.Minute, zap.NewNop())
	ctx := context.Background()

	// IPv6 hex digits must land on the same key regardless of case.
	limiter.Hit(ctx, "2001:DB8::1", "1234567")
	locked, _, _ := limiter.TooManyAttempts(ctx, "2001:db8::1", "1234567")
	assert.True(t, locked)
}

func TestRateLimiterRoundsSecondsUpToMinutes(t *testing.T) {
	cache := newFakeCache()
	limiter := NewLoginRateLimiter(cache, 1, 15*time.Minute, zap.NewNop())
	ctx := context.Background()

	limiter.Hit(ctx, "10.0.0.1", "1234567")
	// Simulate a partially elapsed window.
	cache.ttls["login_throttle:10.0.0.1|1234567"] = 61 * time.Second

	locked, minutes, err := limiter.TooManyAttempts(ctx, "10.0.0.1", "1234567")
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, 2, minutes)
}

func TestRateLimiterSurfacesCacheFailure(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	limiter := NewLoginRateLimiter(cache, 5, 15*time.Minute, zap.NewNop())

	locked, _, err := limiter.TooManyAttempts(context.Background(), "10.0.0.1", "1234567")
	assert.Error(t, err)
	assert.False(t, locked, "a broken cache must not lock anyone out")
}

func TestRateLimiterClear(t *testing.T) {
	cache := newFakeCache()
	limiter := NewLoginRateLimiter(cache, 1, 15*time.Minute, zap.NewNop())
	ctx := context.Background()

	limiter.Hit(ctx, "10.0.0.1", "1234567")
	locked, _, _ := limiter.TooManyAttempts(ctx, "10.0.0.1", "1234567")
	require.True(t, locked)

	limiter.Clear(ctx, "10.0.0.1", "1234567")
	locked, _, _ = limiter.TooManyAttempts(ctx, "10.0.0.1", "1234567")
	assert.False(t, locked)
}
