package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gradschool-portal/internal/repositories"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// LoginRateLimiter is a fixed-window counter on the cache, keyed by
// lowercase(ip) + "|" + identifier. Five failures lock the pair out for
// the remainder of the window; any successful authentication clears it.
type LoginRateLimiter struct {
	cache       repositories.CacheRepositoryInterface
	maxAttempts int
	window      time.Duration
	logger      *zap.Logger
}

func NewLoginRateLimiter(cache repositories.CacheRepositoryInterface, maxAttempts int, window time.Duration, logger *zap.Logger) *LoginRateLimiter {
	return &LoginRateLimiter{
		cache:       cache,
		maxAttempts: maxAttempts,
		window:      window,
		logger:      logger,
	}
}

func (l *LoginRateLimiter) key(ip, identifier string) string {
	return fmt.Sprintf("login_throttle:%s|%s", strings.ToLower(ip), identifier)
}

// TooManyAttempts reports whether the pair is locked out and, if so, how
// many whole minutes remain (seconds rounded up). A cache failure is
// returned alongside locked=false so callers fail open.
func (l *LoginRateLimiter) TooManyAttempts(ctx context.Context, ip, identifier string) (bool, int, error) {
	key := l.key(ip, identifier)

	countStr, err := l.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Missing key means a fresh window.
			return false, 0, nil
		}
		return false, 0, err
	}
	count, _ := strconv.Atoi(countStr)
	if count < l.maxAttempts {
		return false, 0, nil
	}

	ttl, err := l.cache.TTL(ctx, key)
	if err != nil || ttl <= 0 {
		ttl = l.window
	}
	minutes := int((ttl + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return true, minutes, nil
}

// Hit records one failed attempt. The window starts on the first failure.
func (l *LoginRateLimiter) Hit(ctx context.Context, ip, identifier string) {
	key := l.key(ip, identifier)
	count, err := l.cache.Incr(ctx, key)
	if err != nil {
		l.logger.Warn("rate limiter increment failed", zap.String("key", key), zap.Error(err))
		return
	}
	if count == 1 {
		if _, err := l.cache.Expire(ctx, key, l.window); err != nil {
			l.logger.Warn("rate limiter expire failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Clear removes the counter after a successful authentication.
func (l *LoginRateLimiter) Clear(ctx context.Context, ip, identifier string) {
	if err := l.cache.Del(ctx, l.key(ip, identifier)); err != nil {
		l.logger.Warn("rate limiter clear failed", zap.Error(err))
	}
}
