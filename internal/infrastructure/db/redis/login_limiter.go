package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles login attempts with a fixed-window counter in Redis.
// Key format: login_attempts:<key>:<window_start_unix>
type LoginLimiter struct {
	client   *redis.Client
	attempts int
	window   time.Duration
}

// NewLoginLimiter creates a limiter allowing attempts tries per window.
func NewLoginLimiter(client *redis.Client, attempts int, window time.Duration) *LoginLimiter {
	if attempts <= 0 {
		attempts = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{client: client, attempts: attempts, window: window}
}

// Allow records one attempt for key and reports whether it is within the
// window's budget. The counter key carries a TTL slightly past the window so
// stale windows expire on their own.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.key(key, time.Now())

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("login limiter: %w", err)
	}

	return incr.Val() <= int64(l.attempts), nil
}

// Reset clears the current window for key. Intended for tests and manual
// operator intervention.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.key(key, time.Now())).Err()
}

func (l *LoginLimiter) key(key string, now time.Time) string {
	return fmt.Sprintf("login_attempts:%s:%d", key, now.Truncate(l.window).Unix())
}
