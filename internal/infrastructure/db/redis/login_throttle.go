package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nsqtech/record-tracker/internal/core/ports"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// LoginThrottle counts failed logins per identifier in Redis.
// Key format: login:failures:<identifier>
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

var _ ports.LoginLimiter = (*LoginThrottle)(nil)

// NewLoginThrottle creates a LoginThrottle. Non-positive limits fall back to
// 5 attempts per 15 minutes.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Allowed reports whether the identifier is still under its failure budget.
func (l *LoginThrottle) Allowed(ctx context.Context, identifier string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(identifier)).Int64()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("login throttle check: %w", err)
	}
	return n < l.maxAttempts, nil
}

// RecordFailure increments the counter. The window starts at the first failure.
func (l *LoginThrottle) RecordFailure(ctx context.Context, identifier string) error {
	key := l.key(identifier)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login throttle record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginThrottle) Reset(ctx context.Context, identifier string) error {
	return l.client.Del(ctx, l.key(identifier)).Err()
}

func (l *LoginThrottle) key(identifier string) string {
	return fmt.Sprintf("login:failures:%s", identifier)
}
