package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultAttemptTTL  = 10 * time.Minute
)

// AttemptGuard counts failed OTP verifications per identity.
// Key format: otp:attempts:<user_id>
type AttemptGuard struct {
	client *redis.Client
	max    int64
	ttl    time.Duration
}

// NewAttemptGuard creates an AttemptGuard. The counter expires ttl after the
// first failure so a locked-out identity recovers on its own.
func NewAttemptGuard(client *redis.Client, max int, ttl time.Duration) *AttemptGuard {
	if max <= 0 {
		max = defaultMaxAttempts
	}
	if ttl <= 0 {
		ttl = defaultAttemptTTL
	}
	return &AttemptGuard{client: client, max: int64(max), ttl: ttl}
}

// Exceeded reports whether the identity has used up its failed attempts.
func (g *AttemptGuard) Exceeded(ctx context.Context, userID string) (bool, error) {
	n, err := g.client.Get(ctx, attemptsKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("attempts check: %w", err)
	}
	return n >= g.max, nil
}

// RecordFailure increments the counter, starting its TTL on the first failure.
func (g *AttemptGuard) RecordFailure(ctx context.Context, userID string) error {
	key := attemptsKey(userID)
	n, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("attempts record: %w", err)
	}
	if n == 1 {
		if err := g.client.Expire(ctx, key, g.ttl).Err(); err != nil {
			return fmt.Errorf("attempts expire: %w", err)
		}
	}
	return nil
}

// Reset clears the counter, called whenever a fresh code is issued or consumed.
func (g *AttemptGuard) Reset(ctx context.Context, userID string) error {
	if err := g.client.Del(ctx, attemptsKey(userID)).Err(); err != nil {
		return fmt.Errorf("attempts reset: %w", err)
	}
	return nil
}

func attemptsKey(userID string) string {
	return fmt.Sprintf("otp:attempts:%s", userID)
}
