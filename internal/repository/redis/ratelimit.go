package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit:"

// RateLimiter enforces a fixed-window per-minute request limit in Redis so
// the count survives restarts and is shared across replicas.
type RateLimiter struct {
	client *Client
	limit  int64
}

// NewRateLimiter creates a limiter allowing requestsPerMinute plus a burst
// allowance per key per minute window.
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  int64(requestsPerMinute + burst),
	}
}

// Allow counts a request against the key's current window and reports
// whether it fits the limit, how many requests remain, and when the window
// resets.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowEnd := time.Now().Truncate(time.Minute).Add(time.Minute)

	pipe := r.client.rdb.Pipeline()
	count := pipe.Incr(ctx, rateLimitPrefix+key)
	pipe.ExpireNX(ctx, rateLimitPrefix+key, time.Minute)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return false, 0, time.Time{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	remaining := r.limit - count.Val()
	if remaining < 0 {
		remaining = 0
	}
	return count.Val() <= r.limit, int(remaining), windowEnd, nil
}

// Reset clears the counter for a key.
func (r *RateLimiter) Reset(ctx context.Context, key string) error {
	return r.client.rdb.Del(ctx, rateLimitPrefix+key).Err()
}
