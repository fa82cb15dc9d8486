package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/mcg-platform/componentgen/internal/config"
	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis connection shared by the session cache and the
// rate limiter.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis and verifies the connection with a short ping
// so a misconfigured address fails at startup rather than on first use.
func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
