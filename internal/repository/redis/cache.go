package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcg-platform/componentgen/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	sessionCachePrefix  = "session:"
	sessionListCacheKey = "sessions:list"
	sessionCacheTTL     = 60 * time.Second
)

// SessionCache handles session caching in Redis
type SessionCache struct {
	client *Client
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *Client) *SessionCache {
	return &SessionCache{client: client}
}

// GetList retrieves the cached session listing
func (c *SessionCache) GetList(ctx context.Context) ([]domain.Session, error) {
	data, err := c.client.rdb.Get(ctx, sessionListCacheKey).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var sessions []domain.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session list: %w", err)
	}

	return sessions, nil
}

// SetList caches the session listing
func (c *SessionCache) SetList(ctx context.Context, sessions []domain.Session) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to marshal session list: %w", err)
	}

	return c.client.rdb.Set(ctx, sessionListCacheKey, data, sessionCacheTTL).Err()
}

// Get retrieves a cached session
func (c *SessionCache) Get(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	key := fmt.Sprintf("%s%s", sessionCachePrefix, id.Hex())

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Set caches a session
func (c *SessionCache) Set(ctx context.Context, session *domain.Session) error {
	key := fmt.Sprintf("%s%s", sessionCachePrefix, session.ID.Hex())

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return c.client.rdb.Set(ctx, key, data, sessionCacheTTL).Err()
}

// Invalidate drops a session and the listing from the cache. Writes call
// this so readers never see a stale document past the TTL.
func (c *SessionCache) Invalidate(ctx context.Context, id primitive.ObjectID) error {
	key := fmt.Sprintf("%s%s", sessionCachePrefix, id.Hex())
	return c.client.rdb.Del(ctx, key, sessionListCacheKey).Err()
}

// InvalidateList drops only the listing, used after creates.
func (c *SessionCache) InvalidateList(ctx context.Context) error {
	return c.client.rdb.Del(ctx, sessionListCacheKey).Err()
}
