package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hybridrec/feedback-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func buildKey(userID uuid.UUID, limit int) string {
	return fmt.Sprintf("pending:user:%s:limit:%d", userID, limit)
}

// GetPending reads the cached pending view for (user, limit). A cache miss
// is (nil, false, nil).
func (c *Cache) GetPending(ctx context.Context, userID uuid.UUID, limit int) ([]domain.PendingRecommendation, bool, error) {
	key := buildKey(userID, limit)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get pending view from cache: %w", err)
	}

	var recs []domain.PendingRecommendation
	if err := json.Unmarshal([]byte(val), &recs); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal pending view %s: %w", key, err)
	}

	return recs, true, nil
}

// SetPending stores the pending view for (user, limit).
func (c *Cache) SetPending(ctx context.Context, userID uuid.UUID, limit int, recs []domain.PendingRecommendation) error {
	key := buildKey(userID, limit)
	val, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to marshal pending view: %w", err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set pending view in cache: %w", err)
	}

	return nil
}

// ClearUserCache drops every cached view for the user: called after any
// feedback action commits.
func (c *Cache) ClearUserCache(ctx context.Context, userID uuid.UUID) error {
	pattern := fmt.Sprintf("pending:user:%s:limit:*", userID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
