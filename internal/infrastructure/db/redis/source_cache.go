package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sourceKeyPrefix = "earthquake:source:"
	sourceTTL       = 24 * time.Hour
)

// SourceIDCache remembers which catalog event ids have already been saved.
// It is a hint only. The store's unique constraint stays authoritative, so a
// flushed or expired key costs one extra lookup and nothing else.
type SourceIDCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSourceIDCache(client redis.Cmdable) *SourceIDCache {
	return &SourceIDCache{client: client, ttl: sourceTTL}
}

// Seen reports whether sourceID was marked within the TTL.
func (c *SourceIDCache) Seen(ctx context.Context, sourceID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(sourceID)).Result()
	if err != nil {
		return false, fmt.Errorf("source id lookup: %w", err)
	}
	return n > 0, nil
}

func (c *SourceIDCache) Mark(ctx context.Context, sourceID string) error {
	if err := c.client.Set(ctx, c.key(sourceID), "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("source id mark: %w", err)
	}
	return nil
}

func (c *SourceIDCache) key(sourceID string) string {
	return sourceKeyPrefix + sourceID
}
