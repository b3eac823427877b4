// Package statscache is a read-through Redis cache for the dashboard status
// counts. The cache is advisory in the same way the client's fallback is: any
// Redis failure falls through to the underlying store so the stats endpoint
// never breaks because the cache did.
package statscache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"regwatch/pkg/domain"
)

const cacheKey = "regwatch:regulations:stats"

// Counter is the slice of the store this cache fronts.
type Counter interface {
	CountByStatus(ctx context.Context) (domain.StatusCounts, error)
}

// Cache fronts a Counter with a short-TTL Redis entry. A nil client disables
// caching entirely and every call goes straight through.
type Cache struct {
	source Counter
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New builds a stats cache. ttl must be positive when client is set.
func New(source Counter, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{source: source, client: client, ttl: ttl, logger: logger}
}

// CountByStatus serves cached counts when fresh, otherwise recomputes from the
// source and repopulates the cache.
func (c *Cache) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	if c.client == nil {
		return c.source.CountByStatus(ctx)
	}

	raw, err := c.client.Get(ctx, cacheKey).Result()
	if err == nil {
		var counts domain.StatusCounts
		if err := json.Unmarshal([]byte(raw), &counts); err == nil {
			return counts, nil
		}
		// Unparseable entry: treat as a miss and overwrite below.
	} else if err != redis.Nil {
		c.logger.Warn("stats cache read failed, falling through to store", "error", err)
	}

	counts, err := c.source.CountByStatus(ctx)
	if err != nil {
		return domain.StatusCounts{}, err
	}

	if data, err := json.Marshal(counts); err == nil {
		if err := c.client.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("stats cache write failed", "error", err)
		}
	}
	return counts, nil
}

// Invalidate drops the cached entry. Called after a status change so the
// dashboard reflects it on the next read.
func (c *Cache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Warn("stats cache invalidation failed", "error", err)
	}
}
