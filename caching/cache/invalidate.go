package cache

import (
	"context"

	"go.uber.org/zap"
)

const scanCount = 100

const (
	flightsPattern = "flights"
	chatPattern    = "chat"
)

// InvalidatePattern deletes every key matching "<namespaced pattern>*" and
// returns how many were removed. Store errors are logged and reported as 0.
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string, opts ...Option) int {
	o, err := c.options(opts)
	if err != nil {
		c.sink.Error("cache invalidation rejected", err, zap.String("pattern", pattern))
		return 0
	}
	match := Key(pattern, o) + "*"
	if c.client == nil {
		c.sink.Warn("cache invalidation skipped", ErrStoreNotConfigured, zap.String("match", match))
		return 0
	}

	deleted := 0
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, scanCount).Result()
		if err != nil {
			c.sink.Warn("cache invalidation scan failed", err, zap.String("match", match))
			return 0
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.sink.Warn("cache invalidation delete failed", err, zap.String("match", match))
				return 0
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted
		}
	}
}

// InvalidateFlights must follow any write to flight data.
func (c *Cache) InvalidateFlights(ctx context.Context) int {
	return c.InvalidatePattern(ctx, flightsPattern)
}

// InvalidateUserCaches must follow any write affecting userID's cached
// projections.
func (c *Cache) InvalidateUserCaches(ctx context.Context, userID string) int {
	return c.InvalidatePattern(ctx, "", ForUser(escapeGlob(userID)))
}

func (c *Cache) InvalidateChat(ctx context.Context, userID string) int {
	return c.InvalidatePattern(ctx, chatPattern, ForUser(escapeGlob(userID)))
}

func (c *Cache) InvalidateAll(ctx context.Context) int {
	return c.InvalidatePattern(ctx, "")
}
