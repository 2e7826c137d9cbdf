package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	matchCachePrefix     = "match:"
	defaultMatchCacheTTL = time.Hour
)

// MatchCache stores remote matcher results keyed by a symptoms digest
type MatchCache struct {
	client *Client
	ttl    time.Duration
}

// NewMatchCache creates a new match cache
func NewMatchCache(client *Client, ttl time.Duration) *MatchCache {
	if ttl <= 0 {
		ttl = defaultMatchCacheTTL
	}
	return &MatchCache{client: client, ttl: ttl}
}

// Get returns the cached results for key. A miss is (nil, false, nil).
func (c *MatchCache) Get(ctx context.Context, key string) ([]domain.MatchResult, bool, error) {
	data, err := c.client.rdb.Get(ctx, matchCachePrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read match cache: %w", err)
	}

	var results []domain.MatchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal match results: %w", err)
	}

	return results, true, nil
}

// Set caches results for key
func (c *MatchCache) Set(ctx context.Context, key string, results []domain.MatchResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal match results: %w", err)
	}

	return c.client.rdb.Set(ctx, matchCachePrefix+key, data, c.ttl).Err()
}

// FlushAll removes all cached match results
func (c *MatchCache) FlushAll(ctx context.Context) (int64, error) {
	pattern := matchCachePrefix + "*"
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := c.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}
