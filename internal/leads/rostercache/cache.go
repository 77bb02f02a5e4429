// Package rostercache keeps the employee stats snapshot in Redis so the
// assignment modal does not recount loads on every open.
package rostercache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"realty_crm_backend/internal/leads/domain"
	"realty_crm_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKey = "crm:roster:stats"
	defaultTTL = time.Minute
)

// Source loads the roster from the system of record.
type Source interface {
	ListEmployeeStats(ctx context.Context) ([]domain.EmployeeStats, error)
}

// Cache is a read-through cache in front of Source. A nil Redis client or a
// Redis failure falls back to Source.
type Cache struct {
	rdb    *redis.Client
	source Source
	key    string
	ttl    time.Duration
	log    *logger.Logger
}

// New returns a cache. rdb may be nil to disable caching.
func New(rdb *redis.Client, source Source, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{rdb: rdb, source: source, key: defaultKey, ttl: ttl, log: log}
}

// ListEmployeeStats returns the cached roster, loading it on a miss.
func (c *Cache) ListEmployeeStats(ctx context.Context) ([]domain.EmployeeStats, error) {
	if c.rdb == nil {
		return c.source.ListEmployeeStats(ctx)
	}

	data, err := c.rdb.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		var stats []domain.EmployeeStats
		if jsonErr := json.Unmarshal(data, &stats); jsonErr == nil {
			return stats, nil
		}
		c.log.Warn("roster cache entry unreadable", "key", c.key)
	case !errors.Is(err, redis.Nil):
		c.log.Warn("roster cache read failed", "error", err)
	}

	stats, err := c.source.ListEmployeeStats(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := c.rdb.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
			c.log.Warn("roster cache write failed", "error", err)
		}
	}
	return stats, nil
}

// Invalidate drops the cached roster. Call it after any assignment change.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("invalidate roster cache: %w", err)
	}
	return nil
}
