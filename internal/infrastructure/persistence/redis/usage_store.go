// Package redis provides the Redis-backed usage counter store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/bonpetite/planner/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// UsageStore counts daily usage in Redis. INCR makes the check-then-increment
// atomic, so two concurrent consumers cannot both pass at the ceiling.
type UsageStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewUsageStore creates a new Redis-backed usage store
func NewUsageStore(client *redis.Client, logger *zap.Logger) outbound.UsageStore {
	return &UsageStore{
		client: client,
		logger: logger.Named("usage-store"),
	}
}

// IncrementWithCeiling bumps the counter under key and reports whether the
// incremented value is still within the ceiling. The TTL is set when the key
// is first created so the counter expires with the day it belongs to.
func (s *UsageStore) IncrementWithCeiling(ctx context.Context, key string, ceiling int, ttl time.Duration) (bool, error) {
	pipe := s.client.TxPipeline()

	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to increment usage counter: %w", err)
	}

	count := incr.Val()
	if count > int64(ceiling) {
		s.logger.Debug("Usage counter over ceiling",
			zap.String("key", key),
			zap.Int64("count", count),
			zap.Int("ceiling", ceiling),
		)
		return false, nil
	}

	return true, nil
}

// NewClient builds a Redis client from connection settings.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
