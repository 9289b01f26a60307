// Package quota enforces the per-user daily cap on expensive generation
// calls.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/bonpetite/planner/internal/ports/outbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CounterRecipeGeneration is the counter name for gateway generation calls.
const CounterRecipeGeneration = "recipe_generation"

// UsageLimiter tracks per-user, per-day usage counters and enforces a
// ceiling. The check and the increment are one atomic store operation, so a
// sequential batch loop sees each slot's consumption reflected in the next
// check.
type UsageLimiter struct {
	store      outbound.UsageStore
	dailyLimit int
	logger     *zap.Logger
	now        func() time.Time
}

// NewUsageLimiter creates a usage limiter with the given daily ceiling.
func NewUsageLimiter(store outbound.UsageStore, dailyLimit int, logger *zap.Logger) *UsageLimiter {
	return &UsageLimiter{
		store:      store,
		dailyLimit: dailyLimit,
		logger:     logger.Named("usage-limiter"),
		now:        time.Now,
	}
}

// DailyLimit returns the configured per-day ceiling.
func (l *UsageLimiter) DailyLimit() int {
	return l.dailyLimit
}

// CheckAndConsume atomically consumes one unit of the user's daily quota for
// the named counter. It returns false when the ceiling is reached; counters
// reset at the next UTC day boundary.
func (l *UsageLimiter) CheckAndConsume(ctx context.Context, userID uuid.UUID, counterName string) (bool, error) {
	day := l.now().UTC()
	key := fmt.Sprintf("usage:%s:%s:%s", userID, day.Format("2006-01-02"), counterName)

	endOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	ttl := endOfDay.Sub(day)

	allowed, err := l.store.IncrementWithCeiling(ctx, key, l.dailyLimit, ttl)
	if err != nil {
		return false, err
	}
	if !allowed {
		l.logger.Info("Daily quota exhausted",
			zap.String("user_id", userID.String()),
			zap.String("counter", counterName),
			zap.Int("limit", l.dailyLimit),
		)
	}
	return allowed, nil
}
