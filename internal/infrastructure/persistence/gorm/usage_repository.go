package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/bonpetite/planner/internal/ports/outbound"
	"gorm.io/gorm"
)

// UsageStore is the SQL-backed usage counter, used when Redis is not
// configured. A row lock makes the check-then-increment atomic across
// concurrent consumers.
type UsageStore struct {
	db *gorm.DB
}

// NewUsageStore creates a new SQL-backed usage store
func NewUsageStore(db *gorm.DB) outbound.UsageStore {
	return &UsageStore{db: db}
}

// IncrementWithCeiling bumps the counter and reports whether the new value
// is still within the ceiling. An expired row restarts the count.
func (s *UsageStore) IncrementWithCeiling(ctx context.Context, key string, ceiling int, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	var count int

	err := dbFromContext(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		var row UsageCounterModel

		err := forUpdate(tx).
			First(&row, "counter_key = ?", key).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if errors.Is(err, gorm.ErrRecordNotFound) || !row.ExpiresAt.After(now) {
			row = UsageCounterModel{
				CounterKey: key,
				Count:      1,
				ExpiresAt:  now.Add(ttl),
			}
		} else {
			row.Count++
		}
		count = row.Count

		return tx.Save(&row).Error
	})
	if err != nil {
		return false, err
	}

	return count <= ceiling, nil
}
