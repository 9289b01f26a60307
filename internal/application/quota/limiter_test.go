package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bonpetite/planner/test/testutils"
)

func TestCheckAndConsume(t *testing.T) {
	userID := uuid.MustParse("9b8a3c1e-2f4d-4a6b-8c0d-1e2f3a4b5c6d")
	fixedNow := time.Date(2026, 3, 2, 18, 30, 0, 0, time.UTC)

	newLimiter := func(store *testutils.FakeUsageStore, limit int) *UsageLimiter {
		l := NewUsageLimiter(store, limit, zap.NewNop())
		l.now = func() time.Time { return fixedNow }
		return l
	}

	t.Run("KeyScopedToUserDayAndCounter", func(t *testing.T) {
		store := testutils.NewFakeUsageStore()
		limiter := newLimiter(store, 10)

		allowed, err := limiter.CheckAndConsume(context.Background(), userID, CounterRecipeGeneration)

		require.NoError(t, err)
		assert.True(t, allowed)
		require.Len(t, store.Keys, 1)
		assert.Equal(t, "usage:9b8a3c1e-2f4d-4a6b-8c0d-1e2f3a4b5c6d:2026-03-02:recipe_generation", store.Keys[0])
	})

	t.Run("EntryExpiresAtUTCDayBoundary", func(t *testing.T) {
		store := testutils.NewFakeUsageStore()
		limiter := newLimiter(store, 10)

		_, err := limiter.CheckAndConsume(context.Background(), userID, CounterRecipeGeneration)

		require.NoError(t, err)
		require.Len(t, store.TTLs, 1)
		assert.Equal(t, 5*time.Hour+30*time.Minute, store.TTLs[0])
	})

	t.Run("CeilingIsEnforcedSequentially", func(t *testing.T) {
		store := testutils.NewFakeUsageStore()
		limiter := newLimiter(store, 3)

		for i := 0; i < 3; i++ {
			allowed, err := limiter.CheckAndConsume(context.Background(), userID, CounterRecipeGeneration)
			require.NoError(t, err)
			assert.True(t, allowed, "attempt %d should be within quota", i+1)
		}

		allowed, err := limiter.CheckAndConsume(context.Background(), userID, CounterRecipeGeneration)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("LocalTimezoneDoesNotLeakIntoKey", func(t *testing.T) {
		store := testutils.NewFakeUsageStore()
		limiter := NewUsageLimiter(store, 10, zap.NewNop())
		// 23:30 in UTC-5 is already the next day in UTC.
		loc := time.FixedZone("EST", -5*3600)
		limiter.now = func() time.Time { return time.Date(2026, 3, 2, 23, 30, 0, 0, loc) }

		_, err := limiter.CheckAndConsume(context.Background(), userID, CounterRecipeGeneration)

		require.NoError(t, err)
		require.Len(t, store.Keys, 1)
		assert.Contains(t, store.Keys[0], ":2026-03-03:")
	})

	t.Run("StoreError_Propagates", func(t *testing.T) {
		store := testutils.NewFakeUsageStore()
		store.Err = errors.New("connection refused")
		limiter := newLimiter(store, 10)

		allowed, err := limiter.CheckAndConsume(context.Background(), userID, CounterRecipeGeneration)

		assert.False(t, allowed)
		assert.Error(t, err)
	})
}
