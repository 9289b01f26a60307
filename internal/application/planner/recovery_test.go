package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bonpetite/planner/internal/application/quota"
	"github.com/bonpetite/planner/internal/domain/mealplan"
	gormrepo "github.com/bonpetite/planner/internal/infrastructure/persistence/gorm"
	"github.com/bonpetite/planner/internal/infrastructure/persistence/sqlite"
	"github.com/bonpetite/planner/internal/ports/inbound"
	"github.com/bonpetite/planner/pkg/errors"
	"github.com/bonpetite/planner/test/testutils"

	"github.com/google/uuid"
)

// A gateway timeout cancels the caller's context mid-generation. The revert
// must still reach the database: a slot stuck in generating has no further
// transition, so the row would be dead forever.
func TestTimedOutGenerationRevertsSlotInDatabase(t *testing.T) {
	db, err := sqlite.SetupDatabase("file:planner-recovery-test?mode=memory&cache=shared", gormlogger.Silent)
	require.NoError(t, err)

	generator := new(testutils.MockRecipeGenerator)
	limiter := quota.NewUsageLimiter(testutils.NewFakeUsageStore(), 10, zap.NewNop())
	service := NewService(
		gormrepo.NewMealPlanRepository(db),
		gormrepo.NewRecipeRepository(db),
		generator,
		limiter,
		gormrepo.NewTransactionManager(db),
		zap.NewNop(),
	)

	userID := uuid.New()
	plan, err := service.CreatePlan(context.Background(), inbound.CreatePlanCommand{
		UserID:         userID,
		Name:           "Recovery Week",
		StartDate:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		BreakfastCount: 1,
	})
	require.NoError(t, err)
	slotID := plan.Slots[0].ID

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	generator.On("Generate", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled).Once()

	_, err = service.GenerateSlot(ctx, inbound.GenerateSlotCommand{
		PlanID: plan.ID,
		SlotID: slotID,
		UserID: userID,
	})
	assert.True(t, errors.Is(err, errors.CodeGenerationFailed))

	// A fresh read must show the persisted revert, not a dangling generating
	// row.
	reloaded, err := service.GetPlan(context.Background(), plan.ID, userID)
	require.NoError(t, err)
	require.Len(t, reloaded.Slots, 1)
	assert.Equal(t, mealplan.SlotStatusPending, reloaded.Slots[0].Status)
	assert.Nil(t, reloaded.Slots[0].RecipeID)
}
