package planner

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/bonpetite/planner/internal/application/quota"
	"github.com/bonpetite/planner/internal/domain/mealplan"
	"github.com/bonpetite/planner/internal/ports/inbound"
	"github.com/bonpetite/planner/internal/ports/outbound"
	"github.com/bonpetite/planner/pkg/errors"
	"github.com/bonpetite/planner/test/testutils"
)

// PlannerServiceTestSuite exercises the orchestration use cases against
// in-memory fakes.
type PlannerServiceTestSuite struct {
	suite.Suite

	planRepo   *testutils.FakeMealPlanRepository
	recipeRepo *testutils.FakeRecipeRepository
	generator  *testutils.MockRecipeGenerator
	store      *testutils.FakeUsageStore
	service    inbound.PlannerService

	userID uuid.UUID
}

func (suite *PlannerServiceTestSuite) SetupTest() {
	suite.planRepo = testutils.NewFakeMealPlanRepository()
	suite.recipeRepo = testutils.NewFakeRecipeRepository()
	suite.generator = new(testutils.MockRecipeGenerator)
	suite.store = testutils.NewFakeUsageStore()
	suite.userID = uuid.New()

	limiter := quota.NewUsageLimiter(suite.store, 10, zap.NewNop())
	suite.service = NewService(
		suite.planRepo,
		suite.recipeRepo,
		suite.generator,
		limiter,
		testutils.NoopTransactionManager{},
		zap.NewNop(),
	)
}

// seedPlan stores a plan owned by the suite's user and returns it.
func (suite *PlannerServiceTestSuite) seedPlan(breakfast, lunch, dinner, snack int) *mealplan.WeeklyMealPlan {
	plan := testutils.NewPlanBuilder().
		WithUser(suite.userID).
		WithTargets(breakfast, lunch, dinner, snack).
		Build()
	require.NoError(suite.T(), suite.planRepo.Create(context.Background(), plan))
	return plan
}

// generateAndLock drives a slot through the full lifecycle directly on the
// aggregate, bypassing the service.
func (suite *PlannerServiceTestSuite) generateAndLock(slot *mealplan.MealSlot) {
	require.NoError(suite.T(), slot.BeginGeneration())
	require.NoError(suite.T(), slot.CompleteGeneration(uuid.New()))
	require.NoError(suite.T(), slot.Lock())
}

func (suite *PlannerServiceTestSuite) TestCreatePlan() {
	suite.Run("ValidCommand_CreatesPendingSlots", func() {
		dto, err := suite.service.CreatePlan(context.Background(), inbound.CreatePlanCommand{
			UserID:         suite.userID,
			Name:           "Next Week",
			StartDate:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			BreakfastCount: 2,
			DinnerCount:    3,
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 5, dto.TotalMeals)
		assert.Equal(suite.T(), mealplan.PlanStatusInProgress, dto.Status)
		assert.Len(suite.T(), dto.Slots, 5)
		for _, slot := range dto.Slots {
			assert.Equal(suite.T(), mealplan.SlotStatusPending, slot.Status)
		}

		stored, findErr := suite.planRepo.FindByID(context.Background(), dto.ID)
		require.NoError(suite.T(), findErr)
		assert.NotNil(suite.T(), stored)
	})

	suite.Run("InvalidCommand_ReturnsValidationError", func() {
		_, err := suite.service.CreatePlan(context.Background(), inbound.CreatePlanCommand{
			UserID:    suite.userID,
			Name:      "",
			StartDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		})

		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
	})
}

func (suite *PlannerServiceTestSuite) TestGenerateSlot() {
	suite.Run("Success_PersistsRecipeAndAdvancesSlot", func() {
		plan := suite.seedPlan(1, 0, 0, 0)
		slot := plan.Slots()[0]
		suite.generator.On("Generate", mock.Anything, mock.Anything).
			Return(testutils.NewGeneratedRecipe("Shakshuka"), nil).Once()

		dto, err := suite.service.GenerateSlot(context.Background(), inbound.GenerateSlotCommand{
			PlanID: plan.ID(),
			SlotID: slot.ID(),
			UserID: suite.userID,
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), mealplan.SlotStatusGenerated, dto.Status)
		require.NotNil(suite.T(), dto.RecipeID)

		stored, findErr := suite.recipeRepo.FindByID(context.Background(), *dto.RecipeID)
		require.NoError(suite.T(), findErr)
		require.NotNil(suite.T(), stored)
		assert.Equal(suite.T(), "Shakshuka", stored.Name())
		assert.Equal(suite.T(), suite.userID, stored.UserID())
	})

	suite.Run("GatewayError_RevertsSlotToPending", func() {
		plan := suite.seedPlan(1, 0, 0, 0)
		slot := plan.Slots()[0]
		suite.generator.On("Generate", mock.Anything, mock.Anything).
			Return(nil, stderrors.New("model timeout")).Once()

		_, err := suite.service.GenerateSlot(context.Background(), inbound.GenerateSlotCommand{
			PlanID: plan.ID(),
			SlotID: slot.ID(),
			UserID: suite.userID,
		})

		assert.True(suite.T(), errors.Is(err, errors.CodeGenerationFailed))
		assert.Equal(suite.T(), mealplan.SlotStatusPending, slot.Status())
		assert.Nil(suite.T(), slot.RecipeID())
	})

	suite.Run("IncompletePayload_IsAGenerationFailure", func() {
		plan := suite.seedPlan(1, 0, 0, 0)
		slot := plan.Slots()[0]
		incomplete := testutils.NewGeneratedRecipe("Mystery Meal")
		incomplete.Nutrition = nil
		suite.generator.On("Generate", mock.Anything, mock.Anything).
			Return(incomplete, nil).Once()

		_, err := suite.service.GenerateSlot(context.Background(), inbound.GenerateSlotCommand{
			PlanID: plan.ID(),
			SlotID: slot.ID(),
			UserID: suite.userID,
		})

		assert.True(suite.T(), errors.Is(err, errors.CodeGenerationFailed))
		assert.Equal(suite.T(), mealplan.SlotStatusPending, slot.Status())
	})

	suite.Run("NonPendingSlot_FailsPrecondition", func() {
		plan := suite.seedPlan(1, 0, 0, 0)
		slot := plan.Slots()[0]
		suite.generateAndLock(slot)

		_, err := suite.service.GenerateSlot(context.Background(), inbound.GenerateSlotCommand{
			PlanID: plan.ID(),
			SlotID: slot.ID(),
			UserID: suite.userID,
		})

		assert.True(suite.T(), errors.Is(err, errors.CodePreconditionFailed))
	})

	suite.Run("ForeignPlan_LooksLikeMissing", func() {
		plan := suite.seedPlan(1, 0, 0, 0)

		_, err := suite.service.GenerateSlot(context.Background(), inbound.GenerateSlotCommand{
			PlanID: plan.ID(),
			SlotID: plan.Slots()[0].ID(),
			UserID: uuid.New(),
		})

		assert.True(suite.T(), errors.Is(err, errors.CodeNotFound))
	})

	suite.Run("PreferenceLayers_MergeIntoGatewayRequest", func() {
		maxPrep := 20
		plan := testutils.NewPlanBuilder().
			WithUser(suite.userID).
			WithTargets(1, 0, 0, 0).
			WithGlobalPreferences(&mealplan.Preferences{
				Allergies:      []string{"dairy"},
				MaxPrepMinutes: &maxPrep,
			}).
			Build()
		require.NoError(suite.T(), suite.planRepo.Create(context.Background(), plan))
		slot := plan.Slots()[0]

		var captured outbound.GenerationRequest
		suite.generator.On("Generate", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(outbound.GenerationRequest)
			}).
			Return(testutils.NewGeneratedRecipe("Oatmeal"), nil).Once()

		_, err := suite.service.GenerateSlot(context.Background(), inbound.GenerateSlotCommand{
			PlanID:      plan.ID(),
			SlotID:      slot.ID(),
			UserID:      suite.userID,
			Preferences: &mealplan.Preferences{Allergies: []string{"peanuts"}},
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "breakfast", captured.MealType)
		assert.Equal(suite.T(), []string{"peanuts"}, captured.Allergies, "request layer wins")
		require.NotNil(suite.T(), captured.MaxPrepMinutes)
		assert.Equal(suite.T(), 20, *captured.MaxPrepMinutes, "plan layer fills the gap")
	})
}

func (suite *PlannerServiceTestSuite) TestRegenerateSlot() {
	suite.Run("GeneratedSlot_GetsAFreshRecipe", func() {
		plan := suite.seedPlan(1, 0, 0, 0)
		slot := plan.Slots()[0]
		require.NoError(suite.T(), slot.BeginGeneration())
		oldRecipeID := uuid.New()
		require.NoError(suite.T(), slot.CompleteGeneration(oldRecipeID))

		suite.generator.On("Generate", mock.Anything, mock.Anything).
			Return(testutils.NewGeneratedRecipe("Granola Bowl"), nil).Once()

		dto, err := suite.service.RegenerateSlot(context.Background(), inbound.GenerateSlotCommand{
			PlanID: plan.ID(),
			SlotID: slot.ID(),
			UserID: suite.userID,
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), mealplan.SlotStatusGenerated, dto.Status)
		require.NotNil(suite.T(), dto.RecipeID)
		assert.NotEqual(suite.T(), oldRecipeID, *dto.RecipeID)
	})

	suite.Run("PendingSlot_FailsPrecondition", func() {
		plan := suite.seedPlan(1, 0, 0, 0)

		_, err := suite.service.RegenerateSlot(context.Background(), inbound.GenerateSlotCommand{
			PlanID: plan.ID(),
			SlotID: plan.Slots()[0].ID(),
			UserID: suite.userID,
		})

		assert.True(suite.T(), errors.Is(err, errors.CodePreconditionFailed))
	})

	suite.Run("CompletedPlan_RevertsToInProgress", func() {
		plan := suite.seedPlan(1, 0, 1, 0)
		for _, slot := range plan.Slots() {
			suite.generateAndLock(slot)
		}
		plan.RefreshStatus()
		require.Equal(suite.T(), mealplan.PlanStatusCompleted, plan.Status())

		suite.generator.On("Generate", mock.Anything, mock.Anything).
			Return(testutils.NewGeneratedRecipe("New Dinner"), nil).Once()

		_, err := suite.service.RegenerateSlot(context.Background(), inbound.GenerateSlotCommand{
			PlanID: plan.ID(),
			SlotID: plan.Slots()[1].ID(),
			UserID: suite.userID,
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), mealplan.PlanStatusInProgress, plan.Status())
	})
}

func (suite *PlannerServiceTestSuite) TestDailyQuotaCoversSingleSlotGeneration() {
	// A zero-limit service: every consumption attempt is denied.
	exhausted := func() inbound.PlannerService {
		limiter := quota.NewUsageLimiter(suite.store, 0, zap.NewNop())
		return NewService(
			suite.planRepo,
			suite.recipeRepo,
			suite.generator,
			limiter,
			testutils.NoopTransactionManager{},
			zap.NewNop(),
		)
	}

	suite.Run("ExhaustedQuota_RejectsGenerateSlot", func() {
		service := exhausted()
		plan := suite.seedPlan(1, 0, 0, 0)
		slot := plan.Slots()[0]

		// Repeated calls never slip through one slot at a time.
		for i := 0; i < 3; i++ {
			_, err := service.GenerateSlot(context.Background(), inbound.GenerateSlotCommand{
				PlanID: plan.ID(),
				SlotID: slot.ID(),
				UserID: suite.userID,
			})
			assert.True(suite.T(), errors.Is(err, errors.CodeQuotaExceeded))
		}

		assert.Equal(suite.T(), mealplan.SlotStatusPending, slot.Status())
		assert.Nil(suite.T(), slot.RecipeID())
		assert.Len(suite.T(), suite.store.Keys, 3, "every denied attempt reached the store")
		suite.generator.AssertNotCalled(suite.T(), "Generate", mock.Anything, mock.Anything)
	})

	suite.Run("ExhaustedQuota_RejectsRegenerateSlot", func() {
		service := exhausted()
		plan := suite.seedPlan(1, 0, 0, 0)
		slot := plan.Slots()[0]
		require.NoError(suite.T(), slot.BeginGeneration())
		recipeID := uuid.New()
		require.NoError(suite.T(), slot.CompleteGeneration(recipeID))

		_, err := service.RegenerateSlot(context.Background(), inbound.GenerateSlotCommand{
			PlanID: plan.ID(),
			SlotID: slot.ID(),
			UserID: suite.userID,
		})

		assert.True(suite.T(), errors.Is(err, errors.CodeQuotaExceeded))
		assert.Equal(suite.T(), mealplan.SlotStatusGenerated, slot.Status(), "the existing recipe stays attached")
		require.NotNil(suite.T(), slot.RecipeID())
		assert.Equal(suite.T(), recipeID, *slot.RecipeID())
	})

	suite.Run("SuccessfulGeneration_ConsumesOneUnit", func() {
		plan := suite.seedPlan(1, 0, 0, 0)
		suite.generator.On("Generate", mock.Anything, mock.Anything).
			Return(testutils.NewGeneratedRecipe("Congee"), nil).Once()
		before := len(suite.store.Keys)

		_, err := suite.service.GenerateSlot(context.Background(), inbound.GenerateSlotCommand{
			PlanID: plan.ID(),
			SlotID: plan.Slots()[0].ID(),
			UserID: suite.userID,
		})

		require.NoError(suite.T(), err)
		assert.Len(suite.T(), suite.store.Keys, before+1)
	})

	suite.Run("PreconditionFailure_ConsumesNothing", func() {
		plan := suite.seedPlan(1, 0, 0, 0)
		suite.generateAndLock(plan.Slots()[0])
		before := len(suite.store.Keys)

		_, err := suite.service.GenerateSlot(context.Background(), inbound.GenerateSlotCommand{
			PlanID: plan.ID(),
			SlotID: plan.Slots()[0].ID(),
			UserID: suite.userID,
		})

		assert.True(suite.T(), errors.Is(err, errors.CodePreconditionFailed))
		assert.Len(suite.T(), suite.store.Keys, before)
	})
}

func (suite *PlannerServiceTestSuite) TestLockSlot() {
	suite.Run("LastLock_PromotesPlanToCompleted", func() {
		plan := suite.seedPlan(1, 1, 0, 0)
		first, second := plan.Slots()[0], plan.Slots()[1]
		suite.generateAndLock(first)
		require.NoError(suite.T(), second.BeginGeneration())
		require.NoError(suite.T(), second.CompleteGeneration(uuid.New()))

		result, err := suite.service.LockSlot(context.Background(), inbound.LockSlotCommand{
			PlanID: plan.ID(),
			SlotID: second.ID(),
			UserID: suite.userID,
			Locked: true,
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), mealplan.SlotStatusLocked, result.Slot.Status)
		assert.True(suite.T(), result.CategoryComplete)
		assert.True(suite.T(), result.PlanComplete)
		assert.Equal(suite.T(), mealplan.PlanStatusCompleted, result.PlanStatus)
	})

	suite.Run("Unlock_RevertsPlanStatus", func() {
		plan := suite.seedPlan(1, 0, 0, 0)
		slot := plan.Slots()[0]
		suite.generateAndLock(slot)
		plan.RefreshStatus()

		result, err := suite.service.LockSlot(context.Background(), inbound.LockSlotCommand{
			PlanID: plan.ID(),
			SlotID: slot.ID(),
			UserID: suite.userID,
			Locked: false,
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), mealplan.SlotStatusGenerated, result.Slot.Status)
		assert.False(suite.T(), result.PlanComplete)
		assert.Equal(suite.T(), mealplan.PlanStatusInProgress, result.PlanStatus)
	})

	suite.Run("CompletionRecomputation_ReadsUnderRowLock", func() {
		plan := suite.seedPlan(1, 0, 0, 0)
		slot := plan.Slots()[0]
		require.NoError(suite.T(), slot.BeginGeneration())
		require.NoError(suite.T(), slot.CompleteGeneration(uuid.New()))
		before := suite.planRepo.LockedFinds

		_, err := suite.service.LockSlot(context.Background(), inbound.LockSlotCommand{
			PlanID: plan.ID(),
			SlotID: slot.ID(),
			UserID: suite.userID,
			Locked: true,
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), before+1, suite.planRepo.LockedFinds,
			"lock and completion recomputation read the plan under a row lock")
	})

	suite.Run("LockingPendingSlot_FailsPrecondition", func() {
		plan := suite.seedPlan(1, 0, 0, 0)

		_, err := suite.service.LockSlot(context.Background(), inbound.LockSlotCommand{
			PlanID: plan.ID(),
			SlotID: plan.Slots()[0].ID(),
			UserID: suite.userID,
			Locked: true,
		})

		assert.True(suite.T(), errors.Is(err, errors.CodePreconditionFailed))
	})
}

func (suite *PlannerServiceTestSuite) TestNextCategoryAndArchive() {
	suite.Run("NextCategory_FollowsFixedOrder", func() {
		plan := suite.seedPlan(1, 1, 0, 0)

		category, remaining, err := suite.service.GetNextCategoryToProcess(context.Background(), plan.ID(), suite.userID)

		require.NoError(suite.T(), err)
		assert.True(suite.T(), remaining)
		assert.Equal(suite.T(), mealplan.CategoryBreakfast, category)
	})

	suite.Run("ArchiveOldPlans_SkipsUnfinishedOnes", func() {
		completed := suite.seedPlan(1, 0, 0, 0)
		for _, slot := range completed.Slots() {
			suite.generateAndLock(slot)
		}
		completed.RefreshStatus()
		suite.seedPlan(0, 1, 0, 0) // stays in progress

		count, err := suite.service.ArchiveOldPlans(context.Background(), suite.userID, 0)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 1, count)
		assert.Equal(suite.T(), mealplan.PlanStatusArchived, completed.Status())
	})
}

func TestPlannerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PlannerServiceTestSuite))
}
