package mealplan

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// WeeklyMealPlanTestSuite provides a test suite for the plan aggregate
type WeeklyMealPlanTestSuite struct {
	suite.Suite
	userID uuid.UUID
}

func (suite *WeeklyMealPlanTestSuite) SetupTest() {
	suite.userID = uuid.New()
}

func (suite *WeeklyMealPlanTestSuite) validSpec() PlanSpec {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return PlanSpec{
		Name:      "March Week 1",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 7),
		Targets:   CategoryTargets{Breakfast: 2, Lunch: 2, Dinner: 3},
	}
}

// TestPlanCreation tests plan creation scenarios
func (suite *WeeklyMealPlanTestSuite) TestPlanCreation() {
	suite.Run("ValidSpec_ShouldCreateWithPendingSlots", func() {
		// Act
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())

		// Assert
		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), plan)

		assert.NotEqual(suite.T(), uuid.Nil, plan.ID())
		assert.Equal(suite.T(), suite.userID, plan.UserID())
		assert.Equal(suite.T(), PlanStatusInProgress, plan.Status())
		assert.Equal(suite.T(), 7, plan.TotalMeals())
		assert.Len(suite.T(), plan.Slots(), 7)

		for _, slot := range plan.Slots() {
			assert.Equal(suite.T(), SlotStatusPending, slot.Status())
			assert.Equal(suite.T(), plan.ID(), slot.PlanID())
			assert.Nil(suite.T(), slot.RecipeID())
		}
	})

	suite.Run("SlotsDistributedRoundRobinWithinCategory", func() {
		// 2 breakfasts land on days 1 and 2, 3 dinners on days 1, 2 and 3.
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())
		require.NoError(suite.T(), err)

		breakfasts := plan.SlotsByCategory(CategoryBreakfast)
		require.Len(suite.T(), breakfasts, 2)
		assert.Equal(suite.T(), 1, breakfasts[0].DayNumber())
		assert.Equal(suite.T(), 2, breakfasts[1].DayNumber())

		dinners := plan.SlotsByCategory(CategoryDinner)
		require.Len(suite.T(), dinners, 3)
		assert.Equal(suite.T(), 1, dinners[0].DayNumber())
		assert.Equal(suite.T(), 2, dinners[1].DayNumber())
		assert.Equal(suite.T(), 3, dinners[2].DayNumber())
	})

	suite.Run("EighthSlotOfCategory_WrapsBackToDayOne", func() {
		spec := suite.validSpec()
		spec.Targets = CategoryTargets{Dinner: 7, Snack: 7}
		plan, err := NewWeeklyMealPlan(suite.userID, spec)
		require.NoError(suite.T(), err)

		dinners := plan.SlotsByCategory(CategoryDinner)
		require.Len(suite.T(), dinners, 7)
		for i, slot := range dinners {
			assert.Equal(suite.T(), i+1, slot.DayNumber())
		}
	})

	suite.Run("InvalidSpec_ShouldCollectEveryViolation", func() {
		spec := PlanSpec{
			Name:      "   ",
			StartDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Targets:   CategoryTargets{Breakfast: 9, Lunch: -1},
		}

		plan, err := NewWeeklyMealPlan(suite.userID, spec)

		assert.Nil(suite.T(), plan)
		ve, ok := IsValidationError(err)
		require.True(suite.T(), ok)
		assert.Len(suite.T(), ve.Violations, 4)
		assert.Contains(suite.T(), ve.Violations, "name must not be empty")
		assert.Contains(suite.T(), ve.Violations, "end date must be after start date")
	})

	suite.Run("ZeroMeals_ShouldReturnError", func() {
		spec := suite.validSpec()
		spec.Targets = CategoryTargets{}

		plan, err := NewWeeklyMealPlan(suite.userID, spec)

		assert.Nil(suite.T(), plan)
		_, ok := IsValidationError(err)
		assert.True(suite.T(), ok)
	})

	suite.Run("MaximumSize_ShouldCreateTwentyEightSlots", func() {
		spec := suite.validSpec()
		spec.Targets = CategoryTargets{Breakfast: 7, Lunch: 7, Dinner: 7, Snack: 7}

		plan, err := NewWeeklyMealPlan(suite.userID, spec)

		require.NoError(suite.T(), err)
		assert.Len(suite.T(), plan.Slots(), MaxMealsPerPlan)
	})
}

// TestCompletionAggregation tests category and plan completion derivation
func (suite *WeeklyMealPlanTestSuite) TestCompletionAggregation() {
	lockAll := func(plan *WeeklyMealPlan, c Category) {
		for _, slot := range plan.SlotsByCategory(c) {
			require.NoError(suite.T(), slot.BeginGeneration())
			require.NoError(suite.T(), slot.CompleteGeneration(uuid.New()))
			require.NoError(suite.T(), slot.Lock())
		}
	}

	suite.Run("EmptyCategory_IsNeverComplete", func() {
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())
		require.NoError(suite.T(), err)

		assert.False(suite.T(), plan.IsCategoryComplete(CategorySnack))
	})

	suite.Run("CategoryComplete_WhenEverySlotLocked", func() {
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())
		require.NoError(suite.T(), err)

		lockAll(plan, CategoryBreakfast)

		assert.True(suite.T(), plan.IsCategoryComplete(CategoryBreakfast))
		assert.False(suite.T(), plan.IsCategoryComplete(CategoryLunch))
		assert.False(suite.T(), plan.IsComplete())
	})

	suite.Run("RefreshStatus_PromotesWhenAllLocked", func() {
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())
		require.NoError(suite.T(), err)

		lockAll(plan, CategoryBreakfast)
		lockAll(plan, CategoryLunch)
		assert.False(suite.T(), plan.RefreshStatus())
		assert.Equal(suite.T(), PlanStatusInProgress, plan.Status())

		lockAll(plan, CategoryDinner)
		assert.True(suite.T(), plan.RefreshStatus())
		assert.Equal(suite.T(), PlanStatusCompleted, plan.Status())
	})

	suite.Run("RefreshStatus_RevertsAfterUnlock", func() {
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())
		require.NoError(suite.T(), err)

		for _, c := range Categories() {
			lockAll(plan, c)
		}
		require.True(suite.T(), plan.RefreshStatus())

		require.NoError(suite.T(), plan.Slots()[0].Unlock())

		assert.True(suite.T(), plan.RefreshStatus())
		assert.Equal(suite.T(), PlanStatusInProgress, plan.Status())
	})

	suite.Run("RefreshStatus_LeavesArchivedPlansAlone", func() {
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())
		require.NoError(suite.T(), err)

		for _, c := range Categories() {
			lockAll(plan, c)
		}
		plan.RefreshStatus()
		require.NoError(suite.T(), plan.Archive())

		assert.False(suite.T(), plan.RefreshStatus())
		assert.Equal(suite.T(), PlanStatusArchived, plan.Status())
	})
}

// TestNextCategoryToProcess tests the fixed-order category recommendation
func (suite *WeeklyMealPlanTestSuite) TestNextCategoryToProcess() {
	lockAll := func(plan *WeeklyMealPlan, c Category) {
		for _, slot := range plan.SlotsByCategory(c) {
			require.NoError(suite.T(), slot.BeginGeneration())
			require.NoError(suite.T(), slot.CompleteGeneration(uuid.New()))
			require.NoError(suite.T(), slot.Lock())
		}
	}

	suite.Run("FreshPlan_RecommendsBreakfastFirst", func() {
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())
		require.NoError(suite.T(), err)

		c, remaining := plan.NextCategoryToProcess()

		assert.True(suite.T(), remaining)
		assert.Equal(suite.T(), CategoryBreakfast, c)
	})

	suite.Run("SkipsCategoriesWithoutMeals", func() {
		spec := suite.validSpec()
		spec.Targets = CategoryTargets{Dinner: 2, Snack: 1}
		plan, err := NewWeeklyMealPlan(suite.userID, spec)
		require.NoError(suite.T(), err)

		c, remaining := plan.NextCategoryToProcess()

		assert.True(suite.T(), remaining)
		assert.Equal(suite.T(), CategoryDinner, c)
	})

	suite.Run("AdvancesPastCompletedCategories", func() {
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())
		require.NoError(suite.T(), err)

		lockAll(plan, CategoryBreakfast)
		c, remaining := plan.NextCategoryToProcess()

		assert.True(suite.T(), remaining)
		assert.Equal(suite.T(), CategoryLunch, c)
	})

	suite.Run("FullyLockedPlan_ReportsNothingRemaining", func() {
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())
		require.NoError(suite.T(), err)

		for _, c := range Categories() {
			lockAll(plan, c)
		}
		_, remaining := plan.NextCategoryToProcess()

		assert.False(suite.T(), remaining)
	})
}

// TestArchive tests archive preconditions
func (suite *WeeklyMealPlanTestSuite) TestArchive() {
	suite.Run("InProgressPlan_CannotBeArchived", func() {
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())
		require.NoError(suite.T(), err)

		assert.ErrorIs(suite.T(), plan.Archive(), ErrPlanNotCompleted)
	})

	suite.Run("ArchivedPlan_RejectsPreferenceEdits", func() {
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())
		require.NoError(suite.T(), err)

		for _, slot := range plan.Slots() {
			require.NoError(suite.T(), slot.BeginGeneration())
			require.NoError(suite.T(), slot.CompleteGeneration(uuid.New()))
			require.NoError(suite.T(), slot.Lock())
		}
		plan.RefreshStatus()
		require.NoError(suite.T(), plan.Archive())

		err = plan.UpdateGlobalPreferences(&Preferences{Allergies: []string{"nuts"}})
		assert.ErrorIs(suite.T(), err, ErrPlanArchived)
	})
}

// TestSlotLookup tests slot retrieval by ID
func (suite *WeeklyMealPlanTestSuite) TestSlotLookup() {
	suite.Run("KnownSlot_IsReturned", func() {
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())
		require.NoError(suite.T(), err)

		want := plan.Slots()[3]
		got, err := plan.Slot(want.ID())

		require.NoError(suite.T(), err)
		assert.Same(suite.T(), want, got)
	})

	suite.Run("UnknownSlot_ReturnsError", func() {
		plan, err := NewWeeklyMealPlan(suite.userID, suite.validSpec())
		require.NoError(suite.T(), err)

		_, err = plan.Slot(uuid.New())
		assert.ErrorIs(suite.T(), err, ErrSlotNotFound)
	})
}

func TestWeeklyMealPlanTestSuite(t *testing.T) {
	suite.Run(t, new(WeeklyMealPlanTestSuite))
}
