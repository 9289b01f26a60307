// Package testutils provides test data factories and fake adapters for
// consistent test setup.
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/bonpetite/planner/internal/domain/mealplan"
	"github.com/bonpetite/planner/internal/domain/recipe"
	"github.com/bonpetite/planner/internal/ports/outbound"
)

// PlanBuilder provides a fluent interface for building test meal plans
type PlanBuilder struct {
	userID      uuid.UUID
	name        string
	description string
	startDate   time.Time
	endDate     time.Time
	targets     mealplan.CategoryTargets
	prefs       *mealplan.Preferences
}

// NewPlanBuilder creates a plan builder with sensible defaults
func NewPlanBuilder() *PlanBuilder {
	faker := gofakeit.New(time.Now().UnixNano())
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	return &PlanBuilder{
		userID:      uuid.New(),
		name:        faker.Sentence(3),
		description: faker.Sentence(8),
		startDate:   start,
		endDate:     start.AddDate(0, 0, 7),
		targets:     mealplan.CategoryTargets{Breakfast: 2, Lunch: 2, Dinner: 3},
	}
}

// WithUser sets the plan owner
func (b *PlanBuilder) WithUser(userID uuid.UUID) *PlanBuilder {
	b.userID = userID
	return b
}

// WithName sets the plan name
func (b *PlanBuilder) WithName(name string) *PlanBuilder {
	b.name = name
	return b
}

// WithDates sets the plan period
func (b *PlanBuilder) WithDates(start, end time.Time) *PlanBuilder {
	b.startDate = start
	b.endDate = end
	return b
}

// WithTargets sets the per-category meal counts
func (b *PlanBuilder) WithTargets(breakfast, lunch, dinner, snack int) *PlanBuilder {
	b.targets = mealplan.CategoryTargets{
		Breakfast: breakfast,
		Lunch:     lunch,
		Dinner:    dinner,
		Snack:     snack,
	}
	return b
}

// WithGlobalPreferences sets the plan-level preferences
func (b *PlanBuilder) WithGlobalPreferences(prefs *mealplan.Preferences) *PlanBuilder {
	b.prefs = prefs
	return b
}

// Build constructs the plan, panicking on invalid builder input so tests
// fail loudly.
func (b *PlanBuilder) Build() *mealplan.WeeklyMealPlan {
	plan, err := mealplan.NewWeeklyMealPlan(b.userID, mealplan.PlanSpec{
		Name:              b.name,
		Description:       b.description,
		StartDate:         b.startDate,
		EndDate:           b.endDate,
		Targets:           b.targets,
		GlobalPreferences: b.prefs,
	})
	if err != nil {
		panic(err)
	}
	return plan
}

// NewTestRecipe builds a minimal valid recipe entity
func NewTestRecipe(userID uuid.UUID, name string, ingredients ...recipe.Ingredient) *recipe.Recipe {
	if len(ingredients) == 0 {
		ingredients = []recipe.Ingredient{
			{Name: "Olive Oil", Quantity: 2, Unit: "tbsp"},
			{Name: "Salt", Quantity: 1, Unit: "tsp"},
		}
	}

	r, err := recipe.NewRecipe(
		userID,
		name,
		"A straightforward dish for testing",
		ingredients,
		[]recipe.Instruction{
			{Description: "Prepare the ingredients."},
			{Description: "Cook and serve."},
		},
		&recipe.NutritionInfo{Calories: 420, Protein: 22, Carbs: 38, Fat: 18},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// NewGeneratedRecipe builds a structurally complete gateway payload
func NewGeneratedRecipe(name string) *outbound.GeneratedRecipe {
	faker := gofakeit.New(time.Now().UnixNano())

	return &outbound.GeneratedRecipe{
		Name:        name,
		Description: faker.Sentence(10),
		Ingredients: []outbound.GeneratedIngredient{
			{Name: "Eggs", Quantity: 2, Unit: "piece"},
			{Name: "Spinach", Quantity: 1, Unit: "cup"},
			{Name: "Feta", Quantity: 0.5, Unit: "cup"},
		},
		Instructions: []string{
			"Whisk the eggs.",
			"Wilt the spinach and fold everything together.",
		},
		Nutrition:       &outbound.GeneratedNutrition{Calories: 350, Protein: 24, Carbs: 6, Fat: 26},
		PrepTimeMinutes: 10,
		CookTimeMinutes: 8,
		Servings:        2,
		Difficulty:      "easy",
		MealType:        "breakfast",
		Confidence:      0.9,
	}
}
