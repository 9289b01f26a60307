// Package outbound defines the interfaces for outbound ports (driven
// adapters): persistence, the usage-counter store and the recipe generation
// gateway.
package outbound

import (
	"context"
	"time"

	"github.com/bonpetite/planner/internal/domain/mealplan"
	"github.com/bonpetite/planner/internal/domain/recipe"
	"github.com/bonpetite/planner/internal/domain/shoppinglist"
	"github.com/google/uuid"
)

// MealPlanRepository persists weekly meal plans together with their slots.
type MealPlanRepository interface {
	// Create persists the plan and all of its slots in one transaction.
	Create(ctx context.Context, plan *mealplan.WeeklyMealPlan) error
	// Update persists the plan row and every slot row.
	Update(ctx context.Context, plan *mealplan.WeeklyMealPlan) error
	// UpdateSlot persists a single slot's state.
	UpdateSlot(ctx context.Context, slot *mealplan.MealSlot) error
	// FindByID loads a plan with its slots in creation order.
	FindByID(ctx context.Context, id uuid.UUID) (*mealplan.WeeklyMealPlan, error)
	// FindByIDForUser loads a plan scoped to its owner; a plan belonging to
	// another user is reported the same way as a missing one.
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*mealplan.WeeklyMealPlan, error)
	// FindByIDForUserLocked behaves like FindByIDForUser but takes a row
	// lock on the plan, serializing concurrent read-modify-write cycles
	// within the surrounding transaction.
	FindByIDForUserLocked(ctx context.Context, id, userID uuid.UUID) (*mealplan.WeeklyMealPlan, error)
	// FindByUser lists a user's plans newest first.
	FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*mealplan.WeeklyMealPlan, int, error)
	// FindCompletedBefore lists a user's completed plans created before the cutoff.
	FindCompletedBefore(ctx context.Context, userID uuid.UUID, cutoff time.Time) ([]*mealplan.WeeklyMealPlan, error)
	// Delete removes a plan, its slots and its shopping list.
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecipeRepository persists generated recipes.
type RecipeRepository interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error)
	FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*recipe.Recipe, int, error)
	// SetSaved toggles the user-facing saved flag on an owned recipe.
	SetSaved(ctx context.Context, id, userID uuid.UUID, saved bool) error
}

// ShoppingListRepository persists the single shopping list a plan owns.
type ShoppingListRepository interface {
	// FindByPlanID returns nil without error when no list exists yet.
	FindByPlanID(ctx context.Context, planID uuid.UUID) (*shoppinglist.ShoppingList, error)
	// Save upserts the list, replacing its ingredients.
	Save(ctx context.Context, list *shoppinglist.ShoppingList) error
}

// UsageStore is the atomic increment-with-ceiling counter backing the usage
// limiter. Implementations must make the check-then-increment a single
// operation so concurrent consumers cannot both pass at the ceiling.
type UsageStore interface {
	// IncrementWithCeiling bumps the counter under key and reports whether
	// the incremented value is still within the ceiling. The entry expires
	// after ttl.
	IncrementWithCeiling(ctx context.Context, key string, ceiling int, ttl time.Duration) (bool, error)
}

// TransactionManager runs a unit of work inside a single storage
// transaction; repository calls made with the derived context join it.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// GenerationRequest is the structured input to the recipe generation
// gateway.
type GenerationRequest struct {
	MealType            string
	NutritionTargets    *mealplan.NutritionTargets
	Allergies           []string
	DietaryRestrictions []string
	CuisinePreferences  []string
	MaxPrepMinutes      *int
	Difficulty          *string
	VarietyHints        []string
}

// GeneratedIngredient is one ingredient line of a generated recipe.
type GeneratedIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// GeneratedNutrition carries the nutrition block of a generated recipe.
type GeneratedNutrition struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// GeneratedRecipe is the gateway's candidate recipe plus quality metadata.
// Structurally incomplete payloads are treated by callers as generation
// failures.
type GeneratedRecipe struct {
	Name              string                `json:"name"`
	Description       string                `json:"description"`
	Ingredients       []GeneratedIngredient `json:"ingredients"`
	Instructions      []string              `json:"instructions"`
	Nutrition         *GeneratedNutrition   `json:"nutrition"`
	PrepTimeMinutes   int                   `json:"prep_time_minutes"`
	CookTimeMinutes   int                   `json:"cook_time_minutes"`
	Servings          int                   `json:"servings"`
	Difficulty        string                `json:"difficulty"`
	CuisineType       string                `json:"cuisine_type,omitempty"`
	MealType          string                `json:"meal_type"`
	Tags              []string              `json:"tags,omitempty"`
	Confidence        float64               `json:"confidence"`
	VarietyScore      float64               `json:"variety_score"`
	NutritionAccuracy float64               `json:"nutrition_accuracy"`
}

// RecipeGenerator is the external generative-model gateway. Calls may take
// seconds; callers impose timeouts through ctx and treat a timeout like any
// other gateway failure.
type RecipeGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GeneratedRecipe, error)
}
