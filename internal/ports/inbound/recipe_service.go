package inbound

import (
	"context"
	"time"

	"github.com/bonpetite/planner/internal/domain/recipe"
	"github.com/google/uuid"
)

// RecipeDTO is the transport representation of a generated recipe.
type RecipeDTO struct {
	ID              uuid.UUID            `json:"id"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	Ingredients     []recipe.Ingredient  `json:"ingredients"`
	Instructions    []recipe.Instruction `json:"instructions"`
	Nutrition       *recipe.NutritionInfo `json:"nutrition,omitempty"`
	PrepTimeMinutes int                  `json:"prep_time_minutes"`
	CookTimeMinutes int                  `json:"cook_time_minutes"`
	Servings        int                  `json:"servings"`
	Difficulty      string               `json:"difficulty"`
	CuisineType     string               `json:"cuisine_type,omitempty"`
	MealType        string               `json:"meal_type,omitempty"`
	Tags            []string             `json:"tags,omitempty"`
	IsSaved         bool                 `json:"is_saved"`
	CreatedAt       time.Time            `json:"created_at"`
}

// RecipeListResult is one page of a user's recipes.
type RecipeListResult struct {
	Recipes []RecipeDTO `json:"recipes"`
	Total   int         `json:"total"`
	Offset  int         `json:"offset"`
	Limit   int         `json:"limit"`
}

// RecipeService is the recipe browsing use-case surface. Recipes are created
// only through slot generation; this surface reads them and toggles the saved
// flag.
type RecipeService interface {
	GetRecipe(ctx context.Context, recipeID, userID uuid.UUID) (*RecipeDTO, error)
	ListRecipes(ctx context.Context, userID uuid.UUID, offset, limit int) (*RecipeListResult, error)
	SetRecipeSaved(ctx context.Context, recipeID, userID uuid.UUID, saved bool) (*RecipeDTO, error)
}
