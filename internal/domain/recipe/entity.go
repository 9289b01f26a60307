// Package recipe contains the core domain logic for generated recipes.
// Recipes are immutable once created; only the saved flag may be toggled.
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recipe represents a generated recipe owned by a user.
// Meal-plan slots reference recipes by ID but never own them.
type Recipe struct {
	id          uuid.UUID
	userID      uuid.UUID
	name        string
	description string

	ingredients  []Ingredient
	instructions []Instruction
	nutrition    *NutritionInfo

	prepTimeMinutes int
	cookTimeMinutes int
	servings        int
	difficulty      DifficultyLevel
	cuisineType     string
	mealType        string
	tags            []string

	isSaved bool
	aiModel string

	createdAt time.Time
}

// NewRecipe creates a recipe from a generation result, rejecting
// structurally incomplete payloads. A recipe with a missing name,
// description, ingredient list, instruction list, or nutrition block is
// treated the same as a failed generation by callers.
func NewRecipe(userID uuid.UUID, name, description string, ingredients []Ingredient, instructions []Instruction, nutrition *NutritionInfo) (*Recipe, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingName
	}
	if len(name) > 255 {
		return nil, ErrNameTooLong
	}
	if strings.TrimSpace(description) == "" {
		return nil, ErrMissingDescription
	}
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}
	if len(instructions) == 0 {
		return nil, ErrNoInstructions
	}
	if nutrition == nil {
		return nil, ErrMissingNutrition
	}

	for _, ing := range ingredients {
		if err := ing.Validate(); err != nil {
			return nil, err
		}
	}

	steps := make([]Instruction, len(instructions))
	for i, ins := range instructions {
		if err := ins.Validate(); err != nil {
			return nil, err
		}
		ins.StepNumber = i + 1
		steps[i] = ins
	}

	return &Recipe{
		id:           uuid.New(),
		userID:       userID,
		name:         name,
		description:  description,
		ingredients:  ingredients,
		instructions: steps,
		nutrition:    nutrition,
		servings:     1,
		difficulty:   DifficultyMedium,
		createdAt:    time.Now(),
	}, nil
}

// Snapshot carries the full persisted state of a recipe for rehydration.
type Snapshot struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	Description     string
	Ingredients     []Ingredient
	Instructions    []Instruction
	Nutrition       *NutritionInfo
	PrepTimeMinutes int
	CookTimeMinutes int
	Servings        int
	Difficulty      DifficultyLevel
	CuisineType     string
	MealType        string
	Tags            []string
	IsSaved         bool
	AIModel         string
	CreatedAt       time.Time
}

// Reconstitute rebuilds a recipe from its persisted snapshot without
// re-running creation validation.
func Reconstitute(s Snapshot) *Recipe {
	return &Recipe{
		id:              s.ID,
		userID:          s.UserID,
		name:            s.Name,
		description:     s.Description,
		ingredients:     s.Ingredients,
		instructions:    s.Instructions,
		nutrition:       s.Nutrition,
		prepTimeMinutes: s.PrepTimeMinutes,
		cookTimeMinutes: s.CookTimeMinutes,
		servings:        s.Servings,
		difficulty:      s.Difficulty,
		cuisineType:     s.CuisineType,
		mealType:        s.MealType,
		tags:            s.Tags,
		isSaved:         s.IsSaved,
		aiModel:         s.AIModel,
		createdAt:       s.CreatedAt,
	}
}

// SetTiming sets preparation and cooking time in minutes.
func (r *Recipe) SetTiming(prepMinutes, cookMinutes int) {
	if prepMinutes >= 0 {
		r.prepTimeMinutes = prepMinutes
	}
	if cookMinutes >= 0 {
		r.cookTimeMinutes = cookMinutes
	}
}

// SetServings sets the serving count.
func (r *Recipe) SetServings(servings int) error {
	if servings <= 0 {
		return ErrInvalidServings
	}
	r.servings = servings
	return nil
}

// SetClassification sets difficulty, cuisine, meal type and tags.
func (r *Recipe) SetClassification(difficulty DifficultyLevel, cuisineType, mealType string, tags []string) {
	if difficulty != "" {
		r.difficulty = difficulty
	}
	r.cuisineType = cuisineType
	r.mealType = mealType
	r.tags = tags
}

// SetAIModel records which model produced the recipe.
func (r *Recipe) SetAIModel(model string) {
	r.aiModel = model
}

// ToggleSaved flips the user-controlled saved flag.
func (r *Recipe) ToggleSaved(saved bool) {
	r.isSaved = saved
}

// ID returns the recipe's unique identifier.
func (r *Recipe) ID() uuid.UUID { return r.id }

// UserID returns the owning user's identifier.
func (r *Recipe) UserID() uuid.UUID { return r.userID }

// Name returns the recipe name.
func (r *Recipe) Name() string { return r.name }

// Description returns the recipe description.
func (r *Recipe) Description() string { return r.description }

// Ingredients returns the ingredient list.
func (r *Recipe) Ingredients() []Ingredient { return r.ingredients }

// Instructions returns the ordered instruction steps.
func (r *Recipe) Instructions() []Instruction { return r.instructions }

// Nutrition returns the nutrition totals.
func (r *Recipe) Nutrition() *NutritionInfo { return r.nutrition }

// PrepTimeMinutes returns the preparation time in minutes.
func (r *Recipe) PrepTimeMinutes() int { return r.prepTimeMinutes }

// CookTimeMinutes returns the cooking time in minutes.
func (r *Recipe) CookTimeMinutes() int { return r.cookTimeMinutes }

// Servings returns the number of servings.
func (r *Recipe) Servings() int { return r.servings }

// Difficulty returns the difficulty level.
func (r *Recipe) Difficulty() DifficultyLevel { return r.difficulty }

// CuisineType returns the cuisine type, if any.
func (r *Recipe) CuisineType() string { return r.cuisineType }

// MealType returns the meal type the recipe was generated for.
func (r *Recipe) MealType() string { return r.mealType }

// Tags returns the recipe tags.
func (r *Recipe) Tags() []string { return r.tags }

// IsSaved reports whether the user saved the recipe.
func (r *Recipe) IsSaved() bool { return r.isSaved }

// AIModel returns the model that generated the recipe.
func (r *Recipe) AIModel() string { return r.aiModel }

// CreatedAt returns when the recipe was created.
func (r *Recipe) CreatedAt() time.Time { return r.createdAt }
