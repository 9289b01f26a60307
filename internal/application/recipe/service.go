// Package recipe provides the application layer for browsing generated
// recipes. Recipes are created only through slot generation; this surface
// reads them and manages the saved flag.
package recipe

import (
	"context"

	"github.com/bonpetite/planner/internal/domain/recipe"
	"github.com/bonpetite/planner/internal/ports/inbound"
	"github.com/bonpetite/planner/internal/ports/outbound"
	"github.com/bonpetite/planner/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageSize = 20

// Service implements the recipe browsing use cases.
type Service struct {
	recipeRepo outbound.RecipeRepository
	logger     *zap.Logger
}

// NewService creates a new recipe service.
func NewService(recipeRepo outbound.RecipeRepository, logger *zap.Logger) inbound.RecipeService {
	return &Service{
		recipeRepo: recipeRepo,
		logger:     logger.Named("recipe-service"),
	}
}

// GetRecipe loads one recipe scoped to its owner.
func (s *Service) GetRecipe(ctx context.Context, recipeID, userID uuid.UUID) (*inbound.RecipeDTO, error) {
	r, err := s.loadOwnedRecipe(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}
	return recipeToDTO(r), nil
}

// ListRecipes returns one page of the user's recipes, newest first.
func (s *Service) ListRecipes(ctx context.Context, userID uuid.UUID, offset, limit int) (*inbound.RecipeListResult, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	recipes, total, err := s.recipeRepo.FindByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("list recipes", err)
	}

	dtos := make([]inbound.RecipeDTO, len(recipes))
	for i, r := range recipes {
		dtos[i] = *recipeToDTO(r)
	}

	return &inbound.RecipeListResult{
		Recipes: dtos,
		Total:   total,
		Offset:  offset,
		Limit:   limit,
	}, nil
}

// SetRecipeSaved toggles the saved flag on an owned recipe.
func (s *Service) SetRecipeSaved(ctx context.Context, recipeID, userID uuid.UUID, saved bool) (*inbound.RecipeDTO, error) {
	r, err := s.loadOwnedRecipe(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.recipeRepo.SetSaved(ctx, recipeID, userID, saved); err != nil {
		return nil, errors.NewDatabaseError("update saved flag", err)
	}
	r.ToggleSaved(saved)

	s.logger.Info("Recipe saved flag changed",
		zap.String("recipe_id", recipeID.String()),
		zap.Bool("saved", saved),
	)

	return recipeToDTO(r), nil
}

// loadOwnedRecipe loads a recipe scoped to its owner, mapping a missing or
// foreign recipe to a not-found error.
func (s *Service) loadOwnedRecipe(ctx context.Context, recipeID, userID uuid.UUID) (*recipe.Recipe, error) {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, errors.NewDatabaseError("find recipe", err)
	}
	if r == nil || r.UserID() != userID {
		return nil, errors.NewNotFoundError("Recipe")
	}
	return r, nil
}

func recipeToDTO(r *recipe.Recipe) *inbound.RecipeDTO {
	return &inbound.RecipeDTO{
		ID:              r.ID(),
		Name:            r.Name(),
		Description:     r.Description(),
		Ingredients:     r.Ingredients(),
		Instructions:    r.Instructions(),
		Nutrition:       r.Nutrition(),
		PrepTimeMinutes: r.PrepTimeMinutes(),
		CookTimeMinutes: r.CookTimeMinutes(),
		Servings:        r.Servings(),
		Difficulty:      string(r.Difficulty()),
		CuisineType:     r.CuisineType(),
		MealType:        r.MealType(),
		Tags:            r.Tags(),
		IsSaved:         r.IsSaved(),
		CreatedAt:       r.CreatedAt(),
	}
}
