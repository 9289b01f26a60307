package gorm

import (
	"context"
	"errors"

	"github.com/bonpetite/planner/internal/domain/recipe"
	"github.com/bonpetite/planner/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create creates a new recipe
func (r *RecipeRepository) Create(ctx context.Context, entity *recipe.Recipe) error {
	model := RecipeToModel(entity)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := dbFromContext(ctx, r.db).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToRecipe(&model), nil
}

// FindByIDs loads several recipes at once. Missing IDs are silently absent
// from the result.
func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []RecipeModel
	err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&models).Error
	if err != nil {
		return nil, err
	}

	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}
	return recipes, nil
}

// FindByUser lists a user's recipes newest first
func (r *RecipeRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*recipe.Recipe, int, error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := db.Model(&RecipeModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []RecipeModel
	err := db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}
	return recipes, int(total), nil
}

// SetSaved toggles the user-facing saved flag on an owned recipe
func (r *RecipeRepository) SetSaved(ctx context.Context, id, userID uuid.UUID, saved bool) error {
	result := dbFromContext(ctx, r.db).
		Model(&RecipeModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_saved", saved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("recipe not found")
	}
	return nil
}
