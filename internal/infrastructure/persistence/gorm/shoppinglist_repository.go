package gorm

import (
	"context"
	"errors"

	"github.com/bonpetite/planner/internal/domain/shoppinglist"
	"github.com/bonpetite/planner/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShoppingListRepository implements the shopping list repository interface
// using GORM
type ShoppingListRepository struct {
	db *gorm.DB
}

// NewShoppingListRepository creates a new shopping list repository
func NewShoppingListRepository(db *gorm.DB) outbound.ShoppingListRepository {
	return &ShoppingListRepository{db: db}
}

// FindByPlanID loads the plan's list; nil without error when none exists yet
func (r *ShoppingListRepository) FindByPlanID(ctx context.Context, planID uuid.UUID) (*shoppinglist.ShoppingList, error) {
	var model ShoppingListModel

	result := dbFromContext(ctx, r.db).First(&model, "plan_id = ?", planID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToList(&model), nil
}

// Save upserts the list keyed by plan, replacing its ingredients
func (r *ShoppingListRepository) Save(ctx context.Context, list *shoppinglist.ShoppingList) error {
	model := ListToModel(list)

	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plan_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"ingredients", "total_items", "checked_items", "updated_at"}),
		}).
		Create(model).Error
}
