// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/bonpetite/planner/internal/domain/mealplan"
	"github.com/bonpetite/planner/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealPlanRepository implements the meal plan repository interface using GORM
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB) outbound.MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// Create persists a plan and all of its slots in one transaction
func (r *MealPlanRepository) Create(ctx context.Context, plan *mealplan.WeeklyMealPlan) error {
	model := PlanToModel(plan)

	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
}

// Update persists the plan row and every slot row
func (r *MealPlanRepository) Update(ctx context.Context, plan *mealplan.WeeklyMealPlan) error {
	model := PlanToModel(plan)

	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}

		for i := range model.Items {
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateSlot persists a single slot's state
func (r *MealPlanRepository) UpdateSlot(ctx context.Context, slot *mealplan.MealSlot) error {
	model := SlotToModel(slot)

	result := dbFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("meal slot not found")
	}
	return nil
}

// FindByID loads a plan with its slots in creation order
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.WeeklyMealPlan, error) {
	var model MealPlanModel

	result := dbFromContext(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToPlan(&model), nil
}

// FindByIDForUser loads a plan scoped to its owner. A plan owned by another
// user is indistinguishable from a missing one.
func (r *MealPlanRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*mealplan.WeeklyMealPlan, error) {
	var model MealPlanModel

	result := dbFromContext(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&model, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToPlan(&model), nil
}

// FindByIDForUserLocked loads an owner-scoped plan holding a FOR UPDATE lock
// on the plan row, so concurrent completion recomputations on the same plan
// serialize within the surrounding transaction.
func (r *MealPlanRepository) FindByIDForUserLocked(ctx context.Context, id, userID uuid.UUID) (*mealplan.WeeklyMealPlan, error) {
	var model MealPlanModel

	result := forUpdate(dbFromContext(ctx, r.db)).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&model, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToPlan(&model), nil
}

// FindByUser lists a user's plans newest first
func (r *MealPlanRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*mealplan.WeeklyMealPlan, int, error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := db.Model(&MealPlanModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []MealPlanModel
	err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	plans := make([]*mealplan.WeeklyMealPlan, len(models))
	for i := range models {
		plans[i] = ModelToPlan(&models[i])
	}
	return plans, int(total), nil
}

// FindCompletedBefore lists a user's completed plans created before the cutoff
func (r *MealPlanRepository) FindCompletedBefore(ctx context.Context, userID uuid.UUID, cutoff time.Time) ([]*mealplan.WeeklyMealPlan, error) {
	var models []MealPlanModel

	err := dbFromContext(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("user_id = ? AND status = ? AND created_at < ?", userID, string(mealplan.PlanStatusCompleted), cutoff).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	plans := make([]*mealplan.WeeklyMealPlan, len(models))
	for i := range models {
		plans[i] = ModelToPlan(&models[i])
	}
	return plans, nil
}

// Delete removes a plan together with its slots and shopping list
func (r *MealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&MealPlanItemModel{}, "plan_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&ShoppingListModel{}, "plan_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&MealPlanModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("meal plan not found")
		}
		return nil
	})
}
