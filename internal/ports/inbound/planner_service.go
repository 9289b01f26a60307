// Package inbound defines the interfaces for inbound ports (use cases) and
// their command/DTO types.
package inbound

import (
	"context"
	"time"

	"github.com/bonpetite/planner/internal/domain/mealplan"
	"github.com/bonpetite/planner/internal/domain/shoppinglist"
	"github.com/google/uuid"
)

// CreatePlanCommand requests a new weekly meal plan.
type CreatePlanCommand struct {
	UserID            uuid.UUID
	Name              string `validate:"required,max=255"`
	Description       string
	StartDate         time.Time `validate:"required"`
	EndDate           time.Time `validate:"required"`
	BreakfastCount    int       `validate:"min=0,max=7"`
	LunchCount        int       `validate:"min=0,max=7"`
	DinnerCount       int       `validate:"min=0,max=7"`
	SnackCount        int       `validate:"min=0,max=7"`
	GlobalPreferences *mealplan.Preferences
}

// GenerateSlotCommand requests generation for a single slot. Preferences, if
// given, take priority over slot-stored and plan-level preferences.
type GenerateSlotCommand struct {
	PlanID      uuid.UUID
	SlotID      uuid.UUID
	UserID      uuid.UUID
	Preferences *mealplan.Preferences
}

// BatchGenerateCommand requests generation for several slots. An empty
// SlotIDs means every pending slot of the plan, in creation order.
type BatchGenerateCommand struct {
	PlanID      uuid.UUID
	UserID      uuid.UUID
	SlotIDs     []uuid.UUID
	Preferences map[uuid.UUID]*mealplan.Preferences
}

// LockSlotCommand locks or unlocks a slot.
type LockSlotCommand struct {
	PlanID uuid.UUID
	SlotID uuid.UUID
	UserID uuid.UUID
	Locked bool
}

// OutcomeStatus classifies one slot's result within a batch.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeSkipped OutcomeStatus = "skipped"
)

// SlotOutcome is the per-slot result of a batch generation run.
type SlotOutcome struct {
	SlotID   uuid.UUID     `json:"slot_id"`
	Status   OutcomeStatus `json:"status"`
	RecipeID *uuid.UUID    `json:"recipe_id,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// BatchGenerateResult accumulates per-slot outcomes. LimitReached signals
// that the daily generation quota stopped the loop before all target slots
// were attempted; untouched slots do not appear in Outcomes.
type BatchGenerateResult struct {
	Outcomes     []SlotOutcome `json:"outcomes"`
	LimitReached bool          `json:"limit_reached"`
}

// LockResult reports the aggregate completion state after a lock change so
// the caller does not need a second round trip.
type LockResult struct {
	Slot              *SlotDTO            `json:"slot"`
	CategoryComplete  bool                `json:"category_complete"`
	PlanComplete      bool                `json:"plan_complete"`
	PlanStatus        mealplan.PlanStatus `json:"plan_status"`
}

// SlotDTO is the transport representation of a meal slot.
type SlotDTO struct {
	ID          uuid.UUID             `json:"id"`
	PlanID      uuid.UUID             `json:"plan_id"`
	Category    mealplan.Category     `json:"category"`
	DayNumber   int                   `json:"day_number"`
	Status      mealplan.SlotStatus   `json:"status"`
	RecipeID    *uuid.UUID            `json:"recipe_id,omitempty"`
	Preferences *mealplan.Preferences `json:"preferences,omitempty"`
	LockedAt    *time.Time            `json:"locked_at,omitempty"`
}

// MealPlanDTO is the transport representation of a weekly meal plan.
type MealPlanDTO struct {
	ID                uuid.UUID             `json:"id"`
	UserID            uuid.UUID             `json:"user_id"`
	Name              string                `json:"name"`
	Description       string                `json:"description,omitempty"`
	StartDate         time.Time             `json:"start_date"`
	EndDate           time.Time             `json:"end_date"`
	BreakfastCount    int                   `json:"breakfast_count"`
	LunchCount        int                   `json:"lunch_count"`
	DinnerCount       int                   `json:"dinner_count"`
	SnackCount        int                   `json:"snack_count"`
	TotalMeals        int                   `json:"total_meals"`
	Status            mealplan.PlanStatus   `json:"status"`
	GlobalPreferences *mealplan.Preferences `json:"global_preferences,omitempty"`
	Slots             []SlotDTO             `json:"slots"`
	CreatedAt         time.Time             `json:"created_at"`
}

// ShoppingListDTO is the transport representation of a shopping list,
// including the by-category grouping for display.
type ShoppingListDTO struct {
	ID           uuid.UUID                                              `json:"id"`
	PlanID       uuid.UUID                                              `json:"plan_id"`
	Ingredients  []shoppinglist.Ingredient                              `json:"ingredients"`
	ByCategory   map[shoppinglist.ItemCategory][]shoppinglist.Ingredient `json:"by_category"`
	TotalItems   int                                                    `json:"total_items"`
	CheckedItems int                                                    `json:"checked_items"`
}

// PlannerService is the meal-plan orchestration use-case surface.
type PlannerService interface {
	CreatePlan(ctx context.Context, cmd CreatePlanCommand) (*MealPlanDTO, error)
	GetPlan(ctx context.Context, planID, userID uuid.UUID) (*MealPlanDTO, error)
	GenerateSlot(ctx context.Context, cmd GenerateSlotCommand) (*SlotDTO, error)
	RegenerateSlot(ctx context.Context, cmd GenerateSlotCommand) (*SlotDTO, error)
	BatchGenerateSlots(ctx context.Context, cmd BatchGenerateCommand) (*BatchGenerateResult, error)
	LockSlot(ctx context.Context, cmd LockSlotCommand) (*LockResult, error)
	GetNextCategoryToProcess(ctx context.Context, planID, userID uuid.UUID) (mealplan.Category, bool, error)
	ArchiveOldPlans(ctx context.Context, userID uuid.UUID, daysOld int) (int, error)
}

// ShoppingListService is the ingredient consolidation use-case surface.
type ShoppingListService interface {
	BuildOrRefreshShoppingList(ctx context.Context, planID, userID uuid.UUID) (*ShoppingListDTO, error)
	GetShoppingList(ctx context.Context, planID, userID uuid.UUID) (*ShoppingListDTO, error)
	SetIngredientChecked(ctx context.Context, planID, userID uuid.UUID, ingredientName string, checked bool) (*ShoppingListDTO, error)
}
