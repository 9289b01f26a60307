// Package shoppinglist provides the application layer for building and
// maintaining a plan's consolidated shopping list.
package shoppinglist

import (
	"context"
	stderrors "errors"

	"github.com/bonpetite/planner/internal/domain/shoppinglist"
	"github.com/bonpetite/planner/internal/ports/inbound"
	"github.com/bonpetite/planner/internal/ports/outbound"
	"github.com/bonpetite/planner/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the shopping list use cases.
type Service struct {
	planRepo   outbound.MealPlanRepository
	recipeRepo outbound.RecipeRepository
	listRepo   outbound.ShoppingListRepository
	logger     *zap.Logger
}

// NewService creates a new shopping list service.
func NewService(
	planRepo outbound.MealPlanRepository,
	recipeRepo outbound.RecipeRepository,
	listRepo outbound.ShoppingListRepository,
	logger *zap.Logger,
) inbound.ShoppingListService {
	return &Service{
		planRepo:   planRepo,
		recipeRepo: recipeRepo,
		listRepo:   listRepo,
		logger:     logger.Named("shoppinglist-service"),
	}
}

// BuildOrRefreshShoppingList consolidates the ingredients of every slot that
// currently has a recipe into the plan's single shopping list. Rebuilding
// replaces the item set wholesale, so previously checked items come back
// unchecked.
func (s *Service) BuildOrRefreshShoppingList(ctx context.Context, planID, userID uuid.UUID) (*inbound.ShoppingListDTO, error) {
	plan, err := s.planRepo.FindByIDForUser(ctx, planID, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("find meal plan", err)
	}
	if plan == nil {
		return nil, errors.NewNotFoundError("Meal plan")
	}

	recipeIDs := make([]uuid.UUID, 0, len(plan.Slots()))
	for _, slot := range plan.Slots() {
		if slot.HasRecipe() {
			recipeIDs = append(recipeIDs, *slot.RecipeID())
		}
	}
	if len(recipeIDs) == 0 {
		return nil, errors.NewNoGeneratedMealsError()
	}

	recipes, err := s.recipeRepo.FindByIDs(ctx, recipeIDs)
	if err != nil {
		return nil, errors.NewDatabaseError("load plan recipes", err)
	}

	sources := make([]shoppinglist.SourceIngredient, 0, len(recipes)*8)
	for _, r := range recipes {
		for _, ing := range r.Ingredients() {
			sources = append(sources, shoppinglist.SourceIngredient{
				Name:       ing.Name,
				Quantity:   ing.Quantity,
				Unit:       ing.Unit,
				RecipeID:   r.ID(),
				RecipeName: r.Name(),
			})
		}
	}

	consolidated := shoppinglist.Consolidate(sources)

	list, err := s.listRepo.FindByPlanID(ctx, planID)
	if err != nil {
		return nil, errors.NewDatabaseError("find shopping list", err)
	}
	if list == nil {
		list = shoppinglist.NewShoppingList(planID, userID, consolidated)
	} else {
		list.Replace(consolidated)
	}

	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, errors.NewDatabaseError("save shopping list", err)
	}

	s.logger.Info("Shopping list rebuilt",
		zap.String("plan_id", planID.String()),
		zap.Int("recipes", len(recipes)),
		zap.Int("items", list.TotalItems()),
	)

	return listToDTO(list), nil
}

// GetShoppingList returns the plan's current shopping list without rebuilding
// it.
func (s *Service) GetShoppingList(ctx context.Context, planID, userID uuid.UUID) (*inbound.ShoppingListDTO, error) {
	plan, err := s.planRepo.FindByIDForUser(ctx, planID, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("find meal plan", err)
	}
	if plan == nil {
		return nil, errors.NewNotFoundError("Meal plan")
	}

	list, err := s.listRepo.FindByPlanID(ctx, planID)
	if err != nil {
		return nil, errors.NewDatabaseError("find shopping list", err)
	}
	if list == nil {
		return nil, errors.NewNotFoundError("Shopping list")
	}

	return listToDTO(list), nil
}

// SetIngredientChecked toggles one item's checked-off state by exact item
// name.
func (s *Service) SetIngredientChecked(ctx context.Context, planID, userID uuid.UUID, ingredientName string, checked bool) (*inbound.ShoppingListDTO, error) {
	plan, err := s.planRepo.FindByIDForUser(ctx, planID, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("find meal plan", err)
	}
	if plan == nil {
		return nil, errors.NewNotFoundError("Meal plan")
	}

	list, err := s.listRepo.FindByPlanID(ctx, planID)
	if err != nil {
		return nil, errors.NewDatabaseError("find shopping list", err)
	}
	if list == nil {
		return nil, errors.NewNotFoundError("Shopping list")
	}

	if err := list.SetItemChecked(ingredientName, checked); err != nil {
		if stderrors.Is(err, shoppinglist.ErrIngredientNotFound) {
			return nil, errors.NewNotFoundError("Ingredient")
		}
		return nil, errors.Wrap(err, "failed to update ingredient")
	}

	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, errors.NewDatabaseError("save shopping list", err)
	}

	return listToDTO(list), nil
}

func listToDTO(list *shoppinglist.ShoppingList) *inbound.ShoppingListDTO {
	return &inbound.ShoppingListDTO{
		ID:           list.ID(),
		PlanID:       list.PlanID(),
		Ingredients:  list.Ingredients(),
		ByCategory:   list.GroupByCategory(),
		TotalItems:   list.TotalItems(),
		CheckedItems: list.CheckedItems(),
	}
}
