package gorm

import (
	"github.com/bonpetite/planner/internal/domain/mealplan"
	"github.com/bonpetite/planner/internal/domain/recipe"
	"github.com/bonpetite/planner/internal/domain/shoppinglist"
)

// PlanToModel converts a meal plan aggregate to its GORM model, slots
// included.
func PlanToModel(plan *mealplan.WeeklyMealPlan) *MealPlanModel {
	targets := plan.Targets()
	model := &MealPlanModel{
		ID:                plan.ID(),
		UserID:            plan.UserID(),
		Name:              plan.Name(),
		Description:       plan.Description(),
		StartDate:         plan.StartDate(),
		EndDate:           plan.EndDate(),
		BreakfastCount:    targets.Breakfast,
		LunchCount:        targets.Lunch,
		DinnerCount:       targets.Dinner,
		SnackCount:        targets.Snack,
		TotalMeals:        plan.TotalMeals(),
		Status:            string(plan.Status()),
		GlobalPreferences: PreferencesJSON{Prefs: plan.GlobalPreferences()},
		CreatedAt:         plan.CreatedAt(),
		UpdatedAt:         plan.UpdatedAt(),
	}

	model.Items = make([]MealPlanItemModel, len(plan.Slots()))
	for i, slot := range plan.Slots() {
		model.Items[i] = *SlotToModel(slot)
	}
	return model
}

// SlotToModel converts a meal slot to its GORM model.
func SlotToModel(slot *mealplan.MealSlot) *MealPlanItemModel {
	return &MealPlanItemModel{
		ID:          slot.ID(),
		PlanID:      slot.PlanID(),
		Category:    string(slot.Category()),
		DayNumber:   slot.DayNumber(),
		Status:      string(slot.Status()),
		RecipeID:    slot.RecipeID(),
		Preferences: PreferencesJSON{Prefs: slot.CustomPreferences()},
		LockedAt:    slot.LockedAt(),
		CreatedAt:   slot.CreatedAt(),
		UpdatedAt:   slot.UpdatedAt(),
	}
}

// ModelToPlan rehydrates the plan aggregate from its GORM model. Slots keep
// their creation order.
func ModelToPlan(model *MealPlanModel) *mealplan.WeeklyMealPlan {
	slots := make([]*mealplan.MealSlot, len(model.Items))
	for i := range model.Items {
		slots[i] = ModelToSlot(&model.Items[i])
	}

	return mealplan.ReconstitutePlan(mealplan.PlanSnapshot{
		ID:          model.ID,
		UserID:      model.UserID,
		Name:        model.Name,
		Description: model.Description,
		StartDate:   model.StartDate,
		EndDate:     model.EndDate,
		Targets: mealplan.CategoryTargets{
			Breakfast: model.BreakfastCount,
			Lunch:     model.LunchCount,
			Dinner:    model.DinnerCount,
			Snack:     model.SnackCount,
		},
		TotalMeals:        model.TotalMeals,
		Status:            mealplan.PlanStatus(model.Status),
		GlobalPreferences: model.GlobalPreferences.Prefs,
		Slots:             slots,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	})
}

// ModelToSlot rehydrates a meal slot from its GORM model.
func ModelToSlot(model *MealPlanItemModel) *mealplan.MealSlot {
	return mealplan.ReconstituteSlot(mealplan.SlotSnapshot{
		ID:                model.ID,
		PlanID:            model.PlanID,
		Category:          mealplan.Category(model.Category),
		DayNumber:         model.DayNumber,
		Status:            mealplan.SlotStatus(model.Status),
		RecipeID:          model.RecipeID,
		CustomPreferences: model.Preferences.Prefs,
		LockedAt:          model.LockedAt,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	})
}

// RecipeToModel converts a recipe entity to its GORM model.
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	model := &RecipeModel{
		ID:              r.ID(),
		UserID:          r.UserID(),
		Name:            r.Name(),
		Description:     r.Description(),
		Ingredients:     IngredientsJSON(r.Ingredients()),
		Instructions:    InstructionsJSON(r.Instructions()),
		PrepTimeMinutes: r.PrepTimeMinutes(),
		CookTimeMinutes: r.CookTimeMinutes(),
		Servings:        r.Servings(),
		Difficulty:      string(r.Difficulty()),
		CuisineType:     r.CuisineType(),
		MealType:        r.MealType(),
		Tags:            StringSlice(r.Tags()),
		IsSaved:         r.IsSaved(),
		AIModel:         r.AIModel(),
		CreatedAt:       r.CreatedAt(),
	}
	if n := r.Nutrition(); n != nil {
		model.Nutrition = NutritionJSON(*n)
	}
	return model
}

// ModelToRecipe rehydrates a recipe entity from its GORM model.
func ModelToRecipe(model *RecipeModel) *recipe.Recipe {
	nutrition := recipe.NutritionInfo(model.Nutrition)
	return recipe.Reconstitute(recipe.Snapshot{
		ID:              model.ID,
		UserID:          model.UserID,
		Name:            model.Name,
		Description:     model.Description,
		Ingredients:     model.Ingredients,
		Instructions:    model.Instructions,
		Nutrition:       &nutrition,
		PrepTimeMinutes: model.PrepTimeMinutes,
		CookTimeMinutes: model.CookTimeMinutes,
		Servings:        model.Servings,
		Difficulty:      recipe.DifficultyLevel(model.Difficulty),
		CuisineType:     model.CuisineType,
		MealType:        model.MealType,
		Tags:            model.Tags,
		IsSaved:         model.IsSaved,
		AIModel:         model.AIModel,
		CreatedAt:       model.CreatedAt,
	})
}

// ListToModel converts a shopping list entity to its GORM model.
func ListToModel(list *shoppinglist.ShoppingList) *ShoppingListModel {
	return &ShoppingListModel{
		ID:           list.ID(),
		PlanID:       list.PlanID(),
		UserID:       list.UserID(),
		Ingredients:  ListItemsJSON(list.Ingredients()),
		TotalItems:   list.TotalItems(),
		CheckedItems: list.CheckedItems(),
		CreatedAt:    list.CreatedAt(),
		UpdatedAt:    list.UpdatedAt(),
	}
}

// ModelToList rehydrates a shopping list entity from its GORM model.
func ModelToList(model *ShoppingListModel) *shoppinglist.ShoppingList {
	return shoppinglist.ReconstituteList(shoppinglist.ListSnapshot{
		ID:           model.ID,
		PlanID:       model.PlanID,
		UserID:       model.UserID,
		Ingredients:  model.Ingredients,
		TotalItems:   model.TotalItems,
		CheckedItems: model.CheckedItems,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	})
}
