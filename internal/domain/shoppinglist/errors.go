package shoppinglist

import "errors"

// Domain errors for shopping-list operations

var (
	ErrNoGeneratedMeals   = errors.New("plan has no generated meals to consolidate")
	ErrIngredientNotFound = errors.New("ingredient not found in shopping list")
)
