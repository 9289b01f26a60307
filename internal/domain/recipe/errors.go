package recipe

import "errors"

// Domain errors for recipe creation

var (
	ErrMissingName        = errors.New("recipe name is required")
	ErrNameTooLong        = errors.New("recipe name must not exceed 255 characters")
	ErrMissingDescription = errors.New("recipe description is required")
	ErrNoIngredients      = errors.New("recipe must have at least one ingredient")
	ErrNoInstructions     = errors.New("recipe must have at least one instruction")
	ErrMissingNutrition   = errors.New("recipe must include nutrition totals")
	ErrInvalidServings    = errors.New("servings must be greater than 0")

	ErrIngredientName     = errors.New("ingredient name is required")
	ErrIngredientQuantity = errors.New("ingredient quantity cannot be negative")
	ErrInstructionEmpty   = errors.New("instruction description is required")
	ErrInstructionTooLong = errors.New("instruction description too long")
)
