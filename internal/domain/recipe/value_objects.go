package recipe

// Value objects for the recipe domain.

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Validate validates the ingredient.
func (i Ingredient) Validate() error {
	if i.Name == "" {
		return ErrIngredientName
	}
	if i.Quantity < 0 {
		return ErrIngredientQuantity
	}
	return nil
}

// Instruction is one ordered preparation step.
type Instruction struct {
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
}

// Validate validates the instruction.
func (i Instruction) Validate() error {
	if i.Description == "" {
		return ErrInstructionEmpty
	}
	if len(i.Description) > 1000 {
		return ErrInstructionTooLong
	}
	return nil
}

// NutritionInfo contains per-serving nutrition totals.
type NutritionInfo struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber,omitempty"`
	Sodium   float64 `json:"sodium,omitempty"`
}

// DifficultyLevel represents recipe difficulty.
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// ParseDifficulty maps a free-form difficulty string onto the closed set,
// defaulting to medium.
func ParseDifficulty(s string) DifficultyLevel {
	switch DifficultyLevel(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return DifficultyLevel(s)
	default:
		return DifficultyMedium
	}
}
