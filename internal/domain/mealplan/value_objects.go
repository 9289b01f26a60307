package mealplan

// Category is one of the four meal categories a slot can belong to.
type Category string

const (
	CategoryBreakfast Category = "breakfast"
	CategoryLunch     Category = "lunch"
	CategoryDinner    Category = "dinner"
	CategorySnack     Category = "snack"
)

// Categories returns all categories in their fixed processing priority order.
func Categories() []Category {
	return []Category{CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack}
}

// Valid reports whether the category is a member of the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack:
		return true
	}
	return false
}

// PlanStatus is the lifecycle status of a weekly meal plan.
type PlanStatus string

const (
	PlanStatusInProgress PlanStatus = "in_progress"
	PlanStatusCompleted  PlanStatus = "completed"
	PlanStatusArchived   PlanStatus = "archived"
)

// SlotStatus is the lifecycle status of a single meal slot.
type SlotStatus string

const (
	SlotStatusPending    SlotStatus = "pending"
	SlotStatusGenerating SlotStatus = "generating"
	SlotStatusGenerated  SlotStatus = "generated"
	SlotStatusLocked     SlotStatus = "locked"
)

// slotTransitions is the single source of truth for legal slot status moves.
// Regeneration of a generated or locked slot goes through an explicit reset
// back to pending rather than a direct transition.
var slotTransitions = map[SlotStatus][]SlotStatus{
	SlotStatusPending:    {SlotStatusGenerating},
	SlotStatusGenerating: {SlotStatusGenerated, SlotStatusPending},
	SlotStatusGenerated:  {SlotStatusLocked, SlotStatusPending},
	SlotStatusLocked:     {SlotStatusGenerated, SlotStatusPending},
}

// CanTransition reports whether moving from one slot status to another is legal.
func CanTransition(from, to SlotStatus) bool {
	for _, next := range slotTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CategoryTargets holds the per-category meal counts requested at plan creation.
type CategoryTargets struct {
	Breakfast int
	Lunch     int
	Dinner    int
	Snack     int
}

// Total returns the sum of all category counts.
func (t CategoryTargets) Total() int {
	return t.Breakfast + t.Lunch + t.Dinner + t.Snack
}

// Count returns the target count for one category.
func (t CategoryTargets) Count(c Category) int {
	switch c {
	case CategoryBreakfast:
		return t.Breakfast
	case CategoryLunch:
		return t.Lunch
	case CategoryDinner:
		return t.Dinner
	case CategorySnack:
		return t.Snack
	}
	return 0
}

// NutritionTargets are optional per-meal nutrition goals passed to generation.
type NutritionTargets struct {
	Calories *int     `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

// Preferences describe generation constraints at plan, slot or request level.
// All fields are optional; absence means "fall through to the next layer".
type Preferences struct {
	Allergies           []string          `json:"allergies,omitempty"`
	DietaryRestrictions []string          `json:"dietary_restrictions,omitempty"`
	CuisinePreferences  []string          `json:"cuisine_preferences,omitempty"`
	MaxPrepMinutes      *int              `json:"max_prep_minutes,omitempty"`
	Difficulty          *string           `json:"difficulty,omitempty"`
	NutritionTargets    *NutritionTargets `json:"nutrition_targets,omitempty"`
	VarietyHints        []string          `json:"variety_hints,omitempty"`
}

// MergePreferences resolves layered preferences field by field. Earlier
// layers take priority; a field set in a higher-priority layer wins even if
// later layers also set it, and unset fields fall through. Nil layers are
// skipped. Presence is decided by nil checks, never by zero values.
func MergePreferences(layers ...*Preferences) *Preferences {
	merged := &Preferences{}
	any := false
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		any = true
		if merged.Allergies == nil && layer.Allergies != nil {
			merged.Allergies = layer.Allergies
		}
		if merged.DietaryRestrictions == nil && layer.DietaryRestrictions != nil {
			merged.DietaryRestrictions = layer.DietaryRestrictions
		}
		if merged.CuisinePreferences == nil && layer.CuisinePreferences != nil {
			merged.CuisinePreferences = layer.CuisinePreferences
		}
		if merged.MaxPrepMinutes == nil && layer.MaxPrepMinutes != nil {
			merged.MaxPrepMinutes = layer.MaxPrepMinutes
		}
		if merged.Difficulty == nil && layer.Difficulty != nil {
			merged.Difficulty = layer.Difficulty
		}
		if merged.NutritionTargets == nil && layer.NutritionTargets != nil {
			merged.NutritionTargets = layer.NutritionTargets
		}
		if merged.VarietyHints == nil && layer.VarietyHints != nil {
			merged.VarietyHints = layer.VarietyHints
		}
	}
	if !any {
		return nil
	}
	return merged
}
