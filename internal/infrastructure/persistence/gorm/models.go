// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bonpetite/planner/internal/domain/mealplan"
	"github.com/bonpetite/planner/internal/domain/recipe"
	"github.com/bonpetite/planner/internal/domain/shoppinglist"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealPlanModel represents the GORM model for weekly meal plans
type MealPlanModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID `gorm:"type:char(36);not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null"`

	// Per-category meal counts fixed at creation
	BreakfastCount int `gorm:"default:0"`
	LunchCount     int `gorm:"default:0"`
	DinnerCount    int `gorm:"default:0"`
	SnackCount     int `gorm:"default:0"`
	TotalMeals     int `gorm:"not null"`

	Status            string          `gorm:"type:varchar(20);default:'in_progress';index"`
	GlobalPreferences PreferencesJSON `gorm:"type:json"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	// Relationships
	Items []MealPlanItemModel `gorm:"foreignKey:PlanID"`
}

// MealPlanItemModel represents the GORM model for meal slots
type MealPlanItemModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	PlanID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Category  string    `gorm:"type:varchar(20);not null;index"`
	DayNumber int       `gorm:"not null"`

	Status      string          `gorm:"type:varchar(20);default:'pending';index"`
	RecipeID    *uuid.UUID      `gorm:"type:char(36);index"`
	Preferences PreferencesJSON `gorm:"type:json"`
	LockedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	Recipe *RecipeModel `gorm:"foreignKey:RecipeID"`
}

// RecipeModel represents the GORM model for generated recipes
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID `gorm:"type:char(36);not null;index"`
	Name        string    `gorm:"type:varchar(255);not null;index"`
	Description string    `gorm:"type:text;not null"`

	// Recipe details
	Ingredients  IngredientsJSON  `gorm:"type:json"`
	Instructions InstructionsJSON `gorm:"type:json"`
	Nutrition    NutritionJSON    `gorm:"type:json"`

	// Timing (stored in minutes)
	PrepTimeMinutes int `gorm:"column:prep_time_minutes;default:0"`
	CookTimeMinutes int `gorm:"column:cook_time_minutes;default:0"`
	Servings        int `gorm:"default:1"`

	// Categorization
	Difficulty  string      `gorm:"type:varchar(20);index"`
	CuisineType string      `gorm:"type:varchar(50);index"`
	MealType    string      `gorm:"type:varchar(20);index"`
	Tags        StringSlice `gorm:"type:json"`

	IsSaved bool   `gorm:"default:false;index"`
	AIModel string `gorm:"type:varchar(100)"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// ShoppingListModel represents the GORM model for shopping lists.
// A plan owns at most one list, enforced by the unique index.
type ShoppingListModel struct {
	ID     uuid.UUID `gorm:"type:char(36);primaryKey"`
	PlanID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex"`
	UserID uuid.UUID `gorm:"type:char(36);not null;index"`

	Ingredients  ListItemsJSON `gorm:"type:json"`
	TotalItems   int           `gorm:"default:0"`
	CheckedItems int           `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UsageCounterModel represents the GORM model for daily usage counters,
// used when Redis is not configured.
type UsageCounterModel struct {
	CounterKey string    `gorm:"type:varchar(255);primaryKey"`
	Count      int       `gorm:"default:0"`
	ExpiresAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// PreferencesJSON stores an optional preferences block as a JSON column.
// A nil Prefs round-trips as SQL NULL.
type PreferencesJSON struct {
	Prefs *mealplan.Preferences
}

// Scan implements the sql.Scanner interface
func (p *PreferencesJSON) Scan(value interface{}) error {
	if value == nil {
		p.Prefs = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PreferencesJSON", value)
	}

	if len(data) == 0 || string(data) == "null" {
		p.Prefs = nil
		return nil
	}

	var prefs mealplan.Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return err
	}
	p.Prefs = &prefs
	return nil
}

// Value implements the driver.Valuer interface
func (p PreferencesJSON) Value() (driver.Value, error) {
	if p.Prefs == nil {
		return nil, nil
	}
	return json.Marshal(p.Prefs)
}

// IngredientsJSON custom type for recipe ingredient lists in JSON
type IngredientsJSON []recipe.Ingredient

// Scan implements the sql.Scanner interface
func (i *IngredientsJSON) Scan(value interface{}) error {
	if value == nil {
		*i = IngredientsJSON{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	default:
		return fmt.Errorf("cannot scan %T into IngredientsJSON", value)
	}
}

// Value implements the driver.Valuer interface
func (i IngredientsJSON) Value() (driver.Value, error) {
	if len(i) == 0 {
		return "[]", nil
	}
	return json.Marshal(i)
}

// InstructionsJSON custom type for recipe instruction lists in JSON
type InstructionsJSON []recipe.Instruction

// Scan implements the sql.Scanner interface
func (i *InstructionsJSON) Scan(value interface{}) error {
	if value == nil {
		*i = InstructionsJSON{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	default:
		return fmt.Errorf("cannot scan %T into InstructionsJSON", value)
	}
}

// Value implements the driver.Valuer interface
func (i InstructionsJSON) Value() (driver.Value, error) {
	if len(i) == 0 {
		return "[]", nil
	}
	return json.Marshal(i)
}

// NutritionJSON custom type for the nutrition block in JSON
type NutritionJSON recipe.NutritionInfo

// Scan implements the sql.Scanner interface
func (n *NutritionJSON) Scan(value interface{}) error {
	if value == nil {
		*n = NutritionJSON{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, n)
	case string:
		return json.Unmarshal([]byte(v), n)
	default:
		return fmt.Errorf("cannot scan %T into NutritionJSON", value)
	}
}

// Value implements the driver.Valuer interface
func (n NutritionJSON) Value() (driver.Value, error) {
	return json.Marshal(n)
}

// ListItemsJSON custom type for consolidated shopping list items in JSON
type ListItemsJSON []shoppinglist.Ingredient

// Scan implements the sql.Scanner interface
func (l *ListItemsJSON) Scan(value interface{}) error {
	if value == nil {
		*l = ListItemsJSON{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into ListItemsJSON", value)
	}
}

// Value implements the driver.Valuer interface
func (l ListItemsJSON) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// BeforeCreate hook for MealPlanModel
func (m *MealPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealPlanItemModel
func (m *MealPlanItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for ShoppingListModel
func (s *ShoppingListModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (MealPlanModel) TableName() string {
	return "meal_plans"
}

func (MealPlanItemModel) TableName() string {
	return "meal_plan_items"
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (ShoppingListModel) TableName() string {
	return "shopping_lists"
}

func (UsageCounterModel) TableName() string {
	return "usage_counters"
}
