// Package shoppinglist contains the consolidated shopping-list aggregate and
// the ingredient consolidation algorithm that builds it from generated
// recipes.
package shoppinglist

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient is one consolidated, checkable shopping-list entry.
type Ingredient struct {
	Name        string       `json:"name"`
	Quantity    float64      `json:"quantity"`
	Unit        string       `json:"unit"`
	Category    ItemCategory `json:"category"`
	Checked     bool         `json:"checked"`
	RecipeNames []string     `json:"recipe_names"`
	RecipeIDs   []uuid.UUID  `json:"recipe_ids"`
}

// ShoppingList is the single consolidated list owned by one meal plan.
type ShoppingList struct {
	id           uuid.UUID
	planID       uuid.UUID
	userID       uuid.UUID
	ingredients  []Ingredient
	totalItems   int
	checkedItems int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewShoppingList creates the list for a plan from consolidated ingredients.
func NewShoppingList(planID, userID uuid.UUID, ingredients []Ingredient) *ShoppingList {
	now := time.Now()
	return &ShoppingList{
		id:           uuid.New(),
		planID:       planID,
		userID:       userID,
		ingredients:  ingredients,
		totalItems:   len(ingredients),
		createdAt:    now,
		updatedAt:    now,
	}
}

// ListSnapshot carries the persisted state of a shopping list.
type ListSnapshot struct {
	ID           uuid.UUID
	PlanID       uuid.UUID
	UserID       uuid.UUID
	Ingredients  []Ingredient
	TotalItems   int
	CheckedItems int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReconstituteList rebuilds a shopping list from its persisted snapshot.
func ReconstituteList(s ListSnapshot) *ShoppingList {
	return &ShoppingList{
		id:           s.ID,
		planID:       s.PlanID,
		userID:       s.UserID,
		ingredients:  s.Ingredients,
		totalItems:   s.TotalItems,
		checkedItems: s.CheckedItems,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}

// Replace swaps in a freshly consolidated ingredient set. Check-off progress
// is reset to zero; checks are not carried across consolidation runs.
func (l *ShoppingList) Replace(ingredients []Ingredient) {
	for i := range ingredients {
		ingredients[i].Checked = false
	}
	l.ingredients = ingredients
	l.totalItems = len(ingredients)
	l.checkedItems = 0
	l.updatedAt = time.Now()
}

// SetItemChecked flips the checked flag on the entry whose name exactly
// matches, then recomputes the checked count.
func (l *ShoppingList) SetItemChecked(name string, checked bool) error {
	found := false
	for i := range l.ingredients {
		if l.ingredients[i].Name == name {
			l.ingredients[i].Checked = checked
			found = true
			break
		}
	}
	if !found {
		return ErrIngredientNotFound
	}

	count := 0
	for _, ing := range l.ingredients {
		if ing.Checked {
			count++
		}
	}
	l.checkedItems = count
	l.updatedAt = time.Now()
	return nil
}

// GroupByCategory returns the ingredients bucketed by category for display,
// preserving the list's lexicographic order inside each bucket.
func (l *ShoppingList) GroupByCategory() map[ItemCategory][]Ingredient {
	grouped := make(map[ItemCategory][]Ingredient)
	for _, ing := range l.ingredients {
		grouped[ing.Category] = append(grouped[ing.Category], ing)
	}
	return grouped
}

// ID returns the list identifier.
func (l *ShoppingList) ID() uuid.UUID { return l.id }

// PlanID returns the owning plan's identifier.
func (l *ShoppingList) PlanID() uuid.UUID { return l.planID }

// UserID returns the owning user's identifier.
func (l *ShoppingList) UserID() uuid.UUID { return l.userID }

// Ingredients returns the consolidated entries in sorted order.
func (l *ShoppingList) Ingredients() []Ingredient { return l.ingredients }

// TotalItems returns the number of consolidated entries.
func (l *ShoppingList) TotalItems() int { return l.totalItems }

// CheckedItems returns how many entries are checked off.
func (l *ShoppingList) CheckedItems() int { return l.checkedItems }

// CreatedAt returns when the list was first created.
func (l *ShoppingList) CreatedAt() time.Time { return l.createdAt }

// UpdatedAt returns when the list was last modified.
func (l *ShoppingList) UpdatedAt() time.Time { return l.updatedAt }
