package shoppinglist

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// SourceIngredient is one ingredient instance drawn from a generated recipe,
// tagged with its origin for traceability in the consolidated list.
type SourceIngredient struct {
	Name       string
	Quantity   float64
	Unit       string
	RecipeID   uuid.UUID
	RecipeName string
}

// Consolidate merges ingredient instances from many recipes into one
// deduplicated, categorized list:
//
//  1. units are normalized through the synonym table
//  2. instances sharing (lower-cased trimmed name, normalized unit) merge,
//     summing quantities and unioning contributing recipes (dedup by name)
//  3. each merged entry is categorized by keyword match
//  4. the result is sorted lexicographically by ingredient name
//
// The displayed name keeps the casing of the first instance seen. The same
// input always produces the same output, so rebuilding a shopping list from
// an unchanged set of recipes is idempotent.
func Consolidate(sources []SourceIngredient) []Ingredient {
	type mergeKey struct {
		name string
		unit string
	}

	merged := make(map[mergeKey]*Ingredient)
	var order []mergeKey

	for _, src := range sources {
		name := strings.TrimSpace(src.Name)
		if name == "" {
			continue
		}
		key := mergeKey{
			name: strings.ToLower(name),
			unit: NormalizeUnit(src.Unit),
		}

		entry, ok := merged[key]
		if !ok {
			entry = &Ingredient{
				Name:     name,
				Unit:     key.unit,
				Category: Categorize(name),
			}
			merged[key] = entry
			order = append(order, key)
		}
		entry.Quantity += src.Quantity
		entry.addRecipe(src.RecipeID, src.RecipeName)
	}

	items := make([]Ingredient, 0, len(order))
	for _, key := range order {
		items = append(items, *merged[key])
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Unit < items[j].Unit
	})

	return items
}

// addRecipe records a contributing recipe, deduplicating by recipe name.
func (i *Ingredient) addRecipe(id uuid.UUID, name string) {
	for _, existing := range i.RecipeNames {
		if existing == name {
			return
		}
	}
	i.RecipeNames = append(i.RecipeNames, name)
	i.RecipeIDs = append(i.RecipeIDs, id)
}
