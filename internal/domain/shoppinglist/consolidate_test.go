package shoppinglist

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidate(t *testing.T) {
	t.Run("SameNameAndUnit_MergeSummingQuantities", func(t *testing.T) {
		pastaID, saladID := uuid.New(), uuid.New()
		sources := []SourceIngredient{
			{Name: "Tomato", Quantity: 2, Unit: "piece", RecipeID: pastaID, RecipeName: "Pasta"},
			{Name: "tomato", Quantity: 3, Unit: "pieces", RecipeID: saladID, RecipeName: "Salad"},
		}

		items := Consolidate(sources)

		require.Len(t, items, 1)
		assert.Equal(t, "Tomato", items[0].Name, "first-seen casing is kept")
		assert.Equal(t, 5.0, items[0].Quantity)
		assert.Equal(t, "piece", items[0].Unit)
		assert.Equal(t, []string{"Pasta", "Salad"}, items[0].RecipeNames)
		assert.Equal(t, []uuid.UUID{pastaID, saladID}, items[0].RecipeIDs)
	})

	t.Run("UnitSynonyms_CollapseBeforeMerging", func(t *testing.T) {
		sources := []SourceIngredient{
			{Name: "Flour", Quantity: 1, Unit: "cups", RecipeName: "Pancakes"},
			{Name: "Flour", Quantity: 0.5, Unit: "cup", RecipeName: "Crepes"},
		}

		items := Consolidate(sources)

		require.Len(t, items, 1)
		assert.Equal(t, 1.5, items[0].Quantity)
		assert.Equal(t, "cup", items[0].Unit)
	})

	t.Run("DifferentUnits_StayDistinct", func(t *testing.T) {
		sources := []SourceIngredient{
			{Name: "Milk", Quantity: 1, Unit: "cup", RecipeName: "Pancakes"},
			{Name: "Milk", Quantity: 200, Unit: "ml", RecipeName: "Smoothie"},
		}

		items := Consolidate(sources)

		require.Len(t, items, 2)
		assert.Equal(t, items[0].Name, items[1].Name)
		assert.NotEqual(t, items[0].Unit, items[1].Unit)
	})

	t.Run("ContributingRecipes_DeduplicateByName", func(t *testing.T) {
		id := uuid.New()
		sources := []SourceIngredient{
			{Name: "Garlic", Quantity: 2, Unit: "clove", RecipeID: id, RecipeName: "Stir Fry"},
			{Name: "Garlic", Quantity: 1, Unit: "cloves", RecipeID: id, RecipeName: "Stir Fry"},
		}

		items := Consolidate(sources)

		require.Len(t, items, 1)
		assert.Equal(t, 3.0, items[0].Quantity)
		assert.Equal(t, []string{"Stir Fry"}, items[0].RecipeNames)
	})

	t.Run("ResultSortedByName", func(t *testing.T) {
		sources := []SourceIngredient{
			{Name: "Zucchini", Quantity: 1, Unit: "piece", RecipeName: "Ratatouille"},
			{Name: "Apple", Quantity: 2, Unit: "piece", RecipeName: "Pie"},
			{Name: "Milk", Quantity: 1, Unit: "cup", RecipeName: "Pie"},
		}

		items := Consolidate(sources)

		require.Len(t, items, 3)
		assert.Equal(t, "Apple", items[0].Name)
		assert.Equal(t, "Milk", items[1].Name)
		assert.Equal(t, "Zucchini", items[2].Name)
	})

	t.Run("BlankNames_AreDropped", func(t *testing.T) {
		sources := []SourceIngredient{
			{Name: "   ", Quantity: 1, Unit: "cup", RecipeName: "Mystery"},
			{Name: "Rice", Quantity: 1, Unit: "cup", RecipeName: "Bowl"},
		}

		items := Consolidate(sources)

		require.Len(t, items, 1)
		assert.Equal(t, "Rice", items[0].Name)
	})

	t.Run("EntriesAreCategorized", func(t *testing.T) {
		sources := []SourceIngredient{
			{Name: "Chicken Thighs", Quantity: 4, Unit: "piece", RecipeName: "Curry"},
			{Name: "Coconut Milk", Quantity: 1, Unit: "can", RecipeName: "Curry"},
			{Name: "Soy Sauce", Quantity: 2, Unit: "tbsp", RecipeName: "Curry"},
		}

		items := Consolidate(sources)

		require.Len(t, items, 3)
		byName := map[string]ItemCategory{}
		for _, item := range items {
			byName[item.Name] = item.Category
		}
		assert.Equal(t, CategoryPoultry, byName["Chicken Thighs"])
		assert.Equal(t, CategoryDairy, byName["Coconut Milk"])
		assert.Equal(t, CategoryPantry, byName["Soy Sauce"])
	})

	t.Run("SameInput_ProducesSameOutput", func(t *testing.T) {
		sources := []SourceIngredient{
			{Name: "Onion", Quantity: 1, Unit: "piece", RecipeName: "Soup"},
			{Name: "Carrot", Quantity: 3, Unit: "piece", RecipeName: "Soup"},
			{Name: "onion", Quantity: 2, Unit: "pieces", RecipeName: "Stew"},
		}

		first := Consolidate(sources)
		second := Consolidate(sources)

		assert.Equal(t, first, second)
	})

	t.Run("EmptyInput_YieldsEmptyList", func(t *testing.T) {
		assert.Empty(t, Consolidate(nil))
	})
}
