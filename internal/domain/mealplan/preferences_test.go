package mealplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergePreferences(t *testing.T) {
	t.Run("AllLayersNil_ReturnsNil", func(t *testing.T) {
		assert.Nil(t, MergePreferences(nil, nil, nil))
		assert.Nil(t, MergePreferences())
	})

	t.Run("EarlierLayerWinsPerField", func(t *testing.T) {
		request := &Preferences{Allergies: []string{"peanuts"}}
		slot := &Preferences{
			Allergies:          []string{"shellfish"},
			CuisinePreferences: []string{"thai"},
		}
		plan := &Preferences{
			Allergies:           []string{"dairy"},
			DietaryRestrictions: []string{"vegetarian"},
		}

		merged := MergePreferences(request, slot, plan)

		require.NotNil(t, merged)
		assert.Equal(t, []string{"peanuts"}, merged.Allergies)
		assert.Equal(t, []string{"thai"}, merged.CuisinePreferences)
		assert.Equal(t, []string{"vegetarian"}, merged.DietaryRestrictions)
	})

	t.Run("EmptySliceIsPresence_NotAbsence", func(t *testing.T) {
		// An explicitly empty allergy list clears the plan-level allergies.
		request := &Preferences{Allergies: []string{}}
		plan := &Preferences{Allergies: []string{"dairy"}}

		merged := MergePreferences(request, nil, plan)

		require.NotNil(t, merged)
		assert.NotNil(t, merged.Allergies)
		assert.Empty(t, merged.Allergies)
	})

	t.Run("NilLayersAreSkipped", func(t *testing.T) {
		maxPrep := 30
		plan := &Preferences{MaxPrepMinutes: &maxPrep}

		merged := MergePreferences(nil, nil, plan)

		require.NotNil(t, merged)
		require.NotNil(t, merged.MaxPrepMinutes)
		assert.Equal(t, 30, *merged.MaxPrepMinutes)
	})

	t.Run("PointerFieldsFallThrough", func(t *testing.T) {
		easy := "easy"
		maxPrep := 45
		calories := 600
		slot := &Preferences{Difficulty: &easy}
		plan := &Preferences{
			MaxPrepMinutes:   &maxPrep,
			NutritionTargets: &NutritionTargets{Calories: &calories},
		}

		merged := MergePreferences(nil, slot, plan)

		require.NotNil(t, merged)
		assert.Equal(t, "easy", *merged.Difficulty)
		assert.Equal(t, 45, *merged.MaxPrepMinutes)
		require.NotNil(t, merged.NutritionTargets)
		assert.Equal(t, 600, *merged.NutritionTargets.Calories)
	})

	t.Run("SinglePopulatedLayer_PassesThrough", func(t *testing.T) {
		only := &Preferences{VarietyHints: []string{"avoid pasta twice"}}

		merged := MergePreferences(only)

		require.NotNil(t, merged)
		assert.Equal(t, []string{"avoid pasta twice"}, merged.VarietyHints)
	})
}
