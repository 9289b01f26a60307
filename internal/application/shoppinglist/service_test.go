package shoppinglist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/bonpetite/planner/internal/domain/mealplan"
	"github.com/bonpetite/planner/internal/domain/recipe"
	"github.com/bonpetite/planner/internal/ports/inbound"
	"github.com/bonpetite/planner/pkg/errors"
	"github.com/bonpetite/planner/test/testutils"
)

// ShoppingListServiceTestSuite exercises consolidation and check-off against
// in-memory fakes.
type ShoppingListServiceTestSuite struct {
	suite.Suite

	planRepo   *testutils.FakeMealPlanRepository
	recipeRepo *testutils.FakeRecipeRepository
	listRepo   *testutils.FakeShoppingListRepository
	service    inbound.ShoppingListService

	userID uuid.UUID
}

func (suite *ShoppingListServiceTestSuite) SetupTest() {
	suite.planRepo = testutils.NewFakeMealPlanRepository()
	suite.recipeRepo = testutils.NewFakeRecipeRepository()
	suite.listRepo = testutils.NewFakeShoppingListRepository()
	suite.userID = uuid.New()
	suite.service = NewService(suite.planRepo, suite.recipeRepo, suite.listRepo, zap.NewNop())
}

// seedPlanWithRecipes stores a plan whose first len(recipes) slots carry the
// given generated recipes.
func (suite *ShoppingListServiceTestSuite) seedPlanWithRecipes(recipes ...*recipe.Recipe) *mealplan.WeeklyMealPlan {
	plan := testutils.NewPlanBuilder().
		WithUser(suite.userID).
		WithTargets(0, 0, 7, 0).
		Build()
	require.LessOrEqual(suite.T(), len(recipes), len(plan.Slots()))

	for i, r := range recipes {
		require.NoError(suite.T(), suite.recipeRepo.Create(context.Background(), r))
		slot := plan.Slots()[i]
		require.NoError(suite.T(), slot.BeginGeneration())
		require.NoError(suite.T(), slot.CompleteGeneration(r.ID()))
	}
	require.NoError(suite.T(), suite.planRepo.Create(context.Background(), plan))
	return plan
}

func (suite *ShoppingListServiceTestSuite) TestBuildConsolidatesAcrossRecipes() {
	pasta := testutils.NewTestRecipe(suite.userID, "Pasta",
		recipe.Ingredient{Name: "Tomato", Quantity: 2, Unit: "piece"},
		recipe.Ingredient{Name: "Garlic", Quantity: 2, Unit: "clove"},
	)
	salad := testutils.NewTestRecipe(suite.userID, "Salad",
		recipe.Ingredient{Name: "tomato", Quantity: 3, Unit: "pieces"},
		recipe.Ingredient{Name: "Cucumber", Quantity: 1, Unit: "piece"},
	)
	plan := suite.seedPlanWithRecipes(pasta, salad)

	dto, err := suite.service.BuildOrRefreshShoppingList(context.Background(), plan.ID(), suite.userID)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), plan.ID(), dto.PlanID)
	require.Len(suite.T(), dto.Ingredients, 3)
	assert.Equal(suite.T(), 3, dto.TotalItems)
	assert.Equal(suite.T(), 0, dto.CheckedItems)

	// Sorted by name: Cucumber, Garlic, Tomato.
	assert.Equal(suite.T(), "Cucumber", dto.Ingredients[0].Name)
	assert.Equal(suite.T(), "Garlic", dto.Ingredients[1].Name)
	assert.Equal(suite.T(), "Tomato", dto.Ingredients[2].Name)
	assert.Equal(suite.T(), 5.0, dto.Ingredients[2].Quantity)
	assert.ElementsMatch(suite.T(), []string{"Pasta", "Salad"}, dto.Ingredients[2].RecipeNames)

	assert.NotEmpty(suite.T(), dto.ByCategory)
}

func (suite *ShoppingListServiceTestSuite) TestBuildWithoutGeneratedMealsFails() {
	plan := testutils.NewPlanBuilder().
		WithUser(suite.userID).
		WithTargets(1, 1, 1, 0).
		Build()
	require.NoError(suite.T(), suite.planRepo.Create(context.Background(), plan))

	_, err := suite.service.BuildOrRefreshShoppingList(context.Background(), plan.ID(), suite.userID)

	assert.True(suite.T(), errors.Is(err, errors.CodeNoGeneratedMeals))
}

func (suite *ShoppingListServiceTestSuite) TestBuildSkipsSlotsWithoutRecipes() {
	// One generated slot, six still pending: only the generated recipe counts.
	omelette := testutils.NewTestRecipe(suite.userID, "Omelette",
		recipe.Ingredient{Name: "Eggs", Quantity: 3, Unit: "piece"},
	)
	plan := suite.seedPlanWithRecipes(omelette)

	dto, err := suite.service.BuildOrRefreshShoppingList(context.Background(), plan.ID(), suite.userID)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), dto.Ingredients, 1)
	assert.Equal(suite.T(), "Eggs", dto.Ingredients[0].Name)
}

func (suite *ShoppingListServiceTestSuite) TestRefreshResetsCheckOffProgress() {
	pasta := testutils.NewTestRecipe(suite.userID, "Pasta",
		recipe.Ingredient{Name: "Tomato", Quantity: 2, Unit: "piece"},
	)
	plan := suite.seedPlanWithRecipes(pasta)

	_, err := suite.service.BuildOrRefreshShoppingList(context.Background(), plan.ID(), suite.userID)
	require.NoError(suite.T(), err)
	checked, err := suite.service.SetIngredientChecked(context.Background(), plan.ID(), suite.userID, "Tomato", true)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 1, checked.CheckedItems)

	rebuilt, err := suite.service.BuildOrRefreshShoppingList(context.Background(), plan.ID(), suite.userID)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, rebuilt.CheckedItems)
	for _, ing := range rebuilt.Ingredients {
		assert.False(suite.T(), ing.Checked)
	}
}

func (suite *ShoppingListServiceTestSuite) TestRebuildIsIdempotent() {
	pasta := testutils.NewTestRecipe(suite.userID, "Pasta",
		recipe.Ingredient{Name: "Tomato", Quantity: 2, Unit: "piece"},
		recipe.Ingredient{Name: "Basil", Quantity: 1, Unit: "bunch"},
	)
	plan := suite.seedPlanWithRecipes(pasta)

	first, err := suite.service.BuildOrRefreshShoppingList(context.Background(), plan.ID(), suite.userID)
	require.NoError(suite.T(), err)
	second, err := suite.service.BuildOrRefreshShoppingList(context.Background(), plan.ID(), suite.userID)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), first.ID, second.ID, "the plan keeps its single list")
	assert.Equal(suite.T(), first.Ingredients, second.Ingredients)
}

func (suite *ShoppingListServiceTestSuite) TestGetShoppingList() {
	pasta := testutils.NewTestRecipe(suite.userID, "Pasta",
		recipe.Ingredient{Name: "Tomato", Quantity: 2, Unit: "piece"},
	)
	plan := suite.seedPlanWithRecipes(pasta)

	// Nothing built yet.
	_, err := suite.service.GetShoppingList(context.Background(), plan.ID(), suite.userID)
	assert.True(suite.T(), errors.Is(err, errors.CodeNotFound))

	built, err := suite.service.BuildOrRefreshShoppingList(context.Background(), plan.ID(), suite.userID)
	require.NoError(suite.T(), err)

	dto, err := suite.service.GetShoppingList(context.Background(), plan.ID(), suite.userID)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), built.ID, dto.ID)
	assert.Equal(suite.T(), built.Ingredients, dto.Ingredients)

	// Foreign plan looks like a missing one.
	_, err = suite.service.GetShoppingList(context.Background(), plan.ID(), uuid.New())
	assert.True(suite.T(), errors.Is(err, errors.CodeNotFound))
}

func (suite *ShoppingListServiceTestSuite) TestSetIngredientChecked() {
	pasta := testutils.NewTestRecipe(suite.userID, "Pasta",
		recipe.Ingredient{Name: "Tomato", Quantity: 2, Unit: "piece"},
		recipe.Ingredient{Name: "Basil", Quantity: 1, Unit: "bunch"},
	)
	plan := suite.seedPlanWithRecipes(pasta)
	_, err := suite.service.BuildOrRefreshShoppingList(context.Background(), plan.ID(), suite.userID)
	require.NoError(suite.T(), err)

	dto, err := suite.service.SetIngredientChecked(context.Background(), plan.ID(), suite.userID, "Basil", true)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, dto.CheckedItems)

	dto, err = suite.service.SetIngredientChecked(context.Background(), plan.ID(), suite.userID, "Basil", false)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, dto.CheckedItems)
}

func (suite *ShoppingListServiceTestSuite) TestSetIngredientCheckedNotFoundCases() {
	pasta := testutils.NewTestRecipe(suite.userID, "Pasta")
	plan := suite.seedPlanWithRecipes(pasta)

	// No list built yet.
	_, err := suite.service.SetIngredientChecked(context.Background(), plan.ID(), suite.userID, "Salt", true)
	assert.True(suite.T(), errors.Is(err, errors.CodeNotFound))

	_, err = suite.service.BuildOrRefreshShoppingList(context.Background(), plan.ID(), suite.userID)
	require.NoError(suite.T(), err)

	// Unknown ingredient name.
	_, err = suite.service.SetIngredientChecked(context.Background(), plan.ID(), suite.userID, "Caviar", true)
	assert.True(suite.T(), errors.Is(err, errors.CodeNotFound))

	// Foreign plan looks like a missing one.
	_, err = suite.service.SetIngredientChecked(context.Background(), plan.ID(), uuid.New(), "Salt", true)
	assert.True(suite.T(), errors.Is(err, errors.CodeNotFound))
}

func TestShoppingListServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ShoppingListServiceTestSuite))
}
