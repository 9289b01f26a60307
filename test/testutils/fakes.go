package testutils

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/bonpetite/planner/internal/domain/mealplan"
	"github.com/bonpetite/planner/internal/domain/recipe"
	"github.com/bonpetite/planner/internal/domain/shoppinglist"
	"github.com/bonpetite/planner/internal/ports/outbound"
)

// FakeMealPlanRepository is an in-memory MealPlanRepository with injectable
// errors.
type FakeMealPlanRepository struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]*mealplan.WeeklyMealPlan

	CreateErr     error
	UpdateErr     error
	UpdateSlotErr error
	FindErr       error

	SlotUpdates int
	LockedFinds int
}

// NewFakeMealPlanRepository creates an empty fake plan repository
func NewFakeMealPlanRepository() *FakeMealPlanRepository {
	return &FakeMealPlanRepository{plans: make(map[uuid.UUID]*mealplan.WeeklyMealPlan)}
}

func (f *FakeMealPlanRepository) Create(ctx context.Context, plan *mealplan.WeeklyMealPlan) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans[plan.ID()] = plan
	return nil
}

func (f *FakeMealPlanRepository) Update(ctx context.Context, plan *mealplan.WeeklyMealPlan) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans[plan.ID()] = plan
	return nil
}

func (f *FakeMealPlanRepository) UpdateSlot(ctx context.Context, slot *mealplan.MealSlot) error {
	if f.UpdateSlotErr != nil {
		return f.UpdateSlotErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SlotUpdates++
	return nil
}

func (f *FakeMealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.WeeklyMealPlan, error) {
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.plans[id], nil
}

func (f *FakeMealPlanRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*mealplan.WeeklyMealPlan, error) {
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	plan := f.plans[id]
	if plan == nil || plan.UserID() != userID {
		return nil, nil
	}
	return plan, nil
}

// FindByIDForUserLocked counts locked reads so tests can assert the
// serializing path is taken; the in-memory map needs no real row lock.
func (f *FakeMealPlanRepository) FindByIDForUserLocked(ctx context.Context, id, userID uuid.UUID) (*mealplan.WeeklyMealPlan, error) {
	f.mu.Lock()
	f.LockedFinds++
	f.mu.Unlock()
	return f.FindByIDForUser(ctx, id, userID)
}

func (f *FakeMealPlanRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*mealplan.WeeklyMealPlan, int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*mealplan.WeeklyMealPlan
	for _, p := range f.plans {
		if p.UserID() == userID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (f *FakeMealPlanRepository) FindCompletedBefore(ctx context.Context, userID uuid.UUID, cutoff time.Time) ([]*mealplan.WeeklyMealPlan, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*mealplan.WeeklyMealPlan
	for _, p := range f.plans {
		if p.UserID() == userID && p.Status() == mealplan.PlanStatusCompleted && p.CreatedAt().Before(cutoff) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *FakeMealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.plans, id)
	return nil
}

// FakeRecipeRepository is an in-memory RecipeRepository
type FakeRecipeRepository struct {
	mu      sync.RWMutex
	recipes map[uuid.UUID]*recipe.Recipe

	CreateErr error
	FindErr   error
}

// NewFakeRecipeRepository creates an empty fake recipe repository
func NewFakeRecipeRepository() *FakeRecipeRepository {
	return &FakeRecipeRepository{recipes: make(map[uuid.UUID]*recipe.Recipe)}
}

func (f *FakeRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipes[r.ID()] = r
	return nil
}

func (f *FakeRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.recipes[id], nil
}

func (f *FakeRecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error) {
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*recipe.Recipe
	for _, id := range ids {
		if r, ok := f.recipes[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeRecipeRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*recipe.Recipe, int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*recipe.Recipe
	for _, r := range f.recipes {
		if r.UserID() == userID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (f *FakeRecipeRepository) SetSaved(ctx context.Context, id, userID uuid.UUID, saved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.recipes[id]; ok && r.UserID() == userID {
		r.ToggleSaved(saved)
		return nil
	}
	return errors.New("recipe not found")
}

// FakeShoppingListRepository is an in-memory ShoppingListRepository
type FakeShoppingListRepository struct {
	mu    sync.RWMutex
	lists map[uuid.UUID]*shoppinglist.ShoppingList

	FindErr error
	SaveErr error
}

// NewFakeShoppingListRepository creates an empty fake list repository
func NewFakeShoppingListRepository() *FakeShoppingListRepository {
	return &FakeShoppingListRepository{lists: make(map[uuid.UUID]*shoppinglist.ShoppingList)}
}

func (f *FakeShoppingListRepository) FindByPlanID(ctx context.Context, planID uuid.UUID) (*shoppinglist.ShoppingList, error) {
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lists[planID], nil
}

func (f *FakeShoppingListRepository) Save(ctx context.Context, list *shoppinglist.ShoppingList) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[list.PlanID()] = list
	return nil
}

// FakeUsageStore counts increments in memory and records the keys and TTLs
// it saw.
type FakeUsageStore struct {
	mu     sync.Mutex
	counts map[string]int

	Keys []string
	TTLs []time.Duration
	Err  error
}

// NewFakeUsageStore creates an empty fake usage store
func NewFakeUsageStore() *FakeUsageStore {
	return &FakeUsageStore{counts: make(map[string]int)}
}

func (f *FakeUsageStore) IncrementWithCeiling(ctx context.Context, key string, ceiling int, ttl time.Duration) (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	f.Keys = append(f.Keys, key)
	f.TTLs = append(f.TTLs, ttl)
	return f.counts[key] <= ceiling, nil
}

// MockRecipeGenerator is a testify mock for the generation gateway
type MockRecipeGenerator struct {
	mock.Mock
}

func (m *MockRecipeGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (*outbound.GeneratedRecipe, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.GeneratedRecipe), args.Error(1)
}

// NoopTransactionManager runs the unit of work without a real transaction
type NoopTransactionManager struct{}

func (NoopTransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
