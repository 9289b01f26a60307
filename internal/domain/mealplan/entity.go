// Package mealplan contains the weekly meal-plan aggregate: the plan entity,
// its meal slots and the slot lifecycle state machine.
package mealplan

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxMealsPerPlan caps total meals at 4 categories x 7 days.
	MaxMealsPerPlan = 28
	// MaxMealsPerCategory caps each category at one meal per day.
	MaxMealsPerCategory = 7
	// DaysPerWeek is the number of days meals are distributed across.
	DaysPerWeek = 7
)

// PlanSpec is the creation request for a weekly meal plan.
type PlanSpec struct {
	Name              string
	Description       string
	StartDate         time.Time
	EndDate           time.Time
	Targets           CategoryTargets
	GlobalPreferences *Preferences
}

// WeeklyMealPlan is the aggregate root owning meal slots and (1:1) an
// eventual shopping list. It is created once and mutated only through
// status transitions and preference edits.
type WeeklyMealPlan struct {
	id                uuid.UUID
	userID            uuid.UUID
	name              string
	description       string
	startDate         time.Time
	endDate           time.Time
	targets           CategoryTargets
	totalMeals        int
	status            PlanStatus
	globalPreferences *Preferences
	slots             []*MealSlot
	createdAt         time.Time
	updatedAt         time.Time
}

// NewWeeklyMealPlan validates the given PlanSpec and creates the plan together with
// its slots, all in pending status. Every violated constraint is reported in
// one ValidationError. Slots are distributed round-robin within each
// category: the i-th slot of a category lands on day (i mod 7)+1.
func NewWeeklyMealPlan(userID uuid.UUID, spec PlanSpec) (*WeeklyMealPlan, error) {
	var violations []string

	name := strings.TrimSpace(spec.Name)
	if name == "" {
		violations = append(violations, "name must not be empty")
	} else if len(name) > 255 {
		violations = append(violations, "name must not exceed 255 characters")
	}

	total := spec.Targets.Total()
	if total < 1 || total > MaxMealsPerPlan {
		violations = append(violations, fmt.Sprintf("total meal count must be between 1 and %d, got %d", MaxMealsPerPlan, total))
	}
	for _, c := range Categories() {
		count := spec.Targets.Count(c)
		if count < 0 || count > MaxMealsPerCategory {
			violations = append(violations, fmt.Sprintf("%s count must be between 0 and %d, got %d", c, MaxMealsPerCategory, count))
		}
	}

	if !spec.EndDate.After(spec.StartDate) {
		violations = append(violations, "end date must be after start date")
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	now := time.Now()
	plan := &WeeklyMealPlan{
		id:                uuid.New(),
		userID:            userID,
		name:              name,
		description:       spec.Description,
		startDate:         spec.StartDate,
		endDate:           spec.EndDate,
		targets:           spec.Targets,
		totalMeals:        total,
		status:            PlanStatusInProgress,
		globalPreferences: spec.GlobalPreferences,
	}
	plan.createdAt = now
	plan.updatedAt = now

	for _, c := range Categories() {
		for i := 0; i < spec.Targets.Count(c); i++ {
			day := (i % DaysPerWeek) + 1
			plan.slots = append(plan.slots, newMealSlot(plan.id, c, day))
		}
	}

	return plan, nil
}

// PlanSnapshot carries the persisted state of a plan for rehydration.
type PlanSnapshot struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Name              string
	Description       string
	StartDate         time.Time
	EndDate           time.Time
	Targets           CategoryTargets
	TotalMeals        int
	Status            PlanStatus
	GlobalPreferences *Preferences
	Slots             []*MealSlot
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ReconstitutePlan rebuilds a plan from its persisted snapshot.
func ReconstitutePlan(s PlanSnapshot) *WeeklyMealPlan {
	return &WeeklyMealPlan{
		id:                s.ID,
		userID:            s.UserID,
		name:              s.Name,
		description:       s.Description,
		startDate:         s.StartDate,
		endDate:           s.EndDate,
		targets:           s.Targets,
		totalMeals:        s.TotalMeals,
		status:            s.Status,
		globalPreferences: s.GlobalPreferences,
		slots:             s.Slots,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
	}
}

// Slot returns the slot with the given ID.
func (p *WeeklyMealPlan) Slot(slotID uuid.UUID) (*MealSlot, error) {
	for _, s := range p.slots {
		if s.id == slotID {
			return s, nil
		}
	}
	return nil, ErrSlotNotFound
}

// SlotsByCategory returns the plan's slots for one category in creation order.
func (p *WeeklyMealPlan) SlotsByCategory(c Category) []*MealSlot {
	var out []*MealSlot
	for _, s := range p.slots {
		if s.category == c {
			out = append(out, s)
		}
	}
	return out
}

// PendingSlots returns slots still in pending status, in creation order.
func (p *WeeklyMealPlan) PendingSlots() []*MealSlot {
	var out []*MealSlot
	for _, s := range p.slots {
		if s.status == SlotStatusPending {
			out = append(out, s)
		}
	}
	return out
}

// IsCategoryComplete reports whether every slot of a category is locked.
// A category with no slots is never considered complete.
func (p *WeeklyMealPlan) IsCategoryComplete(c Category) bool {
	slots := p.SlotsByCategory(c)
	if len(slots) == 0 {
		return false
	}
	for _, s := range slots {
		if s.status != SlotStatusLocked {
			return false
		}
	}
	return true
}

// IsComplete reports whether every slot in the plan is locked.
func (p *WeeklyMealPlan) IsComplete() bool {
	if len(p.slots) == 0 {
		return false
	}
	for _, s := range p.slots {
		if s.status != SlotStatusLocked {
			return false
		}
	}
	return true
}

// RefreshStatus re-derives the plan status from its slots: completed exactly
// when every slot is locked, otherwise back to in progress. Archived plans
// are left alone. Returns true when the status changed.
func (p *WeeklyMealPlan) RefreshStatus() bool {
	if p.status == PlanStatusArchived {
		return false
	}
	next := PlanStatusInProgress
	if p.IsComplete() {
		next = PlanStatusCompleted
	}
	if next == p.status {
		return false
	}
	p.status = next
	p.touch()
	return true
}

// NextCategoryToProcess evaluates categories in fixed priority order
// (breakfast, lunch, dinner, snack) and returns the first that has meals but
// is not fully locked. The second return is false when the plan is fully
// processed. This order is a recommendation; out-of-order generation is
// never rejected.
func (p *WeeklyMealPlan) NextCategoryToProcess() (Category, bool) {
	for _, c := range Categories() {
		if len(p.SlotsByCategory(c)) == 0 {
			continue
		}
		if !p.IsCategoryComplete(c) {
			return c, true
		}
	}
	return "", false
}

// Archive moves a completed plan to archived.
func (p *WeeklyMealPlan) Archive() error {
	if p.status != PlanStatusCompleted {
		return ErrPlanNotCompleted
	}
	p.status = PlanStatusArchived
	p.touch()
	return nil
}

// UpdateGlobalPreferences replaces the plan-level generation preferences.
func (p *WeeklyMealPlan) UpdateGlobalPreferences(prefs *Preferences) error {
	if p.status == PlanStatusArchived {
		return ErrPlanArchived
	}
	p.globalPreferences = prefs
	p.touch()
	return nil
}

func (p *WeeklyMealPlan) touch() {
	p.updatedAt = time.Now()
}

// ID returns the plan identifier.
func (p *WeeklyMealPlan) ID() uuid.UUID { return p.id }

// UserID returns the owning user's identifier.
func (p *WeeklyMealPlan) UserID() uuid.UUID { return p.userID }

// Name returns the plan name.
func (p *WeeklyMealPlan) Name() string { return p.name }

// Description returns the plan description.
func (p *WeeklyMealPlan) Description() string { return p.description }

// StartDate returns the first day covered by the plan.
func (p *WeeklyMealPlan) StartDate() time.Time { return p.startDate }

// EndDate returns the last day covered by the plan.
func (p *WeeklyMealPlan) EndDate() time.Time { return p.endDate }

// Targets returns the per-category meal counts fixed at creation.
func (p *WeeklyMealPlan) Targets() CategoryTargets { return p.targets }

// TotalMeals returns the total meal count fixed at creation.
func (p *WeeklyMealPlan) TotalMeals() int { return p.totalMeals }

// Status returns the plan lifecycle status.
func (p *WeeklyMealPlan) Status() PlanStatus { return p.status }

// GlobalPreferences returns the plan-level generation preferences, if any.
func (p *WeeklyMealPlan) GlobalPreferences() *Preferences { return p.globalPreferences }

// Slots returns all slots in creation order.
func (p *WeeklyMealPlan) Slots() []*MealSlot { return p.slots }

// CreatedAt returns when the plan was created.
func (p *WeeklyMealPlan) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns when the plan was last modified.
func (p *WeeklyMealPlan) UpdatedAt() time.Time { return p.updatedAt }
