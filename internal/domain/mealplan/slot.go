package mealplan

import (
	"time"

	"github.com/google/uuid"
)

// MealSlot is one meal-plan item: a (category, day) placeholder that moves
// through pending -> generating -> generated -> locked. The recipe reference
// and the status move together: recipeID is set exactly when the slot is
// generated or locked.
type MealSlot struct {
	id                uuid.UUID
	planID            uuid.UUID
	category          Category
	dayNumber         int
	status            SlotStatus
	recipeID          *uuid.UUID
	customPreferences *Preferences
	lockedAt          *time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

func newMealSlot(planID uuid.UUID, category Category, dayNumber int) *MealSlot {
	now := time.Now()
	return &MealSlot{
		id:        uuid.New(),
		planID:    planID,
		category:  category,
		dayNumber: dayNumber,
		status:    SlotStatusPending,
		createdAt: now,
		updatedAt: now,
	}
}

// SlotSnapshot carries the persisted state of a slot for rehydration.
type SlotSnapshot struct {
	ID                uuid.UUID
	PlanID            uuid.UUID
	Category          Category
	DayNumber         int
	Status            SlotStatus
	RecipeID          *uuid.UUID
	CustomPreferences *Preferences
	LockedAt          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ReconstituteSlot rebuilds a slot from its persisted snapshot.
func ReconstituteSlot(s SlotSnapshot) *MealSlot {
	return &MealSlot{
		id:                s.ID,
		planID:            s.PlanID,
		category:          s.Category,
		dayNumber:         s.DayNumber,
		status:            s.Status,
		recipeID:          s.RecipeID,
		customPreferences: s.CustomPreferences,
		lockedAt:          s.LockedAt,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
	}
}

// BeginGeneration moves a pending slot into the transient generating state.
// The orchestrator calls this immediately before invoking the gateway.
func (s *MealSlot) BeginGeneration() error {
	if !CanTransition(s.status, SlotStatusGenerating) {
		return ErrInvalidSlotTransition
	}
	s.status = SlotStatusGenerating
	s.touch()
	return nil
}

// CompleteGeneration attaches a recipe and marks the slot generated.
func (s *MealSlot) CompleteGeneration(recipeID uuid.UUID) error {
	if !CanTransition(s.status, SlotStatusGenerated) {
		return ErrInvalidSlotTransition
	}
	s.status = SlotStatusGenerated
	s.recipeID = &recipeID
	s.touch()
	return nil
}

// FailGeneration reverts a generating slot to pending. A slot is never left
// in generating after a failed or aborted generation attempt.
func (s *MealSlot) FailGeneration() {
	if s.status == SlotStatusGenerating {
		s.status = SlotStatusPending
		s.recipeID = nil
		s.touch()
	}
}

// Lock confirms a generated slot. Locking anything other than a generated
// slot with an attached recipe fails the precondition.
func (s *MealSlot) Lock() error {
	if s.status != SlotStatusGenerated || s.recipeID == nil {
		return ErrSlotNotGenerated
	}
	now := time.Now()
	s.status = SlotStatusLocked
	s.lockedAt = &now
	s.touch()
	return nil
}

// Unlock returns a locked slot to generated, keeping the recipe attached.
func (s *MealSlot) Unlock() error {
	if s.status != SlotStatusLocked {
		return ErrSlotNotLocked
	}
	s.status = SlotStatusGenerated
	s.lockedAt = nil
	s.touch()
	return nil
}

// ResetForRegeneration discards the recipe association and returns the slot
// to pending so the normal generation flow can run again.
func (s *MealSlot) ResetForRegeneration() error {
	if s.status != SlotStatusGenerated && s.status != SlotStatusLocked {
		return ErrInvalidSlotTransition
	}
	s.status = SlotStatusPending
	s.recipeID = nil
	s.lockedAt = nil
	s.touch()
	return nil
}

// SetCustomPreferences stores resolved preferences on the slot.
func (s *MealSlot) SetCustomPreferences(prefs *Preferences) {
	s.customPreferences = prefs
	s.touch()
}

func (s *MealSlot) touch() {
	s.updatedAt = time.Now()
}

// ID returns the slot identifier.
func (s *MealSlot) ID() uuid.UUID { return s.id }

// PlanID returns the owning plan's identifier.
func (s *MealSlot) PlanID() uuid.UUID { return s.planID }

// Category returns the slot's meal category.
func (s *MealSlot) Category() Category { return s.category }

// DayNumber returns the slot's day in [1,7].
func (s *MealSlot) DayNumber() int { return s.dayNumber }

// Status returns the slot's lifecycle status.
func (s *MealSlot) Status() SlotStatus { return s.status }

// RecipeID returns the attached recipe, if any.
func (s *MealSlot) RecipeID() *uuid.UUID { return s.recipeID }

// CustomPreferences returns slot-level preference overrides, if any.
func (s *MealSlot) CustomPreferences() *Preferences { return s.customPreferences }

// LockedAt returns when the slot was locked, if it is.
func (s *MealSlot) LockedAt() *time.Time { return s.lockedAt }

// CreatedAt returns when the slot was created.
func (s *MealSlot) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns when the slot was last modified.
func (s *MealSlot) UpdatedAt() time.Time { return s.updatedAt }

// HasRecipe reports whether a recipe is attached (generated or locked).
func (s *MealSlot) HasRecipe() bool {
	return s.recipeID != nil && (s.status == SlotStatusGenerated || s.status == SlotStatusLocked)
}
