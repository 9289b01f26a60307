package mealplan

import (
	"errors"
	"strings"
)

// Domain errors for meal-plan operations

var (
	// State transition errors
	ErrInvalidSlotTransition = errors.New("invalid meal slot status transition")
	ErrSlotNotGenerated      = errors.New("slot must be generated with a recipe before it can be locked")
	ErrSlotNotLocked         = errors.New("slot is not locked")
	ErrPlanNotCompleted      = errors.New("only completed plans can be archived")
	ErrPlanArchived          = errors.New("cannot modify an archived plan")

	// Lookup errors
	ErrSlotNotFound = errors.New("meal slot not found in plan")
)

// ValidationError collects every constraint violated by a create request so
// callers see all problems at once, not just the first.
type ValidationError struct {
	Violations []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// IsValidationError reports whether err is a plan validation error and
// returns it if so.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
