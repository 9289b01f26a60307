package planner

import (
	"context"

	"github.com/bonpetite/planner/internal/application/quota"
	"github.com/bonpetite/planner/internal/domain/mealplan"
	"github.com/bonpetite/planner/internal/ports/inbound"
	"github.com/bonpetite/planner/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BatchGenerateSlots generates recipes for several slots sequentially, in
// the order the slots were created. The daily quota is consumed one unit per
// attempted slot, checked immediately before each gateway call; when the
// quota runs out mid-batch the loop stops with LimitReached set and the
// remaining slots untouched. A single slot's failure never aborts the batch.
func (s *Service) BatchGenerateSlots(ctx context.Context, cmd inbound.BatchGenerateCommand) (*inbound.BatchGenerateResult, error) {
	plan, err := s.loadOwnedPlan(ctx, cmd.PlanID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	targets := s.resolveTargets(plan, cmd.SlotIDs)
	result := &inbound.BatchGenerateResult{Outcomes: make([]inbound.SlotOutcome, 0, len(targets))}

	s.logger.Info("Starting batch generation",
		zap.String("plan_id", plan.ID().String()),
		zap.Int("slot_count", len(targets)),
	)

	for _, slot := range targets {
		// A cancelled request keeps whatever finished so far.
		if ctx.Err() != nil {
			break
		}

		if slot.Status() != mealplan.SlotStatusPending {
			result.Outcomes = append(result.Outcomes, inbound.SlotOutcome{
				SlotID: slot.ID(),
				Status: inbound.OutcomeSkipped,
				Error:  "slot is not pending generation",
			})
			continue
		}

		allowed, err := s.limiter.CheckAndConsume(ctx, cmd.UserID, quota.CounterRecipeGeneration)
		if err != nil {
			return nil, errors.Wrap(err, "usage check failed")
		}
		if !allowed {
			result.LimitReached = true
			break
		}

		newRecipe, err := s.generateIntoSlot(ctx, plan, slot, cmd.Preferences[slot.ID()])
		if err != nil {
			result.Outcomes = append(result.Outcomes, inbound.SlotOutcome{
				SlotID: slot.ID(),
				Status: inbound.OutcomeFailed,
				Error:  err.Error(),
			})
			continue
		}

		recipeID := newRecipe.ID()
		result.Outcomes = append(result.Outcomes, inbound.SlotOutcome{
			SlotID:   slot.ID(),
			Status:   inbound.OutcomeSuccess,
			RecipeID: &recipeID,
		})
	}

	s.logger.Info("Batch generation finished",
		zap.String("plan_id", plan.ID().String()),
		zap.Int("attempted", len(result.Outcomes)),
		zap.Bool("limit_reached", result.LimitReached),
	)

	return result, nil
}

// resolveTargets picks the slots a batch will touch, preserving creation
// order. An empty SlotIDs list means every pending slot in the plan.
func (s *Service) resolveTargets(plan *mealplan.WeeklyMealPlan, slotIDs []uuid.UUID) []*mealplan.MealSlot {
	if len(slotIDs) == 0 {
		return plan.PendingSlots()
	}

	wanted := make(map[uuid.UUID]bool, len(slotIDs))
	for _, id := range slotIDs {
		wanted[id] = true
	}

	targets := make([]*mealplan.MealSlot, 0, len(slotIDs))
	for _, slot := range plan.Slots() {
		if wanted[slot.ID()] {
			targets = append(targets, slot)
		}
	}
	return targets
}
