// Package planner provides the application layer for weekly meal-plan
// orchestration: plan creation, slot generation, completion aggregation and
// housekeeping.
package planner

import (
	"context"
	"time"

	"github.com/bonpetite/planner/internal/application/quota"
	"github.com/bonpetite/planner/internal/domain/mealplan"
	"github.com/bonpetite/planner/internal/domain/recipe"
	"github.com/bonpetite/planner/internal/ports/inbound"
	"github.com/bonpetite/planner/internal/ports/outbound"
	"github.com/bonpetite/planner/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UsageLimiter is the quota surface the orchestrator consults before each
// generation call.
type UsageLimiter interface {
	CheckAndConsume(ctx context.Context, userID uuid.UUID, counterName string) (bool, error)
	DailyLimit() int
}

// Service implements the meal-plan orchestration use cases.
type Service struct {
	planRepo   outbound.MealPlanRepository
	recipeRepo outbound.RecipeRepository
	generator  outbound.RecipeGenerator
	limiter    UsageLimiter
	tx         outbound.TransactionManager
	logger     *zap.Logger
}

// NewService creates a new planner service.
func NewService(
	planRepo outbound.MealPlanRepository,
	recipeRepo outbound.RecipeRepository,
	generator outbound.RecipeGenerator,
	limiter UsageLimiter,
	tx outbound.TransactionManager,
	logger *zap.Logger,
) inbound.PlannerService {
	return &Service{
		planRepo:   planRepo,
		recipeRepo: recipeRepo,
		generator:  generator,
		limiter:    limiter,
		tx:         tx,
		logger:     logger.Named("planner-service"),
	}
}

// CreatePlan validates the request and persists the plan together with its
// slots, all pending. Every violated constraint is reported in one
// validation error.
func (s *Service) CreatePlan(ctx context.Context, cmd inbound.CreatePlanCommand) (*inbound.MealPlanDTO, error) {
	s.logger.Info("Creating meal plan",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("name", cmd.Name),
	)

	plan, err := mealplan.NewWeeklyMealPlan(cmd.UserID, mealplan.PlanSpec{
		Name:        cmd.Name,
		Description: cmd.Description,
		StartDate:   cmd.StartDate,
		EndDate:     cmd.EndDate,
		Targets: mealplan.CategoryTargets{
			Breakfast: cmd.BreakfastCount,
			Lunch:     cmd.LunchCount,
			Dinner:    cmd.DinnerCount,
			Snack:     cmd.SnackCount,
		},
		GlobalPreferences: cmd.GlobalPreferences,
	})
	if err != nil {
		if ve, ok := mealplan.IsValidationError(err); ok {
			return nil, errors.NewValidationError(ve.Violations...)
		}
		return nil, errors.Wrap(err, "failed to create plan")
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, errors.NewDatabaseError("create meal plan", err)
	}

	s.logger.Info("Meal plan created",
		zap.String("plan_id", plan.ID().String()),
		zap.Int("total_meals", plan.TotalMeals()),
	)

	return planToDTO(plan), nil
}

// GetPlan loads a plan with its slots, scoped to the owner.
func (s *Service) GetPlan(ctx context.Context, planID, userID uuid.UUID) (*inbound.MealPlanDTO, error) {
	plan, err := s.loadOwnedPlan(ctx, planID, userID)
	if err != nil {
		return nil, err
	}
	return planToDTO(plan), nil
}

// GenerateSlot runs the full generation flow for one slot: preference
// resolution, quota consumption, the pending -> generating transition, the
// gateway call, payload validation and recipe attachment. Any failure reverts
// the slot to pending before the error surfaces; the caller never has to
// reset state.
func (s *Service) GenerateSlot(ctx context.Context, cmd inbound.GenerateSlotCommand) (*inbound.SlotDTO, error) {
	plan, err := s.loadOwnedPlan(ctx, cmd.PlanID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	slot, err := plan.Slot(cmd.SlotID)
	if err != nil {
		return nil, errors.NewNotFoundError("Meal slot")
	}

	// Precondition before quota: a slot that cannot be generated must not
	// cost the user a unit.
	if slot.Status() != mealplan.SlotStatusPending {
		return nil, errors.NewPreconditionFailedError("slot is not pending generation")
	}
	if err := s.consumeQuota(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	if _, err := s.generateIntoSlot(ctx, plan, slot, cmd.Preferences); err != nil {
		return nil, err
	}

	return slotToDTO(slot), nil
}

// RegenerateSlot discards the slot's current recipe association, returns it
// to pending and re-enters the normal generation flow.
func (s *Service) RegenerateSlot(ctx context.Context, cmd inbound.GenerateSlotCommand) (*inbound.SlotDTO, error) {
	plan, err := s.loadOwnedPlan(ctx, cmd.PlanID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	slot, err := plan.Slot(cmd.SlotID)
	if err != nil {
		return nil, errors.NewNotFoundError("Meal slot")
	}

	// Quota denial must leave the slot's current recipe untouched, so the
	// unit is consumed before the reset.
	if slot.Status() != mealplan.SlotStatusGenerated && slot.Status() != mealplan.SlotStatusLocked {
		return nil, errors.NewPreconditionFailedError("only generated or locked slots can be regenerated")
	}
	if err := s.consumeQuota(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	if err := slot.ResetForRegeneration(); err != nil {
		return nil, errors.NewPreconditionFailedError("only generated or locked slots can be regenerated")
	}
	if err := s.planRepo.UpdateSlot(ctx, slot); err != nil {
		return nil, errors.NewDatabaseError("reset slot", err)
	}
	// Regeneration may have unlocked the last locked slot of a completed plan.
	if plan.RefreshStatus() {
		if err := s.planRepo.Update(ctx, plan); err != nil {
			return nil, errors.NewDatabaseError("update plan status", err)
		}
	}

	if _, err := s.generateIntoSlot(ctx, plan, slot, cmd.Preferences); err != nil {
		return nil, err
	}

	return slotToDTO(slot), nil
}

// LockSlot locks or unlocks a slot and recomputes category and plan
// completion under one transaction, so two concurrent lock calls cannot
// both miss the final promotion to completed.
func (s *Service) LockSlot(ctx context.Context, cmd inbound.LockSlotCommand) (*inbound.LockResult, error) {
	var result *inbound.LockResult

	err := s.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		// The row-locked read serializes concurrent lock calls on one plan;
		// without it two callers locking the last two slots can each see the
		// other slot as unlocked and neither promotes the plan.
		plan, err := s.planRepo.FindByIDForUserLocked(txCtx, cmd.PlanID, cmd.UserID)
		if err != nil {
			return errors.NewDatabaseError("find meal plan", err)
		}
		if plan == nil {
			return errors.NewNotFoundError("Meal plan")
		}

		slot, err := plan.Slot(cmd.SlotID)
		if err != nil {
			return errors.NewNotFoundError("Meal slot")
		}

		if cmd.Locked {
			if err := slot.Lock(); err != nil {
				return errors.NewPreconditionFailedError("slot must be generated with a recipe before locking")
			}
		} else {
			if err := slot.Unlock(); err != nil {
				return errors.NewPreconditionFailedError("slot is not locked")
			}
		}

		plan.RefreshStatus()

		if err := s.planRepo.Update(txCtx, plan); err != nil {
			return errors.NewDatabaseError("update plan", err)
		}

		result = &inbound.LockResult{
			Slot:             slotToDTO(slot),
			CategoryComplete: plan.IsCategoryComplete(slot.Category()),
			PlanComplete:     plan.IsComplete(),
			PlanStatus:       plan.Status(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot lock changed",
		zap.String("plan_id", cmd.PlanID.String()),
		zap.String("slot_id", cmd.SlotID.String()),
		zap.Bool("locked", cmd.Locked),
		zap.Bool("plan_complete", result.PlanComplete),
	)

	return result, nil
}

// GetNextCategoryToProcess returns the first category, in fixed priority
// order, that has meals but is not fully locked. The boolean is false when
// the plan is fully processed.
func (s *Service) GetNextCategoryToProcess(ctx context.Context, planID, userID uuid.UUID) (mealplan.Category, bool, error) {
	plan, err := s.loadOwnedPlan(ctx, planID, userID)
	if err != nil {
		return "", false, err
	}
	next, ok := plan.NextCategoryToProcess()
	return next, ok, nil
}

// ArchiveOldPlans moves the user's completed plans older than the cutoff to
// archived. Slots are untouched.
func (s *Service) ArchiveOldPlans(ctx context.Context, userID uuid.UUID, daysOld int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -daysOld)

	plans, err := s.planRepo.FindCompletedBefore(ctx, userID, cutoff)
	if err != nil {
		return 0, errors.NewDatabaseError("find completed plans", err)
	}

	archived := 0
	for _, plan := range plans {
		if err := plan.Archive(); err != nil {
			continue
		}
		if err := s.planRepo.Update(ctx, plan); err != nil {
			return archived, errors.NewDatabaseError("archive plan", err)
		}
		archived++
	}

	s.logger.Info("Archived old plans",
		zap.String("user_id", userID.String()),
		zap.Int("count", archived),
	)

	return archived, nil
}

// generateIntoSlot performs one generation attempt against an owned plan's
// slot. On success the recipe is persisted and attached; on any failure the
// slot is reverted to pending and a generation error is returned.
func (s *Service) generateIntoSlot(ctx context.Context, plan *mealplan.WeeklyMealPlan, slot *mealplan.MealSlot, requestPrefs *mealplan.Preferences) (*recipe.Recipe, error) {
	// Field-by-field priority: request > slot-stored > plan-global.
	effective := mealplan.MergePreferences(requestPrefs, slot.CustomPreferences(), plan.GlobalPreferences())

	if err := slot.BeginGeneration(); err != nil {
		return nil, errors.NewPreconditionFailedError("slot is not pending generation")
	}
	if err := s.planRepo.UpdateSlot(ctx, slot); err != nil {
		slot.FailGeneration()
		return nil, errors.NewDatabaseError("update slot status", err)
	}

	generated, err := s.generator.Generate(ctx, buildGenerationRequest(slot.Category(), effective))
	if err != nil {
		s.revertSlot(ctx, slot)
		s.logger.Warn("Recipe generation failed",
			zap.String("slot_id", slot.ID().String()),
			zap.Error(err),
		)
		return nil, errors.NewGenerationFailedError(err)
	}

	newRecipe, err := recipeFromGenerated(plan.UserID(), generated)
	if err != nil {
		s.revertSlot(ctx, slot)
		s.logger.Warn("Generated recipe payload incomplete",
			zap.String("slot_id", slot.ID().String()),
			zap.Error(err),
		)
		return nil, errors.NewGenerationFailedError(err)
	}

	err = s.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.recipeRepo.Create(txCtx, newRecipe); err != nil {
			return err
		}
		if err := slot.CompleteGeneration(newRecipe.ID()); err != nil {
			return err
		}
		slot.SetCustomPreferences(effective)
		return s.planRepo.UpdateSlot(txCtx, slot)
	})
	if err != nil {
		s.revertSlot(ctx, slot)
		return nil, errors.NewDatabaseError("persist generated recipe", err)
	}

	s.logger.Info("Slot generated",
		zap.String("slot_id", slot.ID().String()),
		zap.String("recipe_id", newRecipe.ID().String()),
		zap.String("category", string(slot.Category())),
	)

	return newRecipe, nil
}

// revertSlot returns a slot to pending after a failed generation attempt.
// The caller's context may already be cancelled or past its deadline when a
// gateway timeout brings us here, so the revert write runs detached from it;
// a slot must never stay in generating.
func (s *Service) revertSlot(ctx context.Context, slot *mealplan.MealSlot) {
	ctx = context.WithoutCancel(ctx)

	slot.FailGeneration()
	if err := s.planRepo.UpdateSlot(ctx, slot); err != nil {
		s.logger.Error("Failed to revert slot to pending",
			zap.String("slot_id", slot.ID().String()),
			zap.Error(err),
		)
	}
}

// consumeQuota takes one unit of the user's daily generation quota, mapping
// a denial to a quota-exceeded error.
func (s *Service) consumeQuota(ctx context.Context, userID uuid.UUID) error {
	allowed, err := s.limiter.CheckAndConsume(ctx, userID, quota.CounterRecipeGeneration)
	if err != nil {
		return errors.Wrap(err, "usage check failed")
	}
	if !allowed {
		return errors.NewQuotaExceededError(quota.CounterRecipeGeneration, s.limiter.DailyLimit())
	}
	return nil
}

// loadOwnedPlan loads a plan scoped to its owner, mapping a missing or
// foreign plan to a not-found error.
func (s *Service) loadOwnedPlan(ctx context.Context, planID, userID uuid.UUID) (*mealplan.WeeklyMealPlan, error) {
	plan, err := s.planRepo.FindByIDForUser(ctx, planID, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("find meal plan", err)
	}
	if plan == nil {
		return nil, errors.NewNotFoundError("Meal plan")
	}
	return plan, nil
}

// buildGenerationRequest maps resolved preferences onto the gateway contract.
func buildGenerationRequest(category mealplan.Category, prefs *mealplan.Preferences) outbound.GenerationRequest {
	req := outbound.GenerationRequest{MealType: string(category)}
	if prefs == nil {
		return req
	}
	req.NutritionTargets = prefs.NutritionTargets
	req.Allergies = prefs.Allergies
	req.DietaryRestrictions = prefs.DietaryRestrictions
	req.CuisinePreferences = prefs.CuisinePreferences
	req.MaxPrepMinutes = prefs.MaxPrepMinutes
	req.Difficulty = prefs.Difficulty
	req.VarietyHints = prefs.VarietyHints
	return req
}

// recipeFromGenerated builds the immutable recipe entity from a gateway
// payload. Structural validation happens in the recipe constructor; an
// incomplete payload comes back as an error equivalent to a gateway failure.
func recipeFromGenerated(userID uuid.UUID, g *outbound.GeneratedRecipe) (*recipe.Recipe, error) {
	ingredients := make([]recipe.Ingredient, len(g.Ingredients))
	for i, ing := range g.Ingredients {
		ingredients[i] = recipe.Ingredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		}
	}

	instructions := make([]recipe.Instruction, len(g.Instructions))
	for i, step := range g.Instructions {
		instructions[i] = recipe.Instruction{Description: step}
	}

	var nutrition *recipe.NutritionInfo
	if g.Nutrition != nil {
		nutrition = &recipe.NutritionInfo{
			Calories: g.Nutrition.Calories,
			Protein:  g.Nutrition.Protein,
			Carbs:    g.Nutrition.Carbs,
			Fat:      g.Nutrition.Fat,
		}
	}

	r, err := recipe.NewRecipe(userID, g.Name, g.Description, ingredients, instructions, nutrition)
	if err != nil {
		return nil, err
	}

	r.SetTiming(g.PrepTimeMinutes, g.CookTimeMinutes)
	if g.Servings > 0 {
		if err := r.SetServings(g.Servings); err != nil {
			return nil, err
		}
	}
	r.SetClassification(recipe.ParseDifficulty(g.Difficulty), g.CuisineType, g.MealType, g.Tags)

	return r, nil
}

// planToDTO converts the plan aggregate to its transport representation.
func planToDTO(plan *mealplan.WeeklyMealPlan) *inbound.MealPlanDTO {
	slots := make([]inbound.SlotDTO, len(plan.Slots()))
	for i, slot := range plan.Slots() {
		slots[i] = *slotToDTO(slot)
	}

	targets := plan.Targets()
	return &inbound.MealPlanDTO{
		ID:                plan.ID(),
		UserID:            plan.UserID(),
		Name:              plan.Name(),
		Description:       plan.Description(),
		StartDate:         plan.StartDate(),
		EndDate:           plan.EndDate(),
		BreakfastCount:    targets.Breakfast,
		LunchCount:        targets.Lunch,
		DinnerCount:       targets.Dinner,
		SnackCount:        targets.Snack,
		TotalMeals:        plan.TotalMeals(),
		Status:            plan.Status(),
		GlobalPreferences: plan.GlobalPreferences(),
		Slots:             slots,
		CreatedAt:         plan.CreatedAt(),
	}
}

// slotToDTO converts a slot to its transport representation.
func slotToDTO(slot *mealplan.MealSlot) *inbound.SlotDTO {
	return &inbound.SlotDTO{
		ID:          slot.ID(),
		PlanID:      slot.PlanID(),
		Category:    slot.Category(),
		DayNumber:   slot.DayNumber(),
		Status:      slot.Status(),
		RecipeID:    slot.RecipeID(),
		Preferences: slot.CustomPreferences(),
		LockedAt:    slot.LockedAt(),
	}
}
