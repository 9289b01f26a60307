package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/bonpetite/planner/internal/domain/mealplan"
	"github.com/bonpetite/planner/internal/infrastructure/http/middleware"
	"github.com/bonpetite/planner/internal/ports/inbound"
	"github.com/bonpetite/planner/pkg/errors"
	"go.uber.org/zap"
)

// PlannerHandlers handles meal plan API requests
type PlannerHandlers struct {
	service  inbound.PlannerService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewPlannerHandlers creates a new planner handlers instance
func NewPlannerHandlers(service inbound.PlannerService, logger *zap.Logger) *PlannerHandlers {
	return &PlannerHandlers{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// createPlanRequest is the JSON body for plan creation
type createPlanRequest struct {
	Name              string                `json:"name" validate:"required"`
	Description       string                `json:"description"`
	StartDate         time.Time             `json:"start_date" validate:"required"`
	EndDate           time.Time             `json:"end_date" validate:"required"`
	BreakfastCount    int                   `json:"breakfast_count" validate:"min=0,max=7"`
	LunchCount        int                   `json:"lunch_count" validate:"min=0,max=7"`
	DinnerCount       int                   `json:"dinner_count" validate:"min=0,max=7"`
	SnackCount        int                   `json:"snack_count" validate:"min=0,max=7"`
	GlobalPreferences *mealplan.Preferences `json:"global_preferences,omitempty"`
}

// generateSlotRequest carries optional per-request preference overrides
type generateSlotRequest struct {
	Preferences *mealplan.Preferences `json:"preferences,omitempty"`
}

// batchGenerateRequest selects slots and per-slot preference overrides
type batchGenerateRequest struct {
	SlotIDs     []uuid.UUID                          `json:"slot_ids,omitempty"`
	Preferences map[uuid.UUID]*mealplan.Preferences `json:"preferences,omitempty"`
}

// lockSlotRequest toggles a slot's locked state
type lockSlotRequest struct {
	Locked bool `json:"locked"`
}

// CreatePlan handles POST /api/v1/plans
func (h *PlannerHandlers) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, r, h.logger, errors.NewBadRequestError("missing user identity"))
		return
	}

	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, h.logger, errors.NewBadRequestError(err.Error()))
		return
	}

	plan, err := h.service.CreatePlan(r.Context(), inbound.CreatePlanCommand{
		UserID:            userID,
		Name:              req.Name,
		Description:       req.Description,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		BreakfastCount:    req.BreakfastCount,
		LunchCount:        req.LunchCount,
		DinnerCount:       req.DinnerCount,
		SnackCount:        req.SnackCount,
		GlobalPreferences: req.GlobalPreferences,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, APIResponse{
		Success: true,
		Data:    plan,
		Message: "Meal plan created",
	})
}

// GetPlan handles GET /api/v1/plans/{planID}
func (h *PlannerHandlers) GetPlan(w http.ResponseWriter, r *http.Request) {
	userID, planID, err := h.planScope(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	plan, err := h.service.GetPlan(r.Context(), planID, userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: plan})
}

// GenerateSlot handles POST /api/v1/plans/{planID}/slots/{slotID}/generate
func (h *PlannerHandlers) GenerateSlot(w http.ResponseWriter, r *http.Request) {
	h.runSlotGeneration(w, r, h.service.GenerateSlot)
}

// RegenerateSlot handles POST /api/v1/plans/{planID}/slots/{slotID}/regenerate
func (h *PlannerHandlers) RegenerateSlot(w http.ResponseWriter, r *http.Request) {
	h.runSlotGeneration(w, r, h.service.RegenerateSlot)
}

// BatchGenerate handles POST /api/v1/plans/{planID}/generate
func (h *PlannerHandlers) BatchGenerate(w http.ResponseWriter, r *http.Request) {
	userID, planID, err := h.planScope(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req batchGenerateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, h.logger, errors.NewBadRequestError("invalid JSON body"))
			return
		}
	}

	result, err := h.service.BatchGenerateSlots(r.Context(), inbound.BatchGenerateCommand{
		PlanID:      planID,
		UserID:      userID,
		SlotIDs:     req.SlotIDs,
		Preferences: req.Preferences,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: result})
}

// LockSlot handles PUT /api/v1/plans/{planID}/slots/{slotID}/lock
func (h *PlannerHandlers) LockSlot(w http.ResponseWriter, r *http.Request) {
	userID, planID, err := h.planScope(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	slotID, err := uuid.Parse(chi.URLParam(r, "slotID"))
	if err != nil {
		writeError(w, r, h.logger, errors.NewBadRequestError("invalid slot ID"))
		return
	}

	var req lockSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	result, err := h.service.LockSlot(r.Context(), inbound.LockSlotCommand{
		PlanID: planID,
		SlotID: slotID,
		UserID: userID,
		Locked: req.Locked,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: result})
}

// NextCategory handles GET /api/v1/plans/{planID}/next-category
func (h *PlannerHandlers) NextCategory(w http.ResponseWriter, r *http.Request) {
	userID, planID, err := h.planScope(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	category, remaining, err := h.service.GetNextCategoryToProcess(r.Context(), planID, userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	data := map[string]interface{}{"remaining": remaining}
	if remaining {
		data["category"] = category
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: data})
}

// ArchivePlans handles POST /api/v1/plans/archive
func (h *PlannerHandlers) ArchivePlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, r, h.logger, errors.NewBadRequestError("missing user identity"))
		return
	}

	daysOld := 30
	if raw := r.URL.Query().Get("days_old"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, r, h.logger, errors.NewBadRequestError("days_old must be a non-negative integer"))
			return
		}
		daysOld = parsed
	}

	archived, err := h.service.ArchiveOldPlans(r.Context(), userID, daysOld)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]int{"archived": archived},
	})
}

// runSlotGeneration shares the decode-and-dispatch path of the two
// generation endpoints.
func (h *PlannerHandlers) runSlotGeneration(
	w http.ResponseWriter,
	r *http.Request,
	call func(ctx context.Context, cmd inbound.GenerateSlotCommand) (*inbound.SlotDTO, error),
) {
	userID, planID, err := h.planScope(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	slotID, err := uuid.Parse(chi.URLParam(r, "slotID"))
	if err != nil {
		writeError(w, r, h.logger, errors.NewBadRequestError("invalid slot ID"))
		return
	}

	var req generateSlotRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, h.logger, errors.NewBadRequestError("invalid JSON body"))
			return
		}
	}

	slot, err := call(r.Context(), inbound.GenerateSlotCommand{
		PlanID:      planID,
		SlotID:      slotID,
		UserID:      userID,
		Preferences: req.Preferences,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: slot})
}

// planScope extracts the caller and the plan route parameter.
func (h *PlannerHandlers) planScope(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, uuid.Nil, errors.NewBadRequestError("missing user identity")
	}

	planID, err := uuid.Parse(chi.URLParam(r, "planID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.NewBadRequestError("invalid plan ID")
	}

	return userID, planID, nil
}
