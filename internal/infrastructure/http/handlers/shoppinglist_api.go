package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bonpetite/planner/internal/infrastructure/http/middleware"
	"github.com/bonpetite/planner/internal/ports/inbound"
	"github.com/bonpetite/planner/pkg/errors"
	"go.uber.org/zap"
)

// ShoppingListHandlers handles shopping list API requests
type ShoppingListHandlers struct {
	service inbound.ShoppingListService
	logger  *zap.Logger
}

// NewShoppingListHandlers creates a new shopping list handlers instance
func NewShoppingListHandlers(service inbound.ShoppingListService, logger *zap.Logger) *ShoppingListHandlers {
	return &ShoppingListHandlers{
		service: service,
		logger:  logger,
	}
}

// checkItemRequest toggles one item's checked state by name
type checkItemRequest struct {
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

// BuildList handles POST /api/v1/plans/{planID}/shopping-list
func (h *ShoppingListHandlers) BuildList(w http.ResponseWriter, r *http.Request) {
	userID, planID, err := h.planScope(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	list, err := h.service.BuildOrRefreshShoppingList(r.Context(), planID, userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    list,
		Message: "Shopping list rebuilt",
	})
}

// GetList handles GET /api/v1/plans/{planID}/shopping-list
func (h *ShoppingListHandlers) GetList(w http.ResponseWriter, r *http.Request) {
	userID, planID, err := h.planScope(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	list, err := h.service.GetShoppingList(r.Context(), planID, userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: list})
}

// CheckItem handles PUT /api/v1/plans/{planID}/shopping-list/items
func (h *ShoppingListHandlers) CheckItem(w http.ResponseWriter, r *http.Request) {
	userID, planID, err := h.planScope(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req checkItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if req.Name == "" {
		writeError(w, r, h.logger, errors.NewBadRequestError("name is required"))
		return
	}

	list, err := h.service.SetIngredientChecked(r.Context(), planID, userID, req.Name, req.Checked)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: list})
}

func (h *ShoppingListHandlers) planScope(r *http.Request) (uuid.UUID, uuid.UUID, error) {
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
