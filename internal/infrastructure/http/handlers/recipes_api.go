package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bonpetite/planner/internal/infrastructure/http/middleware"
	"github.com/bonpetite/planner/internal/ports/inbound"
	"github.com/bonpetite/planner/pkg/errors"
	"go.uber.org/zap"
)

// RecipeHandlers handles recipe browsing API requests
type RecipeHandlers struct {
	service inbound.RecipeService
	logger  *zap.Logger
}

// NewRecipeHandlers creates a new recipe handlers instance
func NewRecipeHandlers(service inbound.RecipeService, logger *zap.Logger) *RecipeHandlers {
	return &RecipeHandlers{
		service: service,
		logger:  logger,
	}
}

// saveRecipeRequest toggles the saved flag
type saveRecipeRequest struct {
	Saved bool `json:"saved"`
}

// ListRecipes handles GET /api/v1/recipes?offset=&limit=
func (h *RecipeHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, r, h.logger, errors.NewBadRequestError("missing user identity"))
		return
	}

	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 0)

	result, err := h.service.ListRecipes(r.Context(), userID, offset, limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
	})
}

// GetRecipe handles GET /api/v1/recipes/{recipeID}
func (h *RecipeHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	userID, recipeID, err := h.recipeScope(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.service.GetRecipe(r.Context(), recipeID, userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    dto,
	})
}

// SaveRecipe handles PUT /api/v1/recipes/{recipeID}/save
func (h *RecipeHandlers) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	userID, recipeID, err := h.recipeScope(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req saveRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	dto, err := h.service.SetRecipeSaved(r.Context(), recipeID, userID, req.Saved)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    dto,
		Message: "Recipe updated",
	})
}

// recipeScope extracts the authenticated user and the recipe path parameter.
func (h *RecipeHandlers) recipeScope(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, uuid.Nil, errors.NewBadRequestError("missing user identity")
	}
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.NewBadRequestError("invalid recipe ID")
	}
	return userID, recipeID, nil
}

// queryInt parses a non-negative integer query parameter with a fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
