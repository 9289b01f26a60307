// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/bonpetite/planner/pkg/errors"
	"go.uber.org/zap"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps application errors to HTTP status codes and the shared
// error envelope. Unknown errors become opaque 500s.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	requestID := chimiddleware.GetReqID(r.Context())

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		logger.Error("Unhandled error", zap.Error(err), zap.String("request_id", requestID))
		appErr = errors.NewInternalError("an unexpected error occurred")
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("code", string(appErr.Code)),
			zap.String("request_id", requestID),
			zap.Error(appErr),
		)
	}

	writeJSON(w, logger, status, errors.ToErrorResponse(appErr, requestID))
}
