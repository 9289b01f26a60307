// Package errors provides structured error handling for the application,
// with a closed error-code taxonomy mapped onto HTTP statuses.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes used across the planner core.
const (
	// Client errors (4xx)
	CodeBadRequest         ErrorCode = "BAD_REQUEST"
	CodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodePreconditionFailed ErrorCode = "PRECONDITION_FAILED"
	CodeQuotaExceeded      ErrorCode = "QUOTA_EXCEEDED"
	CodeNoGeneratedMeals   ErrorCode = "NO_GENERATED_MEALS"

	// Server errors (5xx)
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError    ErrorCode = "DATABASE_ERROR"
	CodeGenerationFailed ErrorCode = "GENERATION_FAILED"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodePreconditionFailed, CodeNoGeneratedMeals:
		return http.StatusPreconditionFailed
	case CodeQuotaExceeded:
		return http.StatusTooManyRequests
	case CodeGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Predefined error constructors for common scenarios

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewValidationError creates a validation error carrying every violation.
func NewValidationError(violations ...string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", strings.Join(violations, "; ")).
		WithMetadata("violations", violations)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewPreconditionFailedError creates a precondition failed error
func NewPreconditionFailedError(message string) *AppError {
	return NewAppError(CodePreconditionFailed, "Precondition failed", message)
}

// NewQuotaExceededError signals that the daily generation quota is spent.
func NewQuotaExceededError(counterName string, limit int) *AppError {
	return NewAppError(
		CodeQuotaExceeded,
		"Daily quota exceeded",
		fmt.Sprintf("You have exceeded your daily %s quota of %d", counterName, limit),
	).WithMetadata("counter", counterName).WithMetadata("limit", limit)
}

// NewGenerationFailedError wraps a gateway failure or an incomplete
// generation payload. The affected slot has already been reverted to
// pending when this surfaces.
func NewGenerationFailedError(cause error) *AppError {
	return NewAppError(
		CodeGenerationFailed,
		"Recipe generation failed",
		"The generation gateway returned an error or an incomplete recipe",
	).WithCause(cause)
}

// NewNoGeneratedMealsError signals a consolidation request against a plan
// with no generated recipes.
func NewNoGeneratedMealsError() *AppError {
	return NewAppError(
		CodeNoGeneratedMeals,
		"No generated meals",
		"The plan has no generated recipes to consolidate into a shopping list",
	)
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails represents the error details in API responses
type ErrorDetails struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ToErrorResponse converts an AppError to an API error response
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			Metadata:  err.Metadata,
			RequestID: requestID,
			Timestamp: fmt.Sprintf("%d", time.Now().Unix()),
		},
	}
}
