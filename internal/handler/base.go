// Package handler provides HTTP handlers for the application.
package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/stafflink/concierge/internal/errors"
	"github.com/stafflink/concierge/internal/middleware"
)

// JSON writes a JSON response with the appropriate headers.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// JSONWithRequest writes a JSON response, including the request ID header.
func JSONWithRequest(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if reqID := middleware.GetRequestID(r.Context()); reqID != "" {
		w.Header().Set(middleware.RequestIDHeader, reqID)
	}
	JSON(w, status, data)
}

// WriteAppError maps a coded application error to its HTTP status and
// writes the coded response body. Unrecognized errors become a generic 500
// so internal details never leak.
func WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.AsError(err)
	if !ok {
		appErr = apperrors.Wrap(err, "handler", apperrors.CodeInternal, "An internal error occurred")
	}
	JSONWithRequest(w, r, appErr.HTTPStatus(), appErr.ToResponse())
}

// ValidationFieldError represents a single field validation error.
type ValidationFieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidationErrorResponse represents a structured validation error response.
type ValidationErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Errors  []ValidationFieldError `json:"errors"`
}

// APIValidationError writes a validation error response with field-level details.
func APIValidationError(w http.ResponseWriter, r *http.Request, errors []ValidationFieldError) {
	resp := ValidationErrorResponse{
		Error:   "Bad Request",
		Message: "Validation failed",
		Status:  http.StatusBadRequest,
		Errors:  errors,
	}
	JSONWithRequest(w, r, http.StatusBadRequest, resp)
}
