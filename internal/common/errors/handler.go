// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"

	"jobmindr/internal/common/logger"
	"jobmindr/internal/common/validation"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string                       `json:"message"`
	Errors  []validation.ValidationError `json:"errors,omitempty"`
}

// ErrorHandler writes errors as JSON responses with standardized handling
type ErrorHandler struct {
	logger logger.Logger
}

func NewErrorHandler(log logger.Logger) *ErrorHandler {
	return &ErrorHandler{logger: log}
}

// WriteError normalizes err, logs server-side failures and writes the response.
func (h *ErrorHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := h.normalizeError(err)
	status := stdErr.HTTPStatus()

	log := logger.FromContext(r.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", map[string]interface{}{
			"errorCode":     string(stdErr.Code),
			"message":       stdErr.Message,
			"details":       stdErr.Details,
			"retryable":     stdErr.Retryable,
			"errorCategory": GetErrorCategory(stdErr.Code),
			"status":        status,
		})
	} else {
		log.Debug("Request rejected", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
			"status":    status,
		})
	}

	body := ErrorResponse{Message: stdErr.Message}
	if stdErr.Code == ErrCodeValidationFailed {
		body.Errors = stdErr.Errors
	}
	WriteJSON(w, status, body)
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
