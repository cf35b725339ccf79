// Package errors provides the standardized error taxonomy of the API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"jobmindr/internal/common/validation"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Client errors
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody  ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodeInvalidID           ErrorCode = "INVALID_ID"
	ErrCodeInvalidIDs          ErrorCode = "INVALID_IDS"
	ErrCodeInvalidFilter       ErrorCode = "INVALID_FILTER"
	ErrCodeMissingCredentials  ErrorCode = "MISSING_CREDENTIALS"
	ErrCodeInvalidEmail        ErrorCode = "INVALID_EMAIL"
	ErrCodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"

	// Server errors
	ErrCodeDatabaseQueryFailed        ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeDatabaseInsertFailed       ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeApplicationNumberExhausted ErrorCode = "APPLICATION_NUMBER_EXHAUSTED"
	ErrCodeInternal                   ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
// Message is safe to show to API callers; Details never leaves the process.
type StandardError struct {
	Code      ErrorCode                    `json:"code"`
	Message   string                       `json:"message"`
	Details   string                       `json:"details,omitempty"`
	Errors    []validation.ValidationError `json:"errors,omitempty"`
	Retryable bool                         `json:"retryable"`
	Metadata  map[string]interface{}       `json:"metadata,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// HTTPStatus is the response status the error maps to.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError carries the field-level failures of a record.
func NewValidationFailedError(errs []validation.ValidationError) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Validation error",
		Errors:    errs,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestBodyError is returned for bodies that are not a JSON object.
func NewInvalidRequestBodyError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequestBody,
		Message:   "Invalid request body",
		Details:   errDetails(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInvalidIDError(raw string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidID,
		Message:   "Invalid ID",
		Details:   fmt.Sprintf("id: %q", raw),
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidIDsError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidIDs,
		Message:   "Invalid IDs array",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFilterError reports a malformed listing query parameter.
func NewInvalidFilterError(param string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFilter,
		Message:   fmt.Sprintf("Invalid %s filter", param),
		Details:   errDetails(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewMissingCredentialsError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingCredentials,
		Message:   "Email and password are required",
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidEmailError() *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidEmail,
		Message:   "Invalid email format",
		Timestamp: time.Now().UTC(),
	}
}

func NewApplicationNotFoundError(id int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "Job application not found",
		Details:   fmt.Sprintf("id: %d", id),
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseQueryFailedError creates a retryable database error. message is
// the public text of the failed operation.
func NewDatabaseQueryFailedError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   message,
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Failed to create job application",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewApplicationNumberExhaustedError is returned when every generated
// application number collided with an existing one.
func NewApplicationNumberExhaustedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNumberExhausted,
		Message:   "Failed to create job application",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error",
		Details:   errDetails(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. Error Conversion to HTTP
// ==========================

// HTTPStatusMapping maps error codes to response statuses.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeValidationFailed:           http.StatusBadRequest,
	ErrCodeInvalidRequestBody:         http.StatusBadRequest,
	ErrCodeInvalidID:                  http.StatusBadRequest,
	ErrCodeInvalidIDs:                 http.StatusBadRequest,
	ErrCodeInvalidFilter:              http.StatusBadRequest,
	ErrCodeMissingCredentials:         http.StatusBadRequest,
	ErrCodeInvalidEmail:               http.StatusBadRequest,
	ErrCodeApplicationNotFound:        http.StatusNotFound,
	ErrCodeDatabaseQueryFailed:        http.StatusInternalServerError,
	ErrCodeDatabaseInsertFailed:       http.StatusInternalServerError,
	ErrCodeApplicationNumberExhausted: http.StatusInternalServerError,
	ErrCodeInternal:                   http.StatusInternalServerError,
}

// HTTPStatus returns the response status for code. Unknown codes are 500.
func HTTPStatus(code ErrorCode) int {
	if status, ok := HTTPStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeDatabaseQueryFailed, ErrCodeDatabaseInsertFailed, ErrCodeApplicationNumberExhausted:
		return true
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidRequestBody, ErrCodeInvalidID,
		ErrCodeInvalidIDs, ErrCodeInvalidFilter:
		return "REQUEST"
	case ErrCodeMissingCredentials, ErrCodeInvalidEmail:
		return "AUTHENTICATION"
	case ErrCodeApplicationNotFound:
		return "NOT_FOUND"
	case ErrCodeDatabaseQueryFailed, ErrCodeDatabaseInsertFailed, ErrCodeApplicationNumberExhausted:
		return "DATABASE"
	default:
		return "INTERNAL"
	}
}

// AsStandardError finds a StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}
