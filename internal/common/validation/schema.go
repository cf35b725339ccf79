package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// EmailPattern is the contact email syntax. The JSON schemas carry the same pattern.
const EmailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`

var (
	emailRegex      = regexp.MustCompile(EmailPattern)
	loginEmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeInvalidType          = "INVALID_TYPE"
	CodeMinLengthViolation   = "MIN_LENGTH_VIOLATION"
	CodeMaxLengthViolation   = "MAX_LENGTH_VIOLATION"
	CodePatternMismatch      = "PATTERN_MISMATCH"
	CodeInvalidEnumValue     = "INVALID_ENUM_VALUE"
	CodeMinimumViolation     = "MINIMUM_VIOLATION"
	CodeInvalidDate          = "INVALID_DATE"
	CodeInvalidDocument      = "INVALID_DOCUMENT"
)

func valid() *ValidationResult {
	return &ValidationResult{Valid: true}
}

func invalid(errs []ValidationError) *ValidationResult {
	return &ValidationResult{Valid: false, Errors: errs}
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// ValidateEmail validates the contact email format
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateLoginEmail applies the looser syntax check of the login form.
func ValidateLoginEmail(email string) bool {
	return loginEmailRegex.MatchString(email)
}
