package errorwrapper

import (
	"errors"
	"fmt"
)

// Error taxonomy for the patch engine. Every failure surfaced to callers
// wraps one of these sentinels so call sites can classify outcomes with
// errors.Is without parsing messages.
var (
	// ErrFileMissing indicates the target path could not be opened.
	ErrFileMissing = errors.New("file missing")
	// ErrSnippetNotFound indicates the snippet could not be located at any
	// tolerance. This is an expected, frequent outcome.
	ErrSnippetNotFound = errors.New("snippet not found")
	// ErrPatchFailed indicates the synthesized patch could not be reapplied.
	ErrPatchFailed = errors.New("patch failed")
	// ErrApplyRejected indicates the document host refused the edit.
	ErrApplyRejected = errors.New("apply rejected")
	// ErrInvalidConfiguration indicates configuration issues.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return fmt.Errorf("%s: <nil>", message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
