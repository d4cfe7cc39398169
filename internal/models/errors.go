// internal/models/errors.go
package models

import "fmt"

// ValidationError reports caller-side input that must not reach the store
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}
