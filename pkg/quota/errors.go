package quota

import "fmt"

// ValidationError reports malformed monitor input. Evaluation aborts
// before any record is emitted.
type ValidationError struct {
	Subject string // "profile" or "snapshot"
	Field   string // Field that failed validation
	Message string // Human-readable description
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s [field=%s]: %s", e.Subject, e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(subject, field, message string) *ValidationError {
	return &ValidationError{
		Subject: subject,
		Field:   field,
		Message: message,
	}
}
