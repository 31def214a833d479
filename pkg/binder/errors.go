package binder

import "fmt"

// ValidationFailedMessage is the fixed message carried by ValidationError.
const ValidationFailedMessage = "Validation failed"

// ConfigurationError is returned when a binder is built from a schema that
// cannot be validated against.
type ConfigurationError struct {
	Binder  string
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s requires a schema with a %s", e.Binder, e.Missing)
}

// ValidationError carries the mirrored error structure for binders
// configured to fail instead of returning errors as a value.
type ValidationError struct {
	Errors any
}

// NewValidationError wraps a mirrored error structure.
func NewValidationError(errors any) *ValidationError {
	return &ValidationError{Errors: errors}
}

func (e *ValidationError) Error() string {
	return ValidationFailedMessage
}

// Name identifies the error type for consumers that switch on names.
func (e *ValidationError) Name() string {
	return "ValidationError"
}
