package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/formajs/formbind/pkg/binder"
)

var (
	allowedFormats = []string{FormatFlat, FormatMessages, FormatMirror}
	allowedOutputs = []string{OutputJSON, OutputYAML, OutputTable}
)

// ValidationError lists every invalid setting.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0])
	}
	var b strings.Builder
	b.WriteString("configuration validation failed:")
	for _, err := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return errors.Join(e.Errors...)
}

// Validate reports unknown formats, outputs and binders and a non-positive
// concurrency. It returns nil or a *ValidationError.
func (c Config) Validate() error {
	var errs []error

	if !slices.Contains(allowedFormats, c.Format) {
		errs = append(errs, fmt.Errorf("invalid format '%s'. Must be one of: %s", c.Format, strings.Join(allowedFormats, ", ")))
	}
	if !slices.Contains(allowedOutputs, c.Output) {
		errs = append(errs, fmt.Errorf("invalid output '%s'. Must be one of: %s", c.Output, strings.Join(allowedOutputs, ", ")))
	}
	if _, err := binder.Lookup(c.Binder); err != nil {
		errs = append(errs, err)
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be >= 1, got: %d", c.Concurrency))
	}
	if c.ContextLines < 0 {
		errs = append(errs, fmt.Errorf("context-lines must be >= 0, got: %d", c.ContextLines))
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}
