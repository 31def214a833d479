// Package binder adapts a validation engine to the error shapes expected by
// UI form libraries. Every binder validates once, returns an empty error
// value on success and routes the engine's error tree through errtree.Flatten
// or errtree.Mirror on failure.
package binder

import (
	"context"
	"fmt"
)

// Func is a bound validation function. It is safe for concurrent use; each
// call produces an independent result.
type Func[T any] func(ctx context.Context, values any) (T, error)

// Option configures a binder.
type Option func(*options)

type options struct {
	throwOnError bool
}

// WithThrowOnError makes a binder return a *ValidationError carrying the
// mirrored errors instead of returning them as a value.
func WithThrowOnError(enabled bool) Option {
	return func(o *options) {
		o.throwOnError = enabled
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// bind checks the schema up front and assembles the shared dispatch.
func bind[T any](name string, schema Schema, onValid func(Result) T, onInvalid func(Result) (T, error)) (Func[T], error) {
	if !hasValidate(schema) {
		return nil, &ConfigurationError{Binder: name, Missing: "validate method"}
	}
	return func(ctx context.Context, values any) (T, error) {
		result, err := schema.Validate(ctx, values)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("%s: %w", name, err)
		}
		if result.Valid {
			return onValid(result), nil
		}
		return onInvalid(result)
	}, nil
}
