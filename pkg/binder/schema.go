package binder

import (
	"context"
	"reflect"
)

// Result is the outcome of one validation run. Errors is only populated when
// Valid is false and follows the error tree model understood by errtree.
type Result struct {
	Valid  bool
	Value  any
	Errors any
}

// Schema is the validation engine consumed by every binder.
type Schema interface {
	Validate(ctx context.Context, input any) (Result, error)
}

// SchemaFunc adapts a function to the Schema interface.
type SchemaFunc func(ctx context.Context, input any) (Result, error)

// Validate calls f(ctx, input).
func (f SchemaFunc) Validate(ctx context.Context, input any) (Result, error) {
	return f(ctx, input)
}

// hasValidate reports whether schema can actually be called. A typed nil
// (nil *T, nil SchemaFunc, nil map) inside the interface counts as missing.
func hasValidate(schema Schema) bool {
	if schema == nil {
		return false
	}
	v := reflect.ValueOf(schema)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Interface, reflect.Slice, reflect.Chan:
		return !v.IsNil()
	}
	return true
}
