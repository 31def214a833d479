package binder

import "github.com/formajs/formbind/pkg/errtree"

// ResolverResult is the react-hook-form resolver shape.
type ResolverResult struct {
	Values any                           `json:"values"`
	Errors map[string]errtree.FieldError `json:"errors"`
}

// NewResolver builds a react-hook-form resolver. On success Values carries the
// value returned by the engine; on failure Values is empty and Errors holds
// one flattened record per invalid field.
func NewResolver(schema Schema) (Func[ResolverResult], error) {
	return bind("rhf binder", schema,
		func(r Result) ResolverResult {
			return ResolverResult{Values: r.Value, Errors: map[string]errtree.FieldError{}}
		},
		func(r Result) (ResolverResult, error) {
			return ResolverResult{Values: map[string]any{}, Errors: errtree.Flatten(r.Errors)}, nil
		})
}
