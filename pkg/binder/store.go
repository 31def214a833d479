package binder

import "github.com/formajs/formbind/pkg/errtree"

// StoreResult is the validate outcome of the store-backed form adapters.
// Values is set only when Valid, Errors only when not.
type StoreResult struct {
	Valid  bool                          `json:"valid"`
	Values any                           `json:"values,omitempty"`
	Errors map[string]errtree.FieldError `json:"errors,omitempty"`
}

// NewSolid builds the validate step of a Solid form store.
func NewSolid(schema Schema) (Func[StoreResult], error) {
	return newStoreBinder("solid binder", schema)
}

// NewSvelte builds the validate step of a Svelte 5 form store.
func NewSvelte(schema Schema) (Func[StoreResult], error) {
	return newStoreBinder("svelte binder", schema)
}

func newStoreBinder(name string, schema Schema) (Func[StoreResult], error) {
	return bind(name, schema,
		func(r Result) StoreResult {
			return StoreResult{Valid: true, Values: r.Value}
		},
		func(r Result) (StoreResult, error) {
			return StoreResult{Errors: errtree.Flatten(r.Errors)}, nil
		})
}
