package binder

import "github.com/formajs/formbind/pkg/errtree"

// NewTanStack builds a TanStack Form form-level validator returning
// {"path.to.field": "message"}.
func NewTanStack(schema Schema) (Func[map[string]string], error) {
	return newMessagesBinder("tanstack binder", schema)
}

// NewVeeValidate builds a VeeValidate validation function returning
// {"path.to.field": "message"}.
func NewVeeValidate(schema Schema) (Func[map[string]string], error) {
	return newMessagesBinder("vee binder", schema)
}

func newMessagesBinder(name string, schema Schema) (Func[map[string]string], error) {
	return bind(name, schema,
		func(Result) map[string]string {
			return map[string]string{}
		},
		func(r Result) (map[string]string, error) {
			return errtree.Messages(r.Errors), nil
		})
}
