package binder

import "github.com/formajs/formbind/pkg/errtree"

// NewFormik builds a Formik validate function returning errors shaped like
// the form values. With WithThrowOnError(true) failures are returned as a
// *ValidationError instead.
func NewFormik(schema Schema, opts ...Option) (Func[any], error) {
	return newMirrorBinder("formik binder", schema, applyOptions(opts))
}

// NewFelte builds a Felte validate function.
func NewFelte(schema Schema) (Func[any], error) {
	return newMirrorBinder("felte binder", schema, options{})
}

// NewMantine builds a @mantine/form validate function.
func NewMantine(schema Schema) (Func[any], error) {
	return newMirrorBinder("mantine binder", schema, options{})
}

func newMirrorBinder(name string, schema Schema, o options) (Func[any], error) {
	return bind(name, schema,
		func(Result) any {
			return map[string]any{}
		},
		func(r Result) (any, error) {
			errs := errtree.Mirror(r.Errors)
			if o.throwOnError {
				return nil, NewValidationError(errs)
			}
			return errs, nil
		})
}
