package binder

import (
	"context"
	"fmt"
	"sort"
)

// Family groups binders by the transform they route errors through.
type Family string

const (
	FamilyFlat     Family = "flat"
	FamilyMessages Family = "messages"
	FamilyMirror   Family = "mirror"
)

// Kind describes a named binder.
type Kind struct {
	Name        string
	Family      Family
	Description string
	build       func(Schema, []Option) (Func[any], error)
}

// Bind builds the binder with its output erased to any.
func (k Kind) Bind(schema Schema, opts ...Option) (Func[any], error) {
	return k.build(schema, opts)
}

var kinds = map[string]Kind{
	"rhf": {
		Name: "rhf", Family: FamilyFlat,
		Description: "react-hook-form resolver: {values, errors: {path: {type, message}}}",
		build: func(s Schema, _ []Option) (Func[any], error) {
			return erase(NewResolver(s))
		},
	},
	"formik": {
		Name: "formik", Family: FamilyMirror,
		Description: "Formik: nested errors with string leaves, optionally raised",
		build: func(s Schema, opts []Option) (Func[any], error) {
			return NewFormik(s, opts...)
		},
	},
	"felte": {
		Name: "felte", Family: FamilyMirror,
		Description: "Felte: nested errors with string leaves",
		build: func(s Schema, _ []Option) (Func[any], error) {
			return NewFelte(s)
		},
	},
	"mantine": {
		Name: "mantine", Family: FamilyMirror,
		Description: "@mantine/form: nested errors with string leaves",
		build: func(s Schema, _ []Option) (Func[any], error) {
			return NewMantine(s)
		},
	},
	"solid": {
		Name: "solid", Family: FamilyFlat,
		Description: "Solid form store: {valid, values} or {valid, errors: {path: {type, message}}}",
		build: func(s Schema, _ []Option) (Func[any], error) {
			return erase(NewSolid(s))
		},
	},
	"svelte": {
		Name: "svelte", Family: FamilyFlat,
		Description: "Svelte 5 form store: {valid, values} or {valid, errors: {path: {type, message}}}",
		build: func(s Schema, _ []Option) (Func[any], error) {
			return erase(NewSvelte(s))
		},
	},
	"tanstack": {
		Name: "tanstack", Family: FamilyMessages,
		Description: "TanStack Form: {path: message}",
		build: func(s Schema, _ []Option) (Func[any], error) {
			return erase(NewTanStack(s))
		},
	},
	"vee": {
		Name: "vee", Family: FamilyMessages,
		Description: "VeeValidate: {path: message}",
		build: func(s Schema, _ []Option) (Func[any], error) {
			return erase(NewVeeValidate(s))
		},
	},
}

// Lookup returns the binder registered under name.
func Lookup(name string) (Kind, error) {
	k, ok := kinds[name]
	if !ok {
		return Kind{}, fmt.Errorf("unknown binder '%s'. Must be one of: %v", name, Names())
	}
	return k, nil
}

// Names lists the registered binder names in sorted order.
func Names() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func erase[T any](f Func[T], err error) (Func[any], error) {
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, values any) (any, error) {
		out, err := f(ctx, values)
		if err != nil {
			return nil, err
		}
		return out, nil
	}, nil
}
