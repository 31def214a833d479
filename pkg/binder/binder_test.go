package binder

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/formajs/formbind/pkg/errtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(kind, message string) map[string]any {
	return map[string]any{"kind": kind, "message": message}
}

// fixedSchema reports the same result for every input.
func fixedSchema(result Result) Schema {
	return SchemaFunc(func(context.Context, any) (Result, error) {
		return result, nil
	})
}

var invalidResult = Result{
	Valid: false,
	Errors: map[string]any{
		"name": []any{leaf("minLength", "Too short"), leaf("pattern", "Bad pattern")},
		"user": map[string]any{"email": []any{leaf("email", "Invalid email")}},
	},
}

// pointerSchema is a Schema implemented on a pointer receiver.
type pointerSchema struct{ result Result }

func (s *pointerSchema) Validate(context.Context, any) (Result, error) {
	return s.result, nil
}

func TestConfigurationErrors(t *testing.T) {
	var nilFunc SchemaFunc
	var nilPointer *pointerSchema

	constructors := map[string]func(Schema) error{
		"rhf binder":      func(s Schema) error { _, err := NewResolver(s); return err },
		"formik binder":   func(s Schema) error { _, err := NewFormik(s); return err },
		"felte binder":    func(s Schema) error { _, err := NewFelte(s); return err },
		"mantine binder":  func(s Schema) error { _, err := NewMantine(s); return err },
		"tanstack binder": func(s Schema) error { _, err := NewTanStack(s); return err },
		"vee binder":      func(s Schema) error { _, err := NewVeeValidate(s); return err },
		"solid binder":    func(s Schema) error { _, err := NewSolid(s); return err },
		"svelte binder":   func(s Schema) error { _, err := NewSvelte(s); return err },
	}

	for name, construct := range constructors {
		t.Run(name, func(t *testing.T) {
			for _, schema := range []Schema{nil, nilFunc, nilPointer} {
				err := construct(schema)
				var cfgErr *ConfigurationError
				require.ErrorAs(t, err, &cfgErr)
				assert.Equal(t, name, cfgErr.Binder)
				assert.Equal(t, name+" requires a schema with a validate method", err.Error())
			}
			assert.NoError(t, construct(fixedSchema(Result{Valid: true})))
			assert.NoError(t, construct(&pointerSchema{result: Result{Valid: true}}))
		})
	}
}

func TestResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		resolve, err := NewResolver(fixedSchema(Result{Valid: true, Value: map[string]any{"name": "Ada"}}))
		require.NoError(t, err)
		out, err := resolve(ctx, map[string]any{"name": " Ada "})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "Ada"}, out.Values)
		assert.Empty(t, out.Errors)
		assert.NotNil(t, out.Errors)
	})

	t.Run("invalid", func(t *testing.T) {
		resolve, err := NewResolver(fixedSchema(invalidResult))
		require.NoError(t, err)
		out, err := resolve(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, out.Values)
		assert.Equal(t, map[string]errtree.FieldError{
			"name":       {Kind: "minLength", Message: "Too short"},
			"user.email": {Kind: "email", Message: "Invalid email"},
		}, out.Errors)
	})

	t.Run("invalid with absent errors", func(t *testing.T) {
		resolve, err := NewResolver(fixedSchema(Result{Valid: false}))
		require.NoError(t, err)
		out, err := resolve(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]errtree.FieldError{}, out.Errors)
	})
}

func TestMirrorBinders(t *testing.T) {
	ctx := context.Background()
	want := map[string]any{
		"name": "Too short",
		"user": map[string]any{"email": "Invalid email"},
	}

	builders := map[string]func(Schema) (Func[any], error){
		"formik":  func(s Schema) (Func[any], error) { return NewFormik(s) },
		"felte":   NewFelte,
		"mantine": NewMantine,
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			validate, err := build(fixedSchema(invalidResult))
			require.NoError(t, err)
			out, err := validate(ctx, nil)
			require.NoError(t, err)
			assert.Equal(t, want, out)

			validate, err = build(fixedSchema(Result{Valid: true}))
			require.NoError(t, err)
			out, err = validate(ctx, nil)
			require.NoError(t, err)
			assert.Equal(t, map[string]any{}, out)
		})
	}
}

func TestFormikThrowOnError(t *testing.T) {
	ctx := context.Background()

	validate, err := NewFormik(fixedSchema(invalidResult), WithThrowOnError(true))
	require.NoError(t, err)

	out, err := validate(ctx, nil)
	assert.Nil(t, out)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "ValidationError", vErr.Name())
	assert.Equal(t, "Validation failed", vErr.Error())
	assert.Equal(t, map[string]any{
		"name": "Too short",
		"user": map[string]any{"email": "Invalid email"},
	}, vErr.Errors)

	validate, err = NewFormik(fixedSchema(Result{Valid: true}), WithThrowOnError(true))
	require.NoError(t, err)
	out, err = validate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, out)
}

func TestMessageBinders(t *testing.T) {
	ctx := context.Background()
	builders := map[string]func(Schema) (Func[map[string]string], error){
		"tanstack": NewTanStack,
		"vee":      NewVeeValidate,
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			validate, err := build(fixedSchema(invalidResult))
			require.NoError(t, err)
			out, err := validate(ctx, nil)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{
				"name":       "Too short",
				"user.email": "Invalid email",
			}, out)
		})
	}
}

func TestStoreBinders(t *testing.T) {
	ctx := context.Background()
	builders := map[string]func(Schema) (Func[StoreResult], error){
		"solid":  NewSolid,
		"svelte": NewSvelte,
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			validate, err := build(fixedSchema(invalidResult))
			require.NoError(t, err)
			out, err := validate(ctx, nil)
			require.NoError(t, err)
			assert.False(t, out.Valid)
			assert.Nil(t, out.Values)
			assert.Equal(t, errtree.FieldError{Kind: "minLength", Message: "Too short"}, out.Errors["name"])
			assert.Equal(t, errtree.FieldError{Kind: "email", Message: "Invalid email"}, out.Errors["user.email"])

			validate, err = build(fixedSchema(Result{Valid: true, Value: map[string]any{"name": "Ada"}}))
			require.NoError(t, err)
			out, err = validate(ctx, nil)
			require.NoError(t, err)
			assert.Equal(t, StoreResult{Valid: true, Values: map[string]any{"name": "Ada"}}, out)
		})
	}
}

func TestEngineErrorsAreWrapped(t *testing.T) {
	boom := errors.New("engine unavailable")
	schema := SchemaFunc(func(context.Context, any) (Result, error) {
		return Result{}, boom
	})

	validate, err := NewTanStack(schema)
	require.NoError(t, err)
	_, err = validate(context.Background(), nil)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "tanstack binder")
}

func TestValidationError(t *testing.T) {
	errs := map[string]any{"name": "Required"}
	err := NewValidationError(errs)
	assert.Equal(t, "ValidationError", err.Name())
	assert.Equal(t, ValidationFailedMessage, err.Error())
	assert.Equal(t, errs, err.Errors)
}

func TestConcurrentCallsAreIndependent(t *testing.T) {
	// echo the input back as a single field error
	schema := SchemaFunc(func(_ context.Context, input any) (Result, error) {
		name, _ := input.(string)
		return Result{Errors: map[string]any{name: []any{leaf("required", name)}}}, nil
	})
	validate, err := NewVeeValidate(schema)
	require.NoError(t, err)

	var wg sync.WaitGroup
	names := []string{"a", "b", "c", "d", "e", "f"}
	results := make([]map[string]string, len(names))
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i], _ = validate(context.Background(), name)
		}(i, name)
	}
	wg.Wait()

	for i, name := range names {
		assert.Equal(t, map[string]string{name: name}, results[i])
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"felte", "formik", "mantine", "rhf", "solid", "svelte", "tanstack", "vee"}, Names())

	_, err := Lookup("angular")
	assert.ErrorContains(t, err, "unknown binder 'angular'")

	kind, err := Lookup("rhf")
	require.NoError(t, err)
	assert.Equal(t, FamilyFlat, kind.Family)

	validate, err := kind.Bind(fixedSchema(invalidResult))
	require.NoError(t, err)
	out, err := validate(context.Background(), nil)
	require.NoError(t, err)
	assert.IsType(t, ResolverResult{}, out)

	kind, err = Lookup("formik")
	require.NoError(t, err)
	validate, err = kind.Bind(fixedSchema(invalidResult), WithThrowOnError(true))
	require.NoError(t, err)
	_, err = validate(context.Background(), nil)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = kind.Bind(nil)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
