package schema

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/formajs/formbind/pkg/binder"
	"github.com/formajs/formbind/pkg/errtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signupSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string", "minLength": 3},
    "email": {"type": "string"},
    "tags": {"type": "array", "maxItems": 2, "items": {"type": "string", "minLength": 1}},
    "users": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {"name": {"type": "string", "minLength": 2}},
        "required": ["name"]
      }
    },
    "profile": {
      "type": "object",
      "properties": {"age": {"type": "integer", "minimum": 0}},
      "additionalProperties": false
    }
  },
  "required": ["name", "email"]
}`

func compileSignup(t *testing.T) *Schema {
	t.Helper()
	s, err := Compile("signup", []byte(signupSchema))
	require.NoError(t, err)
	return s
}

func kinds(flat map[string]errtree.FieldError) map[string]string {
	out := make(map[string]string, len(flat))
	for path, fe := range flat {
		out[path] = fe.Kind
	}
	return out
}

func TestValidateValid(t *testing.T) {
	s := compileSignup(t)
	result, err := s.Validate(context.Background(), map[string]any{
		"name":  "Ada",
		"email": "ada@example.com",
		"tags":  []string{"math"},
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Nil(t, result.Errors)
	assert.Equal(t, map[string]any{
		"name":  "Ada",
		"email": "ada@example.com",
		"tags":  []any{"math"},
	}, result.Value)
}

func TestValidateErrorTree(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  map[string]string
	}{
		{
			name:  "field violations and missing properties",
			input: map[string]any{"name": "Al"},
			want:  map[string]string{"name": "minLength", "email": "required"},
		},
		{
			name:  "per element errors",
			input: map[string]any{"name": "Ada", "email": "a@b.c", "tags": []any{"a", ""}},
			want:  map[string]string{"tags.1": "minLength"},
		},
		{
			name:  "array level violation hides element errors",
			input: map[string]any{"name": "Ada", "email": "a@b.c", "tags": []any{"a", "", "c"}},
			want:  map[string]string{"tags": "maxItems"},
		},
		{
			name: "nested objects inside arrays",
			input: map[string]any{
				"name": "Ada", "email": "a@b.c",
				"users": []any{map[string]any{"name": "Bo"}, map[string]any{}, map[string]any{"name": "x"}},
			},
			want: map[string]string{"users.1.name": "required", "users.2.name": "minLength"},
		},
		{
			name: "additional properties are reported on the property",
			input: map[string]any{
				"name": "Ada", "email": "a@b.c",
				"profile": map[string]any{"age": -1, "nickname": "A"},
			},
			want: map[string]string{"profile.age": "minimum", "profile.nickname": "additionalProperties"},
		},
		{
			name:  "nil input is an empty object",
			input: nil,
			want:  map[string]string{"name": "required", "email": "required"},
		},
	}

	s := compileSignup(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var input any
			if tt.input != nil {
				input = tt.input
			}
			result, err := s.Validate(context.Background(), input)
			require.NoError(t, err)
			require.False(t, result.Valid)

			flat := errtree.Flatten(result.Errors)
			assert.Equal(t, tt.want, kinds(flat))
			for path, fe := range flat {
				assert.NotEmpty(t, fe.Message, "message for %s", path)
			}
		})
	}
}

func TestValidateMirrorShape(t *testing.T) {
	s := compileSignup(t)
	result, err := s.Validate(context.Background(), map[string]any{
		"email": "a@b.c",
		"tags":  []any{"a", ""},
	})
	require.NoError(t, err)

	mirrored, ok := errtree.Mirror(result.Errors).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "missing property 'name'", mirrored["name"])

	tags, ok := mirrored["tags"].(map[string]any)
	require.True(t, ok, "tags should mirror to an items mapping, got %#v", mirrored["tags"])
	items, ok := tags[errtree.ItemsKey].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, items, "1")
}

func TestValidateWithBinder(t *testing.T) {
	resolve, err := binder.NewResolver(compileSignup(t))
	require.NoError(t, err)

	out, err := resolve(context.Background(), map[string]any{"name": "Al", "email": "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, out.Values)
	require.Contains(t, out.Errors, "name")
	assert.Equal(t, "minLength", out.Errors["name"].Kind)
}

func TestNilSchemaIsRejectedByBinders(t *testing.T) {
	var s *Schema
	_, err := binder.NewResolver(s)
	var cfgErr *binder.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "rhf binder", cfgErr.Binder)

	kind, err := binder.Lookup("formik")
	require.NoError(t, err)
	_, err = kind.Bind(s)
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidateCancelledContext(t *testing.T) {
	s := compileSignup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Validate(ctx, map[string]any{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateUnmarshalableInput(t *testing.T) {
	s := compileSignup(t)
	_, err := s.Validate(context.Background(), map[string]any{"fn": func() {}})
	assert.ErrorContains(t, err, "failed to marshal input")
}

func TestCompile(t *testing.T) {
	t.Run("yaml schema", func(t *testing.T) {
		doc := `
type: object
properties:
  age:
    type: integer
required: [age]
`
		s, err := Compile("person", []byte(doc))
		require.NoError(t, err)
		assert.Equal(t, "person", s.Name())

		result, err := s.Validate(context.Background(), map[string]any{"age": "old"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"age": "type"}, kinds(errtree.Flatten(result.Errors)))
	})

	t.Run("invalid schema", func(t *testing.T) {
		_, err := Compile("broken", []byte(`{"type": 12}`))
		assert.ErrorIs(t, err, ErrCompile)
	})

	t.Run("unparseable document", func(t *testing.T) {
		_, err := Compile("broken", []byte(`{"type": `))
		assert.ErrorIs(t, err, ErrCompile)
	})
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signup.schema.json")
	require.NoError(t, os.WriteFile(path, []byte(signupSchema), 0644))

	s, err := CompileFile(path)
	require.NoError(t, err)
	assert.Equal(t, "signup.schema", s.Name())

	_, err = CompileFile(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read schema")
}
