package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formajs/formbind/pkg/console"
	"github.com/formajs/formbind/pkg/errtree"
)

func TestDiagnose(t *testing.T) {
	doc := []byte(invalidSignup)
	flat := map[string]errtree.FieldError{
		"name":   {Kind: "minLength", Message: "too short"},
		"tags.1": {Kind: "minLength", Message: "empty tag"},
		"email":  {Kind: "required", Message: "missing property 'email'"},
	}

	diagnostics := diagnose("signup.yaml", doc, flat, 1)
	require.Len(t, diagnostics, 3)

	// sorted by path
	assert.Equal(t, "email", diagnostics[0].Path)
	assert.Equal(t, "name", diagnostics[1].Path)
	assert.Equal(t, "tags.1", diagnostics[2].Path)

	name := diagnostics[1]
	assert.Equal(t, console.Position{File: "signup.yaml", Line: 1, Column: 1}, name.Position)
	assert.Equal(t, console.SeverityError, name.Severity)
	assert.Equal(t, "minLength", name.Kind)
	assert.Equal(t, []string{"", "name: Al", "tags:"}, name.Context)
	assert.Empty(t, name.Hint)

	tag := diagnostics[2]
	assert.Equal(t, 4, tag.Position.Line)

	assert.Greater(t, diagnostics[0].Position.Line, 0)
}

func TestDiagnoseUnparseableDocument(t *testing.T) {
	diagnostics := diagnose("bad.yaml", []byte("key: [unclosed"), map[string]errtree.FieldError{
		"key": {Kind: "type", Message: "wrong type"},
	}, 1)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, 0, diagnostics[0].Position.Line)
	assert.Nil(t, diagnostics[0].Context)
}

func TestLocateField(t *testing.T) {
	path := writeFile(t, t.TempDir(), "signup.yaml", invalidSignup)

	var out bytes.Buffer
	require.NoError(t, LocateField(path, "tags.1", "minLength", 0, false, &out))
	assert.Contains(t, out.String(), ":4:")
	assert.Contains(t, out.String(), "tags.1")
	assert.Contains(t, out.String(), "confidence")

	out.Reset()
	require.NoError(t, LocateField(path, "users.3.name", "type", 0, true, &out))
	assert.Contains(t, out.String(), "name")
}
