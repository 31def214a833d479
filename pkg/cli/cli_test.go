package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const signupSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string", "minLength": 3},
    "email": {"type": "string"},
    "tags": {"type": "array", "items": {"type": "string", "minLength": 1}}
  },
  "required": ["name", "email"]
}`

const invalidSignup = `name: Al
tags:
  - a
  - ""
`

const validSignup = `name: Ada
email: ada@example.com
`

// writeFile writes content under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
