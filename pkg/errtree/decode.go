package errtree

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-yaml"
)

// Decode parses a JSON or YAML error tree document into the raw form
// accepted by Classify. An empty document decodes to nil.
func Decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode error tree: %w", err)
	}
	return tree, nil
}
