package mapper

import (
	"strconv"
	"strings"
)

// splitPath splits a flattened dot path into segments. The empty path is the
// document root.
func splitPath(path string) []string {
	if path == "" {
		return []string{}
	}
	return strings.Split(path, ".")
}

// isIndex determines whether a segment looks like an array index
func isIndex(segment string) bool {
	if len(segment) == 0 {
		return false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseIndex returns -1 for segments that are not indices.
func parseIndex(segment string) int {
	if !isIndex(segment) {
		return -1
	}
	i, err := strconv.Atoi(segment)
	if err != nil {
		return -1
	}
	return i
}
