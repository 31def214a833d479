package mapper

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// goccy/go-yaml: "[3:5] sequence end token ']' not found" followed by a
	// source excerpt
	bracketPosition = regexp.MustCompile(`^\[(\d+):(\d+)\]\s*(.*)$`)
	// yaml.v3 style: "yaml: line 3: mapping values are not allowed"
	linePosition = regexp.MustCompile(`yaml: line (\d+):\s*(.*)$`)
)

// ParseErrorPosition extracts the 1-based line and column of a YAML or JSON
// parse error. Line is 0 when the error carries no position; column
// defaults to 1 when only the line is known.
func ParseErrorPosition(err error) (line, column int, message string) {
	if err == nil {
		return 0, 0, ""
	}
	errStr := err.Error()

	for _, candidate := range strings.Split(errStr, "\n") {
		candidate = strings.TrimSpace(candidate)
		// wrapped errors keep the position after the prefix
		if idx := strings.Index(candidate, "["); idx > 0 {
			candidate = candidate[idx:]
		}
		if m := bracketPosition.FindStringSubmatch(candidate); m != nil {
			fmt.Sscanf(m[1], "%d", &line)
			fmt.Sscanf(m[2], "%d", &column)
			return line, column, m[3]
		}
	}

	if m := linePosition.FindStringSubmatch(strings.Split(errStr, "\n")[0]); m != nil {
		fmt.Sscanf(m[1], "%d", &line)
		return line, 1, m[2]
	}

	return 0, 0, errStr
}
