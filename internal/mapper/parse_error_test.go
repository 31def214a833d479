package mapper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestParseErrorPosition(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedLine    int
		expectedColumn  int
		expectedMessage string
	}{
		{
			name:            "goccy bracket format",
			err:             errors.New("[3:5] sequence end token ']' not found\n   1 | a: 1\n>  3 | b: [1"),
			expectedLine:    3,
			expectedColumn:  5,
			expectedMessage: "sequence end token ']' not found",
		},
		{
			name:            "wrapped goccy error",
			err:             fmt.Errorf("yaml parse error: %w", errors.New("[2:1] could not find expected ':'")),
			expectedLine:    2,
			expectedColumn:  1,
			expectedMessage: "could not find expected ':'",
		},
		{
			name:            "line only",
			err:             errors.New("yaml: line 7: mapping values are not allowed in this context"),
			expectedLine:    7,
			expectedColumn:  1,
			expectedMessage: "mapping values are not allowed in this context",
		},
		{
			name:            "no position",
			err:             errors.New("unexpected end of input"),
			expectedMessage: "unexpected end of input",
		},
		{
			name: "nil error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, column, message := ParseErrorPosition(tt.err)
			if line != tt.expectedLine {
				t.Errorf("Expected line %d, got %d", tt.expectedLine, line)
			}
			if column != tt.expectedColumn {
				t.Errorf("Expected column %d, got %d", tt.expectedColumn, column)
			}
			if message != tt.expectedMessage {
				t.Errorf("Expected message %q, got %q", tt.expectedMessage, message)
			}
		})
	}
}

func TestParseErrorPositionFromParser(t *testing.T) {
	var out any
	err := yaml.Unmarshal([]byte("name: ok\ntags: [a, b\n"), &out)
	if err == nil {
		t.Fatal("Expected parse error")
	}

	line, column, message := ParseErrorPosition(err)
	if line < 1 || column < 1 {
		t.Errorf("Expected a position, got %d:%d (%q)", line, column, err.Error())
	}
	if message == "" {
		t.Error("Expected a message")
	}
}
