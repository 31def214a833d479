package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Severity of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Position is a 1-based location in a source document.
type Position struct {
	File   string
	Line   int
	Column int
}

// Diagnostic is a field error located in the document that produced it.
type Diagnostic struct {
	Position Position
	Severity Severity
	Path     string // flattened field path, e.g. "users.0.email"
	Kind     string // schema keyword that failed
	Message  string
	Context  []string // source lines centered on Position.Line
	Hint     string
}

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))

	infoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B"))

	filePathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BD93F9"))

	fieldPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	contextLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F8F8F2"))

	highlightStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF5555")).
			Foreground(lipgloss.Color("#282A36"))

	hintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#50FA7B"))

	verboseStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6272A4"))
)

func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

// applyStyle conditionally applies styling based on TTY status
func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// ToRelativePath converts an absolute path to a relative path from the current working directory
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	relPath, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return relPath
}

// SourceContext returns up to radius lines either side of line (1-based).
// The slice is centered on line so it can be passed as Diagnostic.Context.
func SourceContext(doc []byte, line, radius int) []string {
	if line < 1 || radius < 0 {
		return nil
	}
	lines := strings.Split(strings.TrimRight(string(doc), "\n"), "\n")
	if line > len(lines) {
		return nil
	}
	var out []string
	for n := line - radius; n <= line+radius; n++ {
		if n < 1 || n > len(lines) {
			// keep the slice centered
			out = append(out, "")
			continue
		}
		out = append(out, lines[n-1])
	}
	return out
}

// FormatDiagnostic renders a diagnostic in file:line:column form followed by
// the source excerpt and an optional hint.
func FormatDiagnostic(d Diagnostic) string {
	var output strings.Builder

	typeStyle := errorStyle
	prefix := string(SeverityError)
	switch d.Severity {
	case SeverityWarning:
		typeStyle, prefix = warningStyle, string(SeverityWarning)
	case SeverityInfo:
		typeStyle, prefix = infoStyle, string(SeverityInfo)
	}

	if d.Position.File != "" {
		location := fmt.Sprintf("%s:%d:%d:", ToRelativePath(d.Position.File), d.Position.Line, d.Position.Column)
		output.WriteString(applyStyle(filePathStyle, location))
		output.WriteString(" ")
	}

	output.WriteString(applyStyle(typeStyle, prefix+":"))
	output.WriteString(" ")
	if d.Path != "" {
		output.WriteString(applyStyle(fieldPathStyle, d.Path))
		output.WriteString(" ")
	}
	output.WriteString(d.Message)
	if d.Kind != "" {
		output.WriteString(" [" + d.Kind + "]")
	}
	output.WriteString("\n")

	if len(d.Context) > 0 && d.Position.Line > 0 {
		output.WriteString(renderContext(d))
	}

	if d.Hint != "" {
		output.WriteString(applyStyle(hintStyle, "hint: "))
		output.WriteString(d.Hint)
		output.WriteString("\n")
	}

	return output.String()
}

func renderContext(d Diagnostic) string {
	var output strings.Builder

	half := len(d.Context) / 2
	lineNumWidth := len(fmt.Sprintf("%d", d.Position.Line+half))

	for i, line := range d.Context {
		lineNum := d.Position.Line - half + i
		if lineNum < 1 {
			continue
		}

		output.WriteString(applyStyle(lineNumberStyle, fmt.Sprintf("%*d", lineNumWidth, lineNum)))
		output.WriteString(" | ")

		if lineNum != d.Position.Line {
			output.WriteString(applyStyle(contextLineStyle, line))
			output.WriteString("\n")
			continue
		}

		col := d.Position.Column
		if col > 0 && col <= len(line) {
			output.WriteString(applyStyle(contextLineStyle, line[:col-1]))
			output.WriteString(applyStyle(highlightStyle, line[col-1:col]))
			output.WriteString(applyStyle(contextLineStyle, line[col:]))
		} else {
			output.WriteString(applyStyle(highlightStyle, line))
		}
		output.WriteString("\n")

		if col > 0 {
			output.WriteString(strings.Repeat(" ", lineNumWidth+3+col-1))
			output.WriteString(applyStyle(errorStyle, "^"))
			output.WriteString("\n")
		}
	}

	return output.String()
}

// FormatSuccessMessage formats a success message with styling
func FormatSuccessMessage(message string) string {
	return applyStyle(successStyle, "✓ ") + message
}

// FormatInfoMessage formats an informational message
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "ℹ ") + message
}

// FormatWarningMessage formats a warning message
func FormatWarningMessage(message string) string {
	return applyStyle(warningStyle, "⚠ ") + message
}

// FormatErrorMessage formats a simple error message (for stderr output)
func FormatErrorMessage(message string) string {
	return applyStyle(errorStyle, "✗ ") + message
}

// FormatVerboseMessage formats verbose debugging output
func FormatVerboseMessage(message string) string {
	return applyStyle(verboseStyle, "🔍 ") + message
}

// FormatListHeader formats a section header for lists
func FormatListHeader(header string) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Foreground(lipgloss.Color("#50FA7B"))

	return applyStyle(headerStyle, header)
}

// FormatListItem formats an item in a list
func FormatListItem(item string) string {
	return applyStyle(contextLineStyle, "  • "+item)
}
