package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#BD93F9")).
				Background(lipgloss.Color("#44475A"))

	tableCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	tableBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6272A4"))

	tableSeparatorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#44475A"))
)

// TableConfig describes a table of field errors or binder names.
type TableConfig struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  []string // rendered below a separator when set
}

// RenderTable renders a formatted table using lipgloss
func RenderTable(config TableConfig) string {
	if len(config.Headers) == 0 {
		return ""
	}

	var output strings.Builder

	if config.Title != "" {
		output.WriteString(applyStyle(successStyle, config.Title))
		output.WriteString("\n")
	}

	widths := make([]int, len(config.Headers))
	for i, header := range config.Headers {
		widths[i] = len(header)
	}
	measure := func(row []string) {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for _, row := range config.Rows {
		measure(row)
	}
	measure(config.Footer)

	separator := make([]string, len(widths))
	for i, width := range widths {
		separator[i] = strings.Repeat("-", width)
	}

	output.WriteString(renderTableRow(config.Headers, widths, tableHeaderStyle))
	output.WriteString("\n")
	output.WriteString(renderTableRow(separator, widths, tableSeparatorStyle))
	output.WriteString("\n")

	for _, row := range config.Rows {
		output.WriteString(renderTableRow(row, widths, tableCellStyle))
		output.WriteString("\n")
	}

	if len(config.Footer) > 0 {
		output.WriteString(renderTableRow(separator, widths, tableSeparatorStyle))
		output.WriteString("\n")
		output.WriteString(renderTableRow(config.Footer, widths, successStyle))
		output.WriteString("\n")
	}

	return output.String()
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	var row strings.Builder
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		row.WriteString(applyStyle(style, fmt.Sprintf("%-*s", widths[i], cell)))
		if i < len(cells)-1 && i < len(widths)-1 {
			row.WriteString(applyStyle(tableBorderStyle, " | "))
		}
	}
	return row.String()
}
