package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a non-focused Bubbles table with the CLI styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	// Nothing is selectable; render the cursor row like any other.
	s.Selected = s.Cell

	t.SetStyles(s)
	// Header line plus its bottom border.
	t.SetHeight(len(rows) + 2)
	return t
}

// Field is one line of key/value output.
type Field struct {
	Label string
	Value string
}

// RenderFields renders aligned "label  value" lines for CLI output.
func RenderFields(fields []Field) string {
	width := 0
	for _, f := range fields {
		if w := lipgloss.Width(f.Label); w > width {
			width = w
		}
	}

	var b strings.Builder
	for _, f := range fields {
		b.WriteString("  ")
		b.WriteString(LabelStyle().Render(padRight(f.Label, width)))
		b.WriteString("  ")
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	return b.String()
}

// GeneratorSummary is the human view of one status read.
type GeneratorSummary struct {
	Endpoint  string
	Running   bool
	Rate      int
	TotalLogs int64
	Health    string // "online", "offline" or "" when not checked
}

// RenderGeneratorSummary renders the status command output.
func RenderGeneratorSummary(s GeneratorSummary) string {
	state := lipgloss.NewStyle().Foreground(ColorMuted).Render(SymbolStopped + " stopped")
	if s.Running {
		state = SuccessStyle().Render(SymbolRunning + " running")
	}

	fields := []Field{
		{Label: "Endpoint", Value: s.Endpoint},
		{Label: "Status", Value: state},
		{Label: "Target rate", Value: InfoStyle().Render(FormatRate(s.Rate))},
		{Label: "Total logs", Value: FormatCount(s.TotalLogs)},
	}

	switch s.Health {
	case "online":
		fields = append(fields, Field{Label: "Health", Value: SuccessStyle().Render(s.Health)})
	case "":
	default:
		fields = append(fields, Field{Label: "Health", Value: ErrorStyle().Render(s.Health)})
	}

	return RenderFields(fields)
}

// padRight pads a string to the specified visible width.
func padRight(s string, width int) string {
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
