package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/stretchr/testify/assert"
)

func TestNewTable(t *testing.T) {
	columns := []TableColumn{
		{Title: "Key", Width: 24},
		{Title: "Value", Width: 24},
	}
	rows := []table.Row{
		{"api.url", "http://localhost:8080"},
		{"poll.status_interval", "2s"},
	}

	view := NewTable(columns, rows).View()
	assert.Contains(t, view, "Key")
	assert.Contains(t, view, "Value")
	assert.Contains(t, view, "api.url")
	assert.Contains(t, view, "poll.status_interval")
}

func TestNewTable_EmptyRows(t *testing.T) {
	view := NewTable([]TableColumn{{Title: "Key", Width: 10}}, []table.Row{}).View()
	assert.Contains(t, view, "Key")
}

func TestRenderFields_Aligned(t *testing.T) {
	out := RenderFields([]Field{
		{Label: "A", Value: "one"},
		{Label: "Longer", Value: "two"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, strings.Index(lines[0], "one"), strings.Index(lines[1], "two"))
}

func TestRenderGeneratorSummary(t *testing.T) {
	tests := []struct {
		name     string
		summary  GeneratorSummary
		contains []string
		excludes []string
	}{
		{
			name:     "running",
			summary:  GeneratorSummary{Endpoint: "http://gen:8080", Running: true, Rate: 2000, TotalLogs: 1234567},
			contains: []string{"http://gen:8080", "running", "2,000 logs/s", "1,234,567"},
			excludes: []string{"Health"},
		},
		{
			name:     "stopped and offline",
			summary:  GeneratorSummary{Rate: 50, Health: "offline"},
			contains: []string{"stopped", "50 logs/s", "Health", "offline"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderGeneratorSummary(tt.summary)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 4))
}
