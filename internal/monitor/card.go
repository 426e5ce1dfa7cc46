package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/logpulse/internal/ui"
)

const cardLabelWidth = 14

var cardLabelStyle = LabelStyle.Width(cardLabelWidth)

// renderStatusCard renders the generator status and the control row.
func (m Model) renderStatusCard(width int) string {
	snap, known := m.status.Latest()

	title := "unknown"
	if known {
		title = "stopped"
		if snap.IsRunning {
			title = "running"
		}
	}

	var lines []string
	lines = append(lines, SectionHeader("Generator", title, width))
	lines = append(lines, SectionContentLine(cardRow("Status", m.statusText()), width))

	target := MutedStyle.Render("-")
	total := MutedStyle.Render("-")
	if known {
		target = ValueStyle.Render(ui.FormatCount(int64(snap.RatePerSecond))) + MutedStyle.Render(" logs/s")
		total = ValueStyle.Render(ui.FormatCount(snap.TotalLogs))
	}
	lines = append(lines, SectionContentLine(cardRow("Target rate", target), width))
	lines = append(lines, SectionContentLine(cardRow("Total logs", total), width))

	observed := MutedStyle.Render("-")
	if latest, ok := m.sampler.SampleWindow().Latest(); ok {
		observed = ValueStyle.Render(ui.FormatCount(int64(latest.InstantaneousRate))) + MutedStyle.Render(" logs/s")
		if latest.Discontinuity {
			observed += StaleStyle.Render(" (counter reset)")
		}
	}
	lines = append(lines, SectionContentLine(cardRow("Observed", observed), width))

	if err := m.status.LastError(); err != nil {
		lines = append(lines, SectionContentLine(cardRow("Last poll", StaleStyle.Render(truncateWithEllipsis(errorSummary(err), width-cardLabelWidth-6))), width))
	}

	lines = append(lines, SectionContentLine("", width))
	lines = append(lines, SectionContentLine(m.renderControls(), width))
	lines = append(lines, SectionFooter(width))

	return strings.Join(lines, "\n")
}

func cardRow(label, value string) string {
	return cardLabelStyle.Render(label) + value
}

// renderControls renders the start/stop/rate controls with their pending and
// disabled states.
func (m Model) renderControls() string {
	controls := []string{
		m.renderControl("s", "start", CommandStart, m.CanStart()),
		m.renderControl("x", "stop", CommandStop, m.CanStop()),
		m.renderControl("e", "rate", CommandUpdateRate, m.commands.Outcome(CommandUpdateRate).Pending == 0),
	}
	return strings.Join(controls, "  ")
}

func (m Model) renderControl(key, label string, kind CommandKind, enabled bool) string {
	if m.commands.Outcome(kind).State() == OutcomePending {
		return PendingSpinner(m.spinnerFrame) + " " + StaleStyle.Render(label+"...")
	}

	text := fmt.Sprintf("[%s] %s", key, label)
	if !enabled {
		return MutedStyle.Render(text)
	}
	return lipgloss.NewStyle().Foreground(ColorTextPrimary).Bold(true).Render(text)
}

// truncateWithEllipsis truncates a string to maxLen, adding ellipsis if needed.
func truncateWithEllipsis(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}
