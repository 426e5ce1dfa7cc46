package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/logpulse/internal/ui"
)

// Chart layout
const (
	chartHeight    = 6
	chartMinWidth  = 20
	axisLabelWidth = 6
	defaultWidth   = 80
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Layout() {
	case LayoutMinimal:
		b.WriteString(m.renderMinimal())
	case LayoutWide:
		card := m.renderStatusCard(44)
		chart := m.renderChart(m.contentWidth() - 46)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, card, "  ", chart))
	default:
		b.WriteString(m.renderStatusCard(m.contentWidth()))
		b.WriteString("\n")
		b.WriteString(m.renderChart(m.contentWidth()))
	}

	if m.editingRate {
		b.WriteString("\n")
		b.WriteString(InputBoxStyle.Render(m.rateInput.View() + MutedStyle.Render("  logs/s")))
	}

	if errLine := m.renderCommandError(); errLine != "" {
		b.WriteString("\n")
		b.WriteString(errLine)
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) contentWidth() int {
	if m.width == 0 {
		return defaultWidth
	}
	return m.width - 2
}

// renderHeader renders the title, health badge, LIVE badge and staleness marker.
func (m Model) renderHeader() string {
	parts := []string{TitleStyle.Render("logpulse")}
	if m.opts.Endpoint != "" {
		parts = append(parts, LabelStyle.Render(m.opts.Endpoint))
	}
	parts = append(parts, HealthBadge(m.health.Latest()))

	if m.Running() {
		parts = append(parts, BadgeLiveStyle.Render("LIVE"))
	}

	if m.status.Stale() {
		parts = append(parts, StaleStyle.Render(GlyphStale+" stale"))
	}

	return HeaderStyle.Render(strings.Join(parts, " "))
}

// renderMinimal renders a single status line plus a sparkline.
func (m Model) renderMinimal() string {
	line := m.statusText()
	if snap, ok := m.status.Latest(); ok {
		line += LabelStyle.Render(fmt.Sprintf(" | %s total", ui.FormatCount(snap.TotalLogs)))
	}

	rates := m.sampler.SampleWindow().Rates()
	if len(rates) == 0 {
		return line + "\n" + MutedStyle.Render(m.placeholderText())
	}

	latest, _ := m.sampler.SampleWindow().Latest()
	spark := RenderMiniSparkline(rates, m.contentWidth()-12)
	return line + "\n" + spark + " " + ValueStyle.Render(fmt.Sprintf("%s/s", ui.FormatCount(int64(latest.InstantaneousRate))))
}

// statusText renders "◉ running" / "◌ stopped" / "unknown".
func (m Model) statusText() string {
	snap, ok := m.status.Latest()
	switch {
	case !ok:
		return MutedStyle.Render("status unknown")
	case snap.IsRunning:
		return RunningStyle.Render(GlyphRunning + " running")
	default:
		return StoppedStyle.Render(GlyphStopped + " stopped")
	}
}

func (m Model) placeholderText() string {
	if m.Running() {
		return "Waiting for data..."
	}
	return "Start the generator to see throughput"
}

// renderChart renders the logs-per-second section.
func (m Model) renderChart(width int) string {
	if width < chartMinWidth+axisLabelWidth+4 {
		width = chartMinWidth + axisLabelWidth + 4
	}

	window := m.sampler.SampleWindow()
	value := "stopped"
	if m.Running() {
		value = "LIVE"
	}

	var lines []string
	lines = append(lines, SectionHeader("Logs per second", value, width))

	samples := window.Samples()
	if len(samples) == 0 {
		for i := 0; i < chartHeight; i++ {
			text := ""
			if i == chartHeight/2 {
				text = MutedStyle.Render(m.placeholderText())
			}
			lines = append(lines, SectionContentLine(text, width))
		}
		lines = append(lines, SectionFooter(width))
		return strings.Join(lines, "\n")
	}

	ceiling := chartCeiling(window.Rates())
	graphWidth := width - 4 - axisLabelWidth
	graph := strings.Split(RenderRateChart(samples, graphWidth, chartHeight, ceiling), "\n")

	for i, row := range graph {
		label := ""
		switch i {
		case 0:
			label = FormatAxisValue(ceiling)
		case len(graph) - 1:
			label = "0"
		}
		axis := MutedStyle.Render(fmt.Sprintf("%*s ", axisLabelWidth-1, label))
		lines = append(lines, SectionContentLine(axis+row, width))
	}

	stats := fmt.Sprintf("avg %s/s  peak %s/s  %d samples",
		ui.FormatCount(int64(window.Average()+0.5)),
		ui.FormatCount(int64(window.Peak())),
		window.Len())
	if n := countDiscontinuities(samples); n > 0 {
		stats += StaleStyle.Render(fmt.Sprintf("  ╎ %d counter reset", n))
	}
	lines = append(lines, SectionContentLine(LabelStyle.Render(stats), width))
	lines = append(lines, SectionFooter(width))

	return strings.Join(lines, "\n")
}

func countDiscontinuities(samples []RateSample) int {
	n := 0
	for _, s := range samples {
		if s.Discontinuity {
			n++
		}
	}
	return n
}

// renderCommandError shows the retained error of the last command, if any.
func (m Model) renderCommandError() string {
	err := m.commands.LastError()
	if err == nil {
		return ""
	}
	kind, _ := m.commands.LastCommand()
	return ErrorStyle.Render(fmt.Sprintf("%s %s failed: %s", GlyphError, kind, errorSummary(err))) +
		MutedStyle.Render("  (esc to dismiss)")
}

// errorSummary keeps the first line of a structured error, without its glyph.
func errorSummary(err error) string {
	msg := strings.TrimSpace(err.Error())
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return strings.TrimSpace(strings.TrimPrefix(msg, GlyphError))
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	if m.editingRate {
		return FooterStyle.Render("enter apply | esc cancel")
	}

	hints := []string{"q quit"}
	if m.CanStart() {
		hints = append(hints, "s start")
	}
	if m.CanStop() {
		hints = append(hints, "x stop")
	}
	hints = append(hints, "e rate", "r refresh", "? help")

	return FooterStyle.Render(strings.Join(hints, " | "))
}
