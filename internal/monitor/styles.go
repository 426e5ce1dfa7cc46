package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Semantic colors
	ColorHealthy  = lipgloss.Color("#39FF14") // running, online
	ColorWarning  = lipgloss.Color("#FFAA00") // stale, pending
	ColorCritical = lipgloss.Color("#FF0055") // offline, errors

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")

	// Chart colors
	ColorGraph         = lipgloss.Color("#00FFFF")
	ColorDiscontinuity = lipgloss.Color("#FFAA00")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	// Badges in the header
	BadgeOnlineStyle = lipgloss.NewStyle().
				Foreground(ColorDarkBg).
				Background(ColorHealthy).
				Bold(true).
				Padding(0, 1)

	BadgeOfflineStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(ColorCritical).
				Bold(true).
				Padding(0, 1)

	BadgeUnknownStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(ColorBorder).
				Padding(0, 1)

	BadgeLiveStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1)

	StaleStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	RunningStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy).
			Bold(true)

	StoppedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Bold(true)

	// Rate input box
	InputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)
)

// Status glyphs
const (
	GlyphRunning = "◉"
	GlyphStopped = "◌"
	GlyphStale   = "◔"
	GlyphError   = "✗"
)

// PendingSpinnerFrames animate a command that is still in flight.
var PendingSpinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// PendingSpinner returns the spinner glyph for a frame index.
func PendingSpinner(frame int) string {
	return lipgloss.NewStyle().
		Foreground(ColorWarning).
		Render(PendingSpinnerFrames[frame%len(PendingSpinnerFrames)])
}

// HealthBadge renders the backend health tri-state.
func HealthBadge(h HealthState) string {
	switch h {
	case HealthOnline:
		return BadgeOnlineStyle.Render("online")
	case HealthOffline:
		return BadgeOfflineStyle.Render("offline")
	default:
		return BadgeUnknownStyle.Render("checking")
	}
}

// SectionHeader renders a section header with the title on the left and value on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	// "╭─ " + title + " "
	leftWidth := 3 + lipgloss.Width(title) + 1
	// " " + value + " ╮"
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}
	middle := strings.Repeat("─", fillWidth)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	valueStyle := lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

	return borderStyle.Render("╭─ ") +
		TitleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders a content line with left and right borders, padded to width.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	// "│ " on the left and " │" on the right
	innerWidth := width - 4
	padding := innerWidth - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}
