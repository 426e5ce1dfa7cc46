package monitor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Clock supplies time to the pollers. Production code uses RealClock; tests
// inject a fake that records scheduled messages instead of sleeping.
type Clock interface {
	Now() time.Time

	// After returns a command that delivers msg once d has elapsed.
	After(d time.Duration, msg tea.Msg) tea.Cmd
}

type realClock struct{}

// RealClock returns a Clock backed by time.Now and tea.Tick.
func RealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) After(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return msg
	})
}
