package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
	SpinnerSkipped
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const spinnerTick = 80 * time.Millisecond

// Spinner shows an animated line while a request to the generator is in
// flight, then replaces it with the outcome and elapsed time.
type Spinner struct {
	mu        sync.Mutex
	w         io.Writer
	label     string
	detail    string
	state     SpinnerState
	frame     int
	startTime time.Time
	animate   bool
	running   bool
	stopChan  chan struct{}
	doneChan  chan struct{}
	lastWidth int
}

// NewSpinner creates a spinner writing to w. When animate is false (output
// is not a terminal) only the final line is written.
func NewSpinner(w io.Writer, label string, animate bool) *Spinner {
	return &Spinner{w: w, label: label, animate: animate, state: SpinnerPending}
}

// Start begins the animation. Calling Start twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.state = SpinnerInProgress
	s.startTime = time.Now()
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	animate := s.animate
	s.mu.Unlock()

	if !animate {
		close(s.doneChan)
		return
	}

	s.render()
	go s.loop()
}

// Stop halts the animation without changing state.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	<-s.doneChan
}

// Success stops the spinner and prints detail next to the label.
func (s *Spinner) Success(detail string) { s.finish(SpinnerSuccess, detail) }

// Fail stops the spinner and marks it failed.
func (s *Spinner) Fail(detail string) { s.finish(SpinnerFailed, detail) }

// Skip stops the spinner and marks it skipped.
func (s *Spinner) Skip(detail string) { s.finish(SpinnerSkipped, detail) }

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns the time since the spinner started.
func (s *Spinner) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}

func (s *Spinner) finish(state SpinnerState, detail string) {
	s.Stop()
	s.mu.Lock()
	s.state = state
	s.detail = detail
	s.mu.Unlock()
	s.renderFinal()
}

func (s *Spinner) loop() {
	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.mu.Unlock()
			s.render()
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()

	style := lipgloss.NewStyle().Foreground(GradientColors[(s.frame/2)%len(GradientColors)])
	line := fmt.Sprintf("%s %s...", style.Render(spinnerFrames[s.frame]), s.label)
	s.clearLine()
	fmt.Fprint(s.w, "\r"+line)
	s.lastWidth = lipgloss.Width(line)
}

func (s *Spinner) renderFinal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var symbol string
	var style lipgloss.Style
	switch s.state {
	case SpinnerSuccess:
		symbol, style = SymbolSuccess, SuccessStyle()
	case SpinnerFailed:
		symbol, style = SymbolFail, ErrorStyle()
	case SpinnerSkipped:
		symbol, style = SymbolSkipped, WarningStyle()
	default:
		symbol, style = SymbolPending, MutedStyle()
	}

	s.clearLine()

	line := style.Render(symbol) + " " + s.label
	if s.detail != "" {
		line += ": " + s.detail
	}
	line += " " + MutedStyle().Render(FormatDuration(time.Since(s.startTime)))
	fmt.Fprintln(s.w, line)
}

// clearLine wipes the previous animation frame. Caller holds mu.
func (s *Spinner) clearLine() {
	if s.lastWidth == 0 {
		return
	}
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.lastWidth)+"\r")
	s.lastWidth = 0
}

// RunWithSpinner runs fn under a spinner. The message returned by fn is shown
// on success; the error text on failure. The error is returned unchanged.
func RunWithSpinner(w io.Writer, label string, animate bool, fn func() (string, error)) error {
	s := NewSpinner(w, label, animate)
	s.Start()
	msg, err := fn()
	if err != nil {
		s.Fail(firstLine(err.Error()))
		return err
	}
	s.Success(msg)
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(strings.TrimPrefix(s, SymbolFail))
}
