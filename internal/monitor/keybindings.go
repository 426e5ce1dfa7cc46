package monitor

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyStart      = "s"
	KeyStop       = "x"
	KeyRefresh    = "r"
	KeyEditRate   = "e"
	KeySubmit     = "enter"
	KeyCancel     = "esc"
	KeyToggleHelp = "?"
)

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyQuitAlt {
		m.quitting = true
		return true, tea.Quit
	}

	// While editing, every other key belongs to the input field.
	if m.editingRate {
		return true, m.handleRateInputKey(msg)
	}

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key == KeyCancel {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit:
		m.quitting = true
		return true, tea.Quit

	case KeyStart:
		if !m.CanStart() {
			return true, nil
		}
		return true, m.commands.IssueStart()

	case KeyStop:
		if !m.CanStop() {
			return true, nil
		}
		return true, m.commands.IssueStop()

	case KeyRefresh:
		return true, m.status.ForceRefresh()

	case KeyEditRate:
		if m.commands.Outcome(CommandUpdateRate).Pending > 0 {
			return true, nil
		}
		m.editingRate = true
		m.syncRateInput()
		m.rateInput.CursorEnd()
		return true, m.rateInput.Focus()

	case KeyCancel:
		m.commands.DismissError()
		return true, nil
	}

	return false, nil
}

func (m *Model) handleRateInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case KeyCancel:
		m.editingRate = false
		m.rateInput.Blur()
		m.syncRateInput()
		return nil

	case KeySubmit:
		cmd := m.commands.IssueUpdateRateInput(m.rateInput.Value())
		if cmd == nil {
			// Validation failed; keep editing so the user can fix the value.
			return nil
		}
		m.editingRate = false
		m.rateInput.Blur()
		return cmd
	}

	var cmd tea.Cmd
	m.rateInput, cmd = m.rateInput.Update(msg)
	return cmd
}

// CanStart mirrors the disabled state of the start control: not while the
// generator is reported running or a start is already in flight.
func (m Model) CanStart() bool {
	return !m.Running() && m.commands.Outcome(CommandStart).Pending == 0
}

// CanStop mirrors the disabled state of the stop control.
func (m Model) CanStop() bool {
	return m.Running() && m.commands.Outcome(CommandStop).Pending == 0
}
