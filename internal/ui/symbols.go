package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Command accepted
	SymbolFail     = "✗" // Command failed
	SymbolPending  = "○" // Not yet started
	SymbolProgress = "◐" // In progress
	SymbolComplete = "●" // Done
	SymbolSkipped  = "⊘" // Skipped (e.g. already running)
	SymbolWarning  = "⚠"
	SymbolRunning  = "◉"
	SymbolStopped  = "◌"
)
