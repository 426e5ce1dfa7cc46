// Package ui provides terminal output helpers for the logpulse CLI.
//
// The dashboard lives in the monitor package; this package covers the
// one-shot commands (start, stop, rate, status, health, config) and the
// formatting shared with the dashboard.
//
// # Components Overview
//
//	Spinner        - Animated line while a request is in flight
//	RatePrompt     - Huh form asking for a target rate
//	RenderFields   - Aligned key/value output
//	NewTable       - Bubbles table with the CLI styling
//	FormatCount    - Thousands separators for counters
//
// # Color Scheme
//
// The neon palette matches the dashboard:
//
//	ColorSuccess (green) - Running, online, accepted commands
//	ColorError   (red)   - Failures, offline
//	ColorWarning (amber) - Skipped commands, warnings
//	ColorInfo    (cyan)  - Rates and other values
//	ColorMuted   (gray)  - Secondary text, timing info
//
// Use DisableColors() to switch to monochrome output (for --no-color).
//
// # Spinner Usage
//
//	err := ui.RunWithSpinner(os.Stdout, "Starting generator", ui.IsInteractive(),
//		func() (string, error) { ... })
//
// When output is not a terminal the spinner only prints its final line.
package ui
