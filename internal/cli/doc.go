// Package cli implements the logpulse command-line interface.
//
// Every command is a Cobra command built by NewRootCmd. Commands share an
// app value that owns the global flags, loads configuration on demand and
// builds the generator client, so tests can run the full tree against a
// fake generator.
//
// # Command Structure
//
//	logpulse monitor           - Live dashboard (default when run on a TTY)
//	logpulse start | stop      - Start or stop the generator
//	logpulse rate [N]          - Change the target rate (prompts when N is omitted)
//	logpulse status | health   - One-shot reads, --json for scripts
//	logpulse config init|show  - Write or inspect configuration
//
// # Flag Handling
//
// Global flags (--config, --url, --timeout, --no-color) live on the root
// command. Flags that map onto config keys are applied after the config
// file and environment, so they win, and are reported as "flag" by
// 'logpulse config show'.
//
// # Errors
//
// Commands return *errors.Error values. Execute prints them once and maps
// *errors.ExitError to the process exit code. With --json the failure is
// written as an envelope on stdout instead.
package cli
