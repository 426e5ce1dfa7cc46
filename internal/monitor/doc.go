// Package monitor implements the live dashboard for a remote log generator.
//
// The dashboard polls the generator's status and health endpoints, turns
// successive status snapshots into a rolling logs-per-second window, and lets
// the operator start, stop and retune the generator from the keyboard.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View). Every piece
// of state is mutated from Update on the program goroutine; network calls run
// as tea.Cmd functions and report back as messages.
//
// # Key Components
//
//	Model              - The Bubble Tea model wiring everything together
//	StatusPoller       - Periodic status fetch with skip-while-in-flight and one retry
//	HealthPoller       - Slower health check driving the online/offline badge
//	RateSampler        - Pure baseline/delta computation over StatusSnapshots
//	SampleWindow       - Immutable bounded window of RateSamples
//	CommandCoordinator - Validates and issues start/stop/rate, then forces a refresh
//
// # Message Flow
//
//  1. pollTickMsg fires at the poller interval (default 2s for status)
//  2. the poller dispatches a fetch unless one is already in flight
//  3. pollResultMsg arrives; stale generations and older snapshots are dropped
//  4. the snapshot is fed to the RateSampler, which may append a sample
//  5. View() re-renders the dashboard
//
// Commands follow the same path: commandResultMsg records the outcome and, on
// success, triggers an immediate status refresh.
package monitor
