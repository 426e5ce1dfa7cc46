package monitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/logpulse/internal/errors"
	"github.com/rileyhilliard/logpulse/internal/logger"
	"github.com/rileyhilliard/logpulse/internal/metrics"
	"github.com/rileyhilliard/logpulse/pkg/api"
)

// CommandKind identifies one of the imperative generator commands.
type CommandKind int

const (
	CommandStart CommandKind = iota
	CommandStop
	CommandUpdateRate
)

var commandKinds = []CommandKind{CommandStart, CommandStop, CommandUpdateRate}

// String returns the command name used in logs and metrics.
func (k CommandKind) String() string {
	switch k {
	case CommandStart:
		return "start"
	case CommandStop:
		return "stop"
	case CommandUpdateRate:
		return "rate"
	default:
		return "unknown"
	}
}

// OutcomeState is the observable state of a command kind.
type OutcomeState int

const (
	OutcomeIdle OutcomeState = iota
	OutcomePending
	OutcomeSucceeded
	OutcomeFailed
)

// String returns a human-readable state.
func (s OutcomeState) String() string {
	switch s {
	case OutcomePending:
		return "pending"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Outcome is what presentation sees for one command kind.
type Outcome struct {
	Pending int          // requests of this kind still in flight
	Last    OutcomeState // result of the most recently resolved request
	Err     error        // retained until the next submission of this kind
	Message string       // server message of the last success
}

// State collapses the outcome to a single value; pending wins.
func (o Outcome) State() OutcomeState {
	if o.Pending > 0 {
		return OutcomePending
	}
	return o.Last
}

// Refresher is satisfied by StatusPoller.
type Refresher interface {
	ForceRefresh() tea.Cmd
}

// commandResultMsg reports a resolved command back to the update loop.
type commandResultMsg struct {
	owner   *CommandCoordinator
	kind    CommandKind
	rate    int
	message string
	err     error
}

// CommandCoordinator issues start, stop and rate commands and asks the status
// poller for a fresh snapshot after each success. Commands are dispatched
// independently; nothing is serialized, cancelled or retried.
type CommandCoordinator struct {
	client    api.GeneratorClient
	refresher Refresher
	log       logger.Logger

	outcomes    map[CommandKind]*Outcome
	appliedRate int
	lastKind    CommandKind
	hasLast     bool
}

// NewCommandCoordinator creates a coordinator. log may be nil.
func NewCommandCoordinator(client api.GeneratorClient, refresher Refresher, log logger.Logger) *CommandCoordinator {
	if log == nil {
		log = logger.Noop()
	}
	outcomes := make(map[CommandKind]*Outcome, len(commandKinds))
	for _, k := range commandKinds {
		outcomes[k] = &Outcome{}
	}
	return &CommandCoordinator{
		client:    client,
		refresher: refresher,
		log:       log,
		outcomes:  outcomes,
	}
}

// ValidateRate checks that rate is within the range the generator accepts.
func ValidateRate(rate int) error {
	if rate < api.MinRate || rate > api.MaxRate {
		return errors.New(errors.ErrValidation,
			fmt.Sprintf("rate %d is out of range", rate),
			fmt.Sprintf("Pick a whole number between %d and %d logs per second", api.MinRate, api.MaxRate))
	}
	return nil
}

// ParseRate parses user input into a validated rate.
func ParseRate(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errors.New(errors.ErrValidation,
			"rate is required",
			fmt.Sprintf("Enter a whole number between %d and %d", api.MinRate, api.MaxRate))
	}
	rate, err := strconv.Atoi(text)
	if err != nil {
		return 0, errors.New(errors.ErrValidation,
			fmt.Sprintf("rate %q is not a whole number", text),
			fmt.Sprintf("Enter a whole number between %d and %d", api.MinRate, api.MaxRate))
	}
	if err := ValidateRate(rate); err != nil {
		return 0, err
	}
	return rate, nil
}

// IssueStart dispatches POST /logs/start.
func (c *CommandCoordinator) IssueStart() tea.Cmd {
	client := c.client
	return c.issue(CommandStart, 0, func(ctx context.Context) (string, error) {
		resp, err := client.Start(ctx)
		return resp.Message, err
	})
}

// IssueStop dispatches POST /logs/stop.
func (c *CommandCoordinator) IssueStop() tea.Cmd {
	client := c.client
	return c.issue(CommandStop, 0, func(ctx context.Context) (string, error) {
		resp, err := client.Stop(ctx)
		return resp.Message, err
	})
}

// IssueUpdateRate validates rate locally and dispatches PUT /logs/rate.
// Invalid rates never reach the network; the validation error is recorded as
// the command's outcome and nil is returned.
func (c *CommandCoordinator) IssueUpdateRate(rate int) tea.Cmd {
	if err := ValidateRate(rate); err != nil {
		c.reject(CommandUpdateRate, err)
		return nil
	}
	client := c.client
	return c.issue(CommandUpdateRate, rate, func(ctx context.Context) (string, error) {
		resp, err := client.UpdateRate(ctx, rate)
		return resp.Message, err
	})
}

// IssueUpdateRateInput parses free-form input and behaves like IssueUpdateRate.
func (c *CommandCoordinator) IssueUpdateRateInput(text string) tea.Cmd {
	rate, err := ParseRate(text)
	if err != nil {
		c.reject(CommandUpdateRate, err)
		return nil
	}
	return c.IssueUpdateRate(rate)
}

func (c *CommandCoordinator) reject(kind CommandKind, err error) {
	o := c.outcomes[kind]
	o.Last = OutcomeFailed
	o.Err = err
	c.lastKind, c.hasLast = kind, true
	metrics.IncCommand(kind.String(), "invalid")
	c.log.Debug("%s rejected locally: %v", kind, err)
}

func (c *CommandCoordinator) issue(kind CommandKind, rate int, call func(ctx context.Context) (string, error)) tea.Cmd {
	o := c.outcomes[kind]
	o.Pending++
	o.Err = nil
	c.log.Debug("issuing %s", kind)

	owner := c
	return func() tea.Msg {
		msg, err := call(context.Background())
		return commandResultMsg{owner: owner, kind: kind, rate: rate, message: msg, err: err}
	}
}

// Update applies a resolved command. On success it returns the forced status
// refresh; on failure it retains the error and returns nil.
func (c *CommandCoordinator) Update(msg tea.Msg) tea.Cmd {
	res, ok := msg.(commandResultMsg)
	if !ok || res.owner != c {
		return nil
	}

	o := c.outcomes[res.kind]
	if o.Pending > 0 {
		o.Pending--
	}
	c.lastKind, c.hasLast = res.kind, true

	if res.err != nil {
		o.Last = OutcomeFailed
		o.Err = res.err
		metrics.IncCommand(res.kind.String(), "failure")
		c.log.Warn("%s failed: %v", res.kind, res.err)
		return nil
	}

	o.Last = OutcomeSucceeded
	o.Err = nil
	o.Message = res.message
	if res.kind == CommandUpdateRate {
		c.appliedRate = res.rate
	}
	metrics.IncCommand(res.kind.String(), "success")
	c.log.Debug("%s succeeded: %s", res.kind, res.message)

	if c.refresher == nil {
		return nil
	}
	return c.refresher.ForceRefresh()
}

// Outcome returns a copy of the outcome for kind.
func (c *CommandCoordinator) Outcome(kind CommandKind) Outcome {
	if o, ok := c.outcomes[kind]; ok {
		return *o
	}
	return Outcome{}
}

// Busy reports whether any command is in flight.
func (c *CommandCoordinator) Busy() bool {
	for _, o := range c.outcomes {
		if o.Pending > 0 {
			return true
		}
	}
	return false
}

// LastError returns the retained error of the most recently resolved command,
// or nil if it succeeded.
func (c *CommandCoordinator) LastError() error {
	if !c.hasLast {
		return nil
	}
	return c.outcomes[c.lastKind].Err
}

// LastCommand returns the kind of the most recently resolved command.
func (c *CommandCoordinator) LastCommand() (CommandKind, bool) {
	return c.lastKind, c.hasLast
}

// AppliedRate returns the rate of the last successful update, or 0.
func (c *CommandCoordinator) AppliedRate() int {
	return c.appliedRate
}

// DismissError clears every retained error.
func (c *CommandCoordinator) DismissError() {
	for _, o := range c.outcomes {
		o.Err = nil
	}
}
