package monitor

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/logpulse/internal/logger"
	"github.com/rileyhilliard/logpulse/pkg/api"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutMinimal is for terminals < 60 columns or < 16 rows: one-line sparkline
	LayoutMinimal LayoutMode = iota
	// LayoutStandard shows the status card and the braille chart
	LayoutStandard
	// LayoutWide places the status card beside the chart
	LayoutWide
)

// Width breakpoints for layout modes
const (
	BreakpointStandard = 60
	BreakpointWide     = 120
	HeightMinimal      = 16
)

// DefaultRate pre-fills the rate input before the generator reports one.
const DefaultRate = 2000

// spinnerInterval is the animation frame rate for pending commands.
const spinnerInterval = 150 * time.Millisecond

// Options configures the dashboard.
type Options struct {
	StatusInterval time.Duration
	HealthInterval time.Duration
	DefaultRate    int
	WindowSize     int
	Poller         PollerOptions
	Logger         logger.Logger
	Endpoint       string // shown in the header
}

// DefaultOptions returns the dashboard defaults.
func DefaultOptions() Options {
	return Options{
		StatusInterval: DefaultStatusInterval,
		HealthInterval: DefaultHealthInterval,
		DefaultRate:    DefaultRate,
		WindowSize:     DefaultWindowSize,
		Poller:         DefaultPollerOptions(),
		Logger:         logger.NewEnvLogger("[monitor]"),
	}
}

// Model is the Bubble Tea model for the generator dashboard. It owns the
// pollers, the sampler and the command coordinator; all of their state is
// mutated from Update only.
type Model struct {
	opts Options
	log  logger.Logger

	status   *StatusPoller
	health   *HealthPoller
	sampler  *RateSampler
	commands *CommandCoordinator

	rateInput   textinput.Model
	editingRate bool

	width    int
	height   int
	showHelp bool
	quitting bool

	spinnerFrame int
	lastStep     StepResult
}

// spinnerTickMsg advances the pending-command spinner.
type spinnerTickMsg time.Time

// NewModel creates a dashboard for client.
func NewModel(client api.GeneratorClient, opts Options) Model {
	if opts.DefaultRate <= 0 {
		opts.DefaultRate = DefaultRate
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Poller.Logger == nil {
		opts.Poller.Logger = opts.Logger
	}

	status := NewStatusPoller(client, opts.Poller)

	input := textinput.New()
	input.Placeholder = strconv.Itoa(opts.DefaultRate)
	input.CharLimit = 5
	input.Width = 8
	input.Prompt = "rate › "
	input.SetValue(strconv.Itoa(opts.DefaultRate))

	return Model{
		opts:      opts,
		log:       opts.Logger,
		status:    status,
		health:    NewHealthPoller(client, opts.Poller),
		sampler:   NewRateSampler(opts.WindowSize, opts.Logger),
		commands:  NewCommandCoordinator(client, status, opts.Logger),
		rateInput: input,
	}
}

// Init starts both pollers and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.status.Start(m.opts.StatusInterval),
		m.health.Start(m.opts.HealthInterval),
		m.spinnerTickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinnerTickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % 10000
		return m, m.spinnerTickCmd()

	case pollTickMsg, pollResultMsg[api.StatusResponse], pollResultMsg[api.HealthResponse]:
		return m, m.routePoll(msg)

	case commandResultMsg:
		return m, m.commands.Update(msg)
	}

	return m, nil
}

// routePoll hands poller messages to their owner and feeds new snapshots to
// the sampler.
func (m *Model) routePoll(msg tea.Msg) tea.Cmd {
	statusCmd, snap := m.status.Update(msg)
	if snap != nil {
		m.lastStep = m.sampler.OnSnapshot(*snap)
		if !m.editingRate {
			m.syncRateInput()
		}
	}
	healthCmd, _ := m.health.Update(msg)
	return tea.Batch(statusCmd, healthCmd)
}

// syncRateInput resets the rate field to the authoritative rate.
func (m *Model) syncRateInput() {
	m.rateInput.SetValue(strconv.Itoa(m.CurrentRate()))
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// Stop cancels both pollers. Called when the program exits.
func (m Model) Stop() {
	m.status.Stop()
	m.health.Stop()
}

func (m Model) spinnerTickCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// Layout returns the layout mode for the current terminal size.
func (m Model) Layout() LayoutMode {
	switch {
	case m.width == 0:
		return LayoutStandard
	case m.width < BreakpointStandard || (m.height > 0 && m.height < HeightMinimal):
		return LayoutMinimal
	case m.width >= BreakpointWide:
		return LayoutWide
	default:
		return LayoutStandard
	}
}

// Running reports whether the latest snapshot says the generator is running.
func (m Model) Running() bool {
	snap, ok := m.status.Latest()
	return ok && snap.IsRunning
}

// CurrentRate is the rate shown in the input: the reported rate, then the last
// applied one, then the default.
func (m Model) CurrentRate() int {
	if snap, ok := m.status.Latest(); ok && snap.RatePerSecond > 0 {
		return snap.RatePerSecond
	}
	if r := m.commands.AppliedRate(); r > 0 {
		return r
	}
	return m.opts.DefaultRate
}

// Window returns the current samples, oldest first.
func (m Model) Window() []RateSample {
	return m.sampler.Window()
}

// StatusPoller exposes the status poller.
func (m Model) StatusPoller() *StatusPoller { return m.status }

// HealthPoller exposes the health poller.
func (m Model) HealthPoller() *HealthPoller { return m.health }

// Commands exposes the command coordinator.
func (m Model) Commands() *CommandCoordinator { return m.commands }
