package monitor

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type scheduledMsg struct {
	after time.Duration
	msg   tea.Msg
}

// fakeClock hands out a settable time and records After calls instead of
// sleeping. After returns nil so no timer goroutine ever runs; tests deliver
// the recorded messages themselves.
type fakeClock struct {
	mu        sync.Mutex
	now       time.Time
	scheduled []scheduledMsg
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: epoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) After(d time.Duration, msg tea.Msg) tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduled = append(c.scheduled, scheduledMsg{after: d, msg: msg})
	return nil
}

// Pop removes and returns the scheduled messages in order.
func (c *fakeClock) Pop() []scheduledMsg {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.scheduled
	c.scheduled = nil
	return out
}

// run executes cmd and flattens any batches into the messages produced.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// single runs cmd and returns its only message, or nil.
func single(cmd tea.Cmd) tea.Msg {
	msgs := run(cmd)
	if len(msgs) != 1 {
		return nil
	}
	return msgs[0]
}
