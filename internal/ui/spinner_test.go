package ui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a strings.Builder safe for the spinner goroutine.
type syncBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "Testing", true)
	assert.Equal(t, SpinnerPending, s.State())
	assert.Equal(t, time.Duration(0), s.Elapsed())
}

func TestSpinnerSuccess(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinner(buf, "Starting generator", true)

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	time.Sleep(20 * time.Millisecond)
	s.Success("log generation started")

	assert.Equal(t, SpinnerSuccess, s.State())
	out := buf.String()
	assert.Contains(t, out, SymbolSuccess)
	assert.Contains(t, out, "Starting generator: log generation started")
}

func TestSpinnerFail(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinner(buf, "Stopping generator", true)

	s.Start()
	s.Fail("connection refused")

	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, buf.String(), SymbolFail)
	assert.Contains(t, buf.String(), "connection refused")
}

func TestSpinnerSkip(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinner(buf, "Starting generator", true)

	s.Start()
	s.Skip("already running")

	assert.Equal(t, SpinnerSkipped, s.State())
	assert.Contains(t, buf.String(), SymbolSkipped)
}

func TestSpinnerNotAnimatedPrintsOnlyFinalLine(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinner(buf, "Updating rate", false)

	s.Start()
	time.Sleep(2 * spinnerTick)
	s.Success("rate updated")

	out := buf.String()
	assert.NotContains(t, out, "\r")
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "Updating rate: rate updated")
}

func TestSpinnerDoubleStartStop(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "Test", true)

	s.Start()
	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())

	s.Stop()
	s.Stop()
	assert.Equal(t, SpinnerInProgress, s.State())
}

func TestSpinnerConcurrentAccess(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "Test", true)
	s.Start()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.State()
			_ = s.Elapsed()
		}()
	}

	wg.Wait()
	s.Success("")

	require.Equal(t, SpinnerSuccess, s.State())
}

func TestRunWithSpinner(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		buf := &syncBuffer{}
		err := RunWithSpinner(buf, "Starting generator", false, func() (string, error) {
			return "log generation started", nil
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "log generation started")
	})

	t.Run("failure returns the error unchanged", func(t *testing.T) {
		buf := &syncBuffer{}
		want := errors.New("✗ API rejected the request\n\n  details")
		err := RunWithSpinner(buf, "Stopping generator", false, func() (string, error) {
			return "", want
		})
		assert.Same(t, want, err)
		assert.Contains(t, buf.String(), "API rejected the request")
		assert.NotContains(t, buf.String(), "details")
	})
}
