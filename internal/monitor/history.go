package monitor

// DefaultWindowSize is the number of rate samples kept for the chart
// (30 seconds at one sample per second).
const DefaultWindowSize = 30

// SampleWindow is a bounded, insertion-ordered buffer of rate samples.
// It is a value type: Push and Cleared return a new window and never modify
// the receiver, so a SamplerState can be copied freely.
type SampleWindow struct {
	samples  []RateSample
	capacity int
}

// NewSampleWindow creates an empty window holding at most capacity samples.
func NewSampleWindow(capacity int) SampleWindow {
	if capacity <= 0 {
		capacity = DefaultWindowSize
	}
	return SampleWindow{capacity: capacity}
}

// Capacity returns the maximum number of samples retained.
func (w SampleWindow) Capacity() int {
	if w.capacity <= 0 {
		return DefaultWindowSize
	}
	return w.capacity
}

// Len returns the number of samples currently held.
func (w SampleWindow) Len() int {
	return len(w.samples)
}

// Push returns a window with s appended, evicting the oldest sample when the
// capacity would be exceeded.
func (w SampleWindow) Push(s RateSample) SampleWindow {
	capacity := w.Capacity()

	start := 0
	if len(w.samples)+1 > capacity {
		start = len(w.samples) + 1 - capacity
	}

	next := make([]RateSample, 0, capacity)
	next = append(next, w.samples[start:]...)
	next = append(next, s)

	return SampleWindow{samples: next, capacity: capacity}
}

// Cleared returns an empty window with the same capacity.
func (w SampleWindow) Cleared() SampleWindow {
	return SampleWindow{capacity: w.Capacity()}
}

// Samples returns a copy of all samples, oldest first.
func (w SampleWindow) Samples() []RateSample {
	return w.Last(len(w.samples))
}

// Last returns the last count samples in chronological order (oldest first).
// Returns fewer samples if not enough are available.
func (w SampleWindow) Last(count int) []RateSample {
	if count <= 0 || len(w.samples) == 0 {
		return nil
	}
	if count > len(w.samples) {
		count = len(w.samples)
	}

	out := make([]RateSample, count)
	copy(out, w.samples[len(w.samples)-count:])
	return out
}

// Latest returns the most recent sample.
func (w SampleWindow) Latest() (RateSample, bool) {
	if len(w.samples) == 0 {
		return RateSample{}, false
	}
	return w.samples[len(w.samples)-1], true
}

// Rates returns the instantaneous rates as float64 for graph rendering.
func (w SampleWindow) Rates() []float64 {
	if len(w.samples) == 0 {
		return nil
	}
	out := make([]float64, len(w.samples))
	for i, s := range w.samples {
		out[i] = float64(s.InstantaneousRate)
	}
	return out
}

// Peak returns the highest rate in the window.
func (w SampleWindow) Peak() int {
	peak := 0
	for _, s := range w.samples {
		if s.InstantaneousRate > peak {
			peak = s.InstantaneousRate
		}
	}
	return peak
}

// Average returns the mean rate across the window, or 0 when empty.
func (w SampleWindow) Average() float64 {
	if len(w.samples) == 0 {
		return 0
	}
	var sum int
	for _, s := range w.samples {
		sum += s.InstantaneousRate
	}
	return float64(sum) / float64(len(w.samples))
}
