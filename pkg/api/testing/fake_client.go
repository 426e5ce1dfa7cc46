// Package testing provides test doubles for the api package.
package testing

import (
	"context"
	"sync"

	"github.com/rileyhilliard/logpulse/pkg/api"
)

// Call records a single request made against the FakeClient.
type Call struct {
	Method string // "Health", "Status", "Start", "Stop", "UpdateRate"
	Rate   int    // UpdateRate only
}

// FakeClient is a scripted GeneratorClient. Responses and errors are set per
// method; every call is recorded. When a Gate channel is set the call blocks
// until the gate is closed or receives, which lets tests hold a request in
// flight.
type FakeClient struct {
	mu sync.Mutex

	HealthResp api.HealthResponse
	HealthErr  error
	StatusResp api.StatusResponse
	StatusErr  error
	StartErr   error
	StopErr    error
	RateErr    error

	// Gate, if non-nil, blocks every call until it yields.
	Gate chan struct{}

	Calls []Call
}

// NewFakeClient returns a client reporting a healthy, stopped generator.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		HealthResp: api.HealthResponse{Status: api.HealthOK},
		StatusResp: api.StatusResponse{RatePerSecond: 2000},
	}
}

func (f *FakeClient) record(c Call) {
	f.mu.Lock()
	f.Calls = append(f.Calls, c)
	gate := f.Gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
}

// Health returns the scripted health response.
func (f *FakeClient) Health(ctx context.Context) (api.HealthResponse, error) {
	f.record(Call{Method: "Health"})
	if err := ctx.Err(); err != nil {
		return api.HealthResponse{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.HealthResp, f.HealthErr
}

// Status returns the scripted status response.
func (f *FakeClient) Status(ctx context.Context) (api.StatusResponse, error) {
	f.record(Call{Method: "Status"})
	if err := ctx.Err(); err != nil {
		return api.StatusResponse{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.StatusResp, f.StatusErr
}

// Start flips the scripted status to running unless StartErr is set.
func (f *FakeClient) Start(ctx context.Context) (api.MessageResponse, error) {
	f.record(Call{Method: "Start"})
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StartErr != nil {
		return api.MessageResponse{}, f.StartErr
	}
	f.StatusResp.IsRunning = true
	return api.MessageResponse{Message: "log generation started"}, nil
}

// Stop flips the scripted status to stopped unless StopErr is set.
func (f *FakeClient) Stop(ctx context.Context) (api.MessageResponse, error) {
	f.record(Call{Method: "Stop"})
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StopErr != nil {
		return api.MessageResponse{}, f.StopErr
	}
	f.StatusResp.IsRunning = false
	return api.MessageResponse{Message: "log generation stopped"}, nil
}

// UpdateRate applies the rate to the scripted status unless RateErr is set.
func (f *FakeClient) UpdateRate(ctx context.Context, rate int) (api.UpdateRateResponse, error) {
	f.record(Call{Method: "UpdateRate", Rate: rate})
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RateErr != nil {
		return api.UpdateRateResponse{}, f.RateErr
	}
	f.StatusResp.RatePerSecond = rate
	return api.UpdateRateResponse{Message: "rate updated", RatePerSecond: rate}, nil
}

// SetStatus replaces the scripted status response.
func (f *FakeClient) SetStatus(s api.StatusResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatusResp = s
}

// SetStatusErr replaces the scripted status error.
func (f *FakeClient) SetStatusErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatusErr = err
}

// SetHealthErr replaces the scripted health error.
func (f *FakeClient) SetHealthErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.HealthErr = err
}

// CallCount returns how many times method was called.
func (f *FakeClient) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// TotalCalls returns the number of recorded calls across all methods.
func (f *FakeClient) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

var _ api.GeneratorClient = (*FakeClient)(nil)
