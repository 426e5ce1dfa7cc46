package api

import "context"

// GeneratorClient defines the operations logpulse performs against the
// generator service. Both the HTTP Client and the fakes in pkg/api/testing
// satisfy this interface.
type GeneratorClient interface {
	// Health fetches GET /health.
	Health(ctx context.Context) (HealthResponse, error)

	// Status fetches GET /logs/status.
	Status(ctx context.Context) (StatusResponse, error)

	// Start issues POST /logs/start. Idempotent when already running.
	Start(ctx context.Context) (MessageResponse, error)

	// Stop issues POST /logs/stop. Idempotent when already stopped.
	Stop(ctx context.Context) (MessageResponse, error)

	// UpdateRate issues PUT /logs/rate.
	UpdateRate(ctx context.Context, rate int) (UpdateRateResponse, error)
}
