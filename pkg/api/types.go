package api

// StatusResponse is the payload of GET /logs/status.
type StatusResponse struct {
	IsRunning     bool  `json:"is_running"`
	TotalLogs     int64 `json:"total_logs"`
	RatePerSecond int   `json:"rate_per_second"`
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Online reports whether the health payload means the service is up.
func (h HealthResponse) Online() bool {
	return h.Status == HealthOK
}

// HealthOK is the status value reported by a healthy service.
const HealthOK = "ok"

// MessageResponse is the payload of POST /logs/start and POST /logs/stop.
type MessageResponse struct {
	Message string `json:"message"`
}

// UpdateRateRequest is the body of PUT /logs/rate.
type UpdateRateRequest struct {
	RatePerSecond int `json:"rate_per_second"`
}

// UpdateRateResponse is the payload of PUT /logs/rate.
type UpdateRateResponse struct {
	Message       string `json:"message"`
	RatePerSecond int    `json:"rate_per_second"`
}

// ErrorResponse is the body returned with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Rate bounds accepted by the generator.
const (
	MinRate = 1
	MaxRate = 10000
)

// Endpoint paths relative to the base URL.
const (
	PathHealth = "/health"
	PathStatus = "/logs/status"
	PathStart  = "/logs/start"
	PathStop   = "/logs/stop"
	PathRate   = "/logs/rate"
)
