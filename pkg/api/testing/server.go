package testing

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/rileyhilliard/logpulse/pkg/api"
)

// FakeServer is an in-memory generator reachable over real HTTP. It mirrors
// the generator's routes and validation without emitting any logs; tests
// move the counter forward with Advance.
type FakeServer struct {
	*httptest.Server

	mu        sync.Mutex
	running   bool
	totalLogs int64
	rate      int
	healthy   bool
	enveloped bool
	requests  map[string]int
}

// NewFakeServer starts a server that is healthy, stopped, and set to 2000 logs/s.
// Call Close when done.
func NewFakeServer() *FakeServer {
	s := &FakeServer{
		rate:     2000,
		healthy:  true,
		requests: make(map[string]int),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.count)

	e.GET(api.PathHealth, s.health)
	e.GET(api.PathStatus, s.status)
	e.POST(api.PathStart, s.start)
	e.POST(api.PathStop, s.stop)
	e.PUT(api.PathRate, s.updateRate)

	s.Server = httptest.NewServer(e)
	return s
}

// Envelope makes every success payload wrapped as {"data": ...}.
func (s *FakeServer) Envelope(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enveloped = on
}

// SetHealthy toggles the /health status between "ok" and "degraded".
func (s *FakeServer) SetHealthy(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthy = ok
}

// Advance adds n to the total log counter.
func (s *FakeServer) Advance(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalLogs += n
}

// Running reports whether the fake generator is running.
func (s *FakeServer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Rate returns the configured rate.
func (s *FakeServer) Rate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// Requests returns how many requests hit "METHOD /path".
func (s *FakeServer) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+path]
}

func (s *FakeServer) count(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.requests[c.Request().Method+" "+c.Path()]++
		s.mu.Unlock()
		return next(c)
	}
}

func (s *FakeServer) reply(c echo.Context, payload interface{}) error {
	s.mu.Lock()
	wrap := s.enveloped
	s.mu.Unlock()
	if wrap {
		return c.JSON(http.StatusOK, map[string]interface{}{"data": payload})
	}
	return c.JSON(http.StatusOK, payload)
}

func (s *FakeServer) health(c echo.Context) error {
	s.mu.Lock()
	status := "degraded"
	if s.healthy {
		status = api.HealthOK
	}
	s.mu.Unlock()
	return s.reply(c, api.HealthResponse{Status: status})
}

func (s *FakeServer) status(c echo.Context) error {
	s.mu.Lock()
	resp := api.StatusResponse{
		IsRunning:     s.running,
		TotalLogs:     s.totalLogs,
		RatePerSecond: s.rate,
	}
	s.mu.Unlock()
	return s.reply(c, resp)
}

func (s *FakeServer) start(c echo.Context) error {
	s.mu.Lock()
	msg := "log generation already running"
	if !s.running {
		s.running = true
		s.totalLogs = 0
		msg = "log generation started"
	}
	s.mu.Unlock()
	return s.reply(c, api.MessageResponse{Message: msg})
}

func (s *FakeServer) stop(c echo.Context) error {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	return s.reply(c, api.MessageResponse{Message: "log generation stopped"})
}

func (s *FakeServer) updateRate(c echo.Context) error {
	var req api.UpdateRateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
	}
	if req.RatePerSecond < api.MinRate || req.RatePerSecond > api.MaxRate {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "rate must be between 1 and 10000"})
	}

	s.mu.Lock()
	s.rate = req.RatePerSecond
	s.mu.Unlock()

	return s.reply(c, api.UpdateRateResponse{
		Message:       "rate updated",
		RatePerSecond: req.RatePerSecond,
	})
}
