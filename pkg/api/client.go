// Package api provides the HTTP client for the log generator service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rileyhilliard/logpulse/internal/logger"
)

// DefaultBaseURL is where the generator listens when nothing is configured.
const DefaultBaseURL = "http://localhost:8080"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// Client talks to the generator over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// Config holds client configuration.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Logger     logger.Logger // Optional, defaults to a "[api]" env logger
	HTTPClient *http.Client  // Optional, overrides Timeout when set
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// StatusError is returned when the generator answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// ClientError reports whether the generator rejected the request itself (4xx).
func (e *StatusError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// New creates a generator client.
func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Logger == nil {
		config.Logger = logger.NewEnvLogger("[api]")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		http:    httpClient,
		log:     config.Logger,
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health fetches the liveness status.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, PathHealth, nil, &out)
	return out, err
}

// Status fetches the generator status.
func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	var out StatusResponse
	err := c.do(ctx, http.MethodGet, PathStatus, nil, &out)
	return out, err
}

// Start asks the generator to begin emitting logs.
func (c *Client) Start(ctx context.Context) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, PathStart, nil, &out)
	return out, err
}

// Stop asks the generator to stop emitting logs.
func (c *Client) Stop(ctx context.Context) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, PathStop, nil, &out)
	return out, err
}

// UpdateRate changes the target emission rate. The client does not validate
// the value; the generator rejects out-of-range rates with a 4xx.
func (c *Client) UpdateRate(ctx context.Context, rate int) (UpdateRateResponse, error) {
	var out UpdateRateResponse
	err := c.do(ctx, http.MethodPut, PathRate, UpdateRateRequest{RatePerSecond: rate}, &out)
	return out, err
}

// do performs a JSON request and decodes the (possibly enveloped) payload into out.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("%s %s", method, url)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(unwrapEnvelope(raw), out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) statusError(code int, raw []byte) error {
	var msg string
	var errResp ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil {
		msg = errResp.Error
	} else {
		// Plain text bodies from proxies.
		msg = strings.TrimSpace(string(raw))
	}
	c.log.Debug("request failed: status=%d error=%q", code, msg)
	return &StatusError{StatusCode: code, Message: msg}
}

// unwrapEnvelope returns the "data" member when the body is an envelope, or
// the body unchanged when it is a bare payload.
func unwrapEnvelope(raw []byte) []byte {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return raw
	}
	data, ok := probe["data"]
	if !ok || len(data) == 0 || string(data) == "null" {
		return raw
	}
	return data
}
