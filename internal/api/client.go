// Package api talks to the telemetry backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/user/sentineldash/internal/util"
)

// Backend routes consumed by the dashboard.
const (
	PathIntel           = "/api/intel"
	PathSSHLogs         = "/api/logs?source=ssh"
	PathApacheLogs      = "/api/logs?source=apache"
	PathAlerts          = "/api/alerts"
	PathAnalytics       = "/api/analytics/summary"
	PathParseLogs       = "/api/logs/parse"
	PathFetchIntel      = "/api/intel/fetch"
	PathWorkflowRefresh = "/api/workflow/refresh"
)

// Reporter receives a formatted message for every failed request.
type Reporter interface {
	ReportError(message string)
}

// Client wraps outbound calls, JSON decoding and error normalization.
type Client struct {
	baseURL  string
	http     *http.Client
	reporter Reporter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client for baseURL. Requests carry no timeout; the
// caller's context is the only way to stop one.
func NewClient(baseURL string, reporter Reporter, opts ...Option) *Client {
	c := &Client{
		baseURL:  util.NormalizeBaseURL(baseURL),
		http:     &http.Client{},
		reporter: reporter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resolved backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET and decodes the body into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Request(ctx, http.MethodGet, path, out)
}

// Post issues a body-less POST and decodes the body into out.
func (c *Client) Post(ctx context.Context, path string, out any) error {
	return c.Request(ctx, http.MethodPost, path, out)
}

// Request performs one call. Failures are reported as "Error: <message>"
// before being returned, so callers never format them again.
func (c *Client) Request(ctx context.Context, method, path string, out any) error {
	err := c.do(ctx, method, c.url(path), out)
	if err != nil {
		if c.reporter != nil {
			c.reporter.ReportError("Error: " + err.Error())
		}
		util.Debug("%s %s failed: %v", method, path, err)
		return err
	}
	return nil
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) do(ctx context.Context, method, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return &TransportError{Method: method, URL: url, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Method: method, URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return &TransportError{Method: method, URL: url, Cause: fmt.Errorf("failed to read error body: %w", err)}
		}
		return &RequestError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
			Body:       string(body),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Method: method, URL: url, Cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// statusText returns the reason phrase the server sent, falling back to the
// standard text for the code.
func statusText(resp *http.Response) string {
	code := fmt.Sprintf("%d", resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
