// Package httpclient is the JSON client shared by the partner API adapters.
// Each client carries its own rate limiter, auth headers and retry policy.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/retry"
)

// maxErrorBody caps how much of a failed response is kept for logging.
const maxErrorBody = 512

// Config holds per-provider client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64
	Burst     int

	// Headers are sent on every request, typically auth.
	Headers map[string]string

	Retry retry.Config
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client performs JSON requests against one partner API.
type Client struct {
	baseURL string
	headers map[string]string
	http    *http.Client
	limiter *rate.Limiter
	retry   retry.Config
}

// DefaultTimeout applies when neither Config nor the given client sets one.
const DefaultTimeout = 10 * time.Second

// New creates a client. httpClient may be nil. A client without a timeout
// is copied and given cfg.Timeout; the caller's client is never modified.
func New(cfg Config, httpClient *http.Client) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	switch {
	case httpClient == nil:
		httpClient = &http.Client{Timeout: timeout}
	case httpClient.Timeout == 0:
		c := *httpClient
		c.Timeout = timeout
		httpClient = &c
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: cfg.Headers,
		http:    httpClient,
		limiter: limiter,
		retry:   cfg.Retry,
	}
}

// GetJSON issues a GET to path with query and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, u, nil, out)
}

// PostJSON issues a POST with body encoded as JSON and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.baseURL+path, payload, out)
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte, out interface{}) error {
	return retry.Do(ctx, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return retry.NewPermanent(err)
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, body)
		if err != nil {
			return retry.NewPermanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
			if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return retry.NewPermanent(statusErr)
			}
			return statusErr
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retry.NewPermanent(fmt.Errorf("failed to parse response: %w", err))
		}
		return nil
	}, c.retry)
}
