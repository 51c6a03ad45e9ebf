package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// DefaultMaxBodySize caps how much of a page is read into memory
const DefaultMaxBodySize = 8 << 20

// ErrBodyTooLarge is returned when a page exceeds the configured body size.
// A cut page is never handed to the parser.
var ErrBodyTooLarge = errors.New("response body too large")

// Fetcher retrieves the raw markup of a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ClientConfig represents HTTP client configuration
type ClientConfig struct {
	Timeout     time.Duration
	MinDelay    time.Duration
	UserAgent   string
	Headers     map[string]string
	MaxBodySize int64 // zero means DefaultMaxBodySize
}

// DefaultConfig returns default HTTP client configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:     20 * time.Second,
		MinDelay:    0,
		UserAgent:   "folio-feed/1.0",
		Headers:     make(map[string]string),
		MaxBodySize: DefaultMaxBodySize,
	}
}

// Client performs single-attempt GET requests with a fixed per-request timeout.
// A timeout is reported like any other transport error.
type Client struct {
	client  *http.Client
	config  *ClientConfig
	limiter *SimpleRateLimiter
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	return &Client{
		client: &http.Client{
			Timeout: config.Timeout,
		},
		config:  config,
		limiter: NewSimpleRateLimiter(config.MinDelay),
	}
}

// Fetch GETs url and returns the body decoded to UTF-8.
// Any non-2xx response is returned as a *StatusError.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}

	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	for key, value := range c.config.Headers {
		req.Header.Set(key, value)
	}

	slog.Debug("Fetching page", "url", url)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("Failed to close response body", "url", url, "error", closeErr)
		}
	}()

	if err := EnsureSuccess(resp); err != nil {
		return nil, err
	}

	limit := c.config.MaxBodySize
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", url, ErrBodyTooLarge, limit)
	}

	reader, err := charset.NewReader(bytes.NewReader(raw), GetContentType(resp))
	if err != nil {
		return nil, fmt.Errorf("failed to decode body of %s: %w", url, err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode body of %s: %w", url, err)
	}

	slog.Debug("Fetched page", "url", url, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}
