// Package httpclient provides the outbound HTTP client used to fetch release sources.
//
// All pooling and timeout behaviour is described by Config, so tests and the
// application build clients from the same explicit settings instead of relying
// on a process-wide default transport.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is applied to every request when Config.Timeout is zero
	DefaultTimeout = 10 * time.Second

	// DefaultMaxResponseSize is the maximum accepted response body (10MB)
	DefaultMaxResponseSize = 10 * 1024 * 1024

	// DefaultMaxIdleConnsPerHost bounds the idle connection pool per upstream host
	DefaultMaxIdleConnsPerHost = 4

	// DefaultIdleConnTimeout is how long an idle pooled connection is kept
	DefaultIdleConnTimeout = 90 * time.Second

	// DefaultUserAgent is sent when Config.UserAgent is empty
	DefaultUserAgent = "release-version-api/1.0"

	acceptHeader = "application/json, application/atom+xml;q=0.9, */*;q=0.8"
)

// Client is an interface for HTTP operations
type Client interface {
	// Get performs an HTTP GET request and returns the response body.
	// A non-2xx response is returned as *HTTPError.
	Get(ctx context.Context, url string) ([]byte, error)
}

// Config describes the timeout and connection pooling behaviour of a Client
type Config struct {
	// Timeout bounds each request including reading the body
	Timeout time.Duration

	// UserAgent is sent with every request
	UserAgent string

	// MaxIdleConnsPerHost bounds idle keep-alive connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout closes idle pooled connections after this duration
	IdleConnTimeout time.Duration

	// MaxResponseSize rejects bodies larger than this many bytes
	MaxResponseSize int64
}

// withDefaults returns a copy of the config with zero values replaced by defaults
func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if c.IdleConnTimeout <= 0 {
		c.IdleConnTimeout = DefaultIdleConnTimeout
	}
	if c.MaxResponseSize <= 0 {
		c.MaxResponseSize = DefaultMaxResponseSize
	}
	return c
}

// DefaultClient is the default HTTP client implementation
type DefaultClient struct {
	client *http.Client
	config Config
}

// NewClient creates a client from the given configuration.
// Zero values in cfg fall back to the package defaults.
func NewClient(cfg Config) *DefaultClient {
	cfg = cfg.withDefaults()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	transport.IdleConnTimeout = cfg.IdleConnTimeout

	return &DefaultClient{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config: cfg,
	}
}

// NewDefaultClient creates a new default HTTP client with the specified timeout
// If timeout is 0, uses DefaultTimeout
func NewDefaultClient(timeout time.Duration) Client {
	return NewClient(Config{Timeout: timeout})
}

// Config returns the effective configuration of the client
func (c *DefaultClient) Config() Config {
	return c.config
}

// Get performs an HTTP GET request
func (c *DefaultClient) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, NewHTTPError(resp.StatusCode, url, resp.Status)
	}

	maxSize := c.config.MaxResponseSize
	if resp.ContentLength > maxSize {
		return nil, fmt.Errorf("response size %d bytes exceeds maximum allowed size of %d bytes",
			resp.ContentLength, maxSize)
	}

	// +1 to detect if limit exceeded
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > maxSize {
		return nil, fmt.Errorf("response size exceeds maximum allowed size of %d bytes", maxSize)
	}

	return body, nil
}
