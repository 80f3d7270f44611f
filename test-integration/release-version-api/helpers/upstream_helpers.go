package helpers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
)

// MockUpstreamBuilder provides a fluent interface for building mock release sources
type MockUpstreamBuilder struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	requests  atomic.Int64
}

type mockResponse struct {
	status      int
	contentType string
	body        string
}

// NewMockUpstreamBuilder creates a new mock upstream builder
func NewMockUpstreamBuilder() *MockUpstreamBuilder {
	return &MockUpstreamBuilder{
		responses: make(map[string]mockResponse),
	}
}

// StableCheckPath is where WithStableCheck serves its document
func StableCheckPath(name string) string {
	return fmt.Sprintf("/%s/stable-check", name)
}

// FeedPath is where WithReleaseFeed serves a feed, relative to the feed base URL
func FeedPath(owner, repo string) string {
	return fmt.Sprintf("/%s/%s/releases.atom", owner, repo)
}

// WithStableCheck serves a version to status document for name
func (b *MockUpstreamBuilder) WithStableCheck(name string, statuses map[string]string) *MockUpstreamBuilder {
	return b.with(StableCheckPath(name), mockResponse{
		status:      http.StatusOK,
		contentType: "application/json",
		body:        StableCheckJSON(statuses),
	})
}

// WithReleaseFeed serves an Atom release feed for owner/repo
func (b *MockUpstreamBuilder) WithReleaseFeed(owner, repo string, titles ...string) *MockUpstreamBuilder {
	return b.with(FeedPath(owner, repo), mockResponse{
		status:      http.StatusOK,
		contentType: "application/atom+xml",
		body:        AtomFeed(titles...),
	})
}

// WithFailure answers path with the given status code
func (b *MockUpstreamBuilder) WithFailure(path string, status int) *MockUpstreamBuilder {
	return b.with(path, mockResponse{
		status:      status,
		contentType: "text/plain",
		body:        http.StatusText(status),
	})
}

func (b *MockUpstreamBuilder) with(path string, resp mockResponse) *MockUpstreamBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[path] = resp
	return b
}

// Requests returns the number of requests served so far
func (b *MockUpstreamBuilder) Requests() int64 {
	return b.requests.Load()
}

// Build creates and starts the mock HTTP server
func (b *MockUpstreamBuilder) Build() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)

		b.mu.Lock()
		resp, exists := b.responses[r.URL.Path]
		b.mu.Unlock()

		if !exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", resp.contentType)
		w.WriteHeader(resp.status)
		fmt.Fprint(w, resp.body)
	}))
}
