package extractors

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/stacklok/release-version-api/internal/httpclient"
)

// StatusLatest is the status label marking the current stable release
const StatusLatest = "latest"

var _ LatestSelector = (*StableCheckExtractor)(nil)

// StableCheckExtractor reads a single endpoint returning a JSON object that
// maps version strings to status labels, e.g. {"6.1": "outdated", "6.2": "latest"}
type StableCheckExtractor struct {
	name       string
	url        string
	httpClient httpclient.Client
}

// NewStableCheckExtractor creates an extractor for a stable-check endpoint
func NewStableCheckExtractor(name, url string, httpClient httpclient.Client) *StableCheckExtractor {
	return &StableCheckExtractor{
		name:       name,
		url:        url,
		httpClient: httpClient,
	}
}

// SoftwareName returns the aggregate key of the extractor
func (e *StableCheckExtractor) SoftwareName() string {
	return e.name
}

// URL returns the endpoint queried by the extractor
func (e *StableCheckExtractor) URL() string {
	return e.url
}

// Fetch retrieves the version map and returns one entry per version, ordered by key
func (e *StableCheckExtractor) Fetch(ctx context.Context) ([]Entry, error) {
	data, err := e.httpClient.Get(ctx, e.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, e.name, err)
	}

	var statuses map[string]string
	if err := json.Unmarshal(data, &statuses); err != nil {
		return nil, fmt.Errorf("%w: %s: invalid stable-check response: %w", ErrFetch, e.name, err)
	}

	keys := make([]string, 0, len(statuses))
	for version := range statuses {
		keys = append(keys, version)
	}
	slices.Sort(keys)

	entries := make([]Entry, 0, len(keys))
	for _, version := range keys {
		entries = append(entries, Entry{Title: version, Status: statuses[version]})
	}
	return entries, nil
}

// ExtractVersion returns the entry's version when its status is "latest"
func (*StableCheckExtractor) ExtractVersion(entry Entry) (string, bool) {
	if entry.Status != StatusLatest || entry.Title == "" {
		return "", false
	}
	return entry.Title, true
}

// SelectLatest returns the first entry marked "latest", as spelled by the source
func (e *StableCheckExtractor) SelectLatest(entries []Entry) (string, bool) {
	for _, entry := range entries {
		if version, ok := e.ExtractVersion(entry); ok {
			return version, true
		}
	}
	return "", false
}
