package extractors

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed/atom"

	"github.com/stacklok/release-version-api/internal/filtering"
	"github.com/stacklok/release-version-api/internal/httpclient"
)

// DefaultFeedBaseURL is the host serving release feeds
const DefaultFeedBaseURL = "https://github.com"

// FeedExtractor reads the Atom releases feed of a GitHub repository
type FeedExtractor struct {
	name       string
	owner      string
	repo       string
	baseURL    string
	rule       TitleRule
	filter     filtering.ReleaseFilter
	httpClient httpclient.Client
}

// NewFeedExtractor creates an extractor for the releases feed of owner/repo.
// An empty baseURL means DefaultFeedBaseURL and a nil filter means the default blocklist.
func NewFeedExtractor(
	name, owner, repo string,
	rule TitleRule,
	filter filtering.ReleaseFilter,
	httpClient httpclient.Client,
	baseURL string,
) *FeedExtractor {
	if baseURL == "" {
		baseURL = DefaultFeedBaseURL
	}
	if filter == nil {
		filter = filtering.NewDefaultReleaseFilter()
	}
	return &FeedExtractor{
		name:       name,
		owner:      owner,
		repo:       repo,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		rule:       rule,
		filter:     filter,
		httpClient: httpClient,
	}
}

// SoftwareName returns the aggregate key of the extractor
func (e *FeedExtractor) SoftwareName() string {
	return e.name
}

// URL returns the feed location, {baseURL}/{owner}/{repo}/releases.atom
func (e *FeedExtractor) URL() string {
	return fmt.Sprintf("%s/%s/%s/releases.atom", e.baseURL, e.owner, e.repo)
}

// Fetch downloads and parses the feed, returning one entry per <entry><title>
func (e *FeedExtractor) Fetch(ctx context.Context) ([]Entry, error) {
	data, err := e.httpClient.Get(ctx, e.URL())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, e.name, err)
	}

	parser := &atom.Parser{}
	feed, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: invalid atom feed: %w", ErrFetch, e.name, err)
	}

	entries := make([]Entry, 0, len(feed.Entries))
	for _, item := range feed.Entries {
		if item == nil {
			continue
		}
		entries = append(entries, Entry{Title: item.Title})
	}
	return entries, nil
}

// ExtractVersion applies the release filter and then the title rule
func (e *FeedExtractor) ExtractVersion(entry Entry) (string, bool) {
	if ok, _ := e.filter.ShouldInclude(entry.Title); !ok {
		return "", false
	}
	return e.rule(entry.Title)
}
