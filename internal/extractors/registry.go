package extractors

import (
	"fmt"
	"log/slog"

	"github.com/stacklok/release-version-api/internal/filtering"
	"github.com/stacklok/release-version-api/internal/httpclient"
)

// Registry is the constructed list of extractors run for every aggregation
type Registry struct {
	extractors []Extractor
}

type registryOptions struct {
	releaseFilter filtering.ReleaseFilter
	nameFilter    filtering.NameFilter
	feedBaseURL   string
}

// RegistryOption configures NewRegistry
type RegistryOption func(*registryOptions)

// WithReleaseFilter sets the filter applied to every feed extractor
func WithReleaseFilter(f filtering.ReleaseFilter) RegistryOption {
	return func(o *registryOptions) {
		o.releaseFilter = f
	}
}

// WithNameFilter restricts the registry to the definitions the filter includes
func WithNameFilter(f filtering.NameFilter) RegistryOption {
	return func(o *registryOptions) {
		o.nameFilter = f
	}
}

// WithFeedBaseURL overrides the host serving release feeds
func WithFeedBaseURL(baseURL string) RegistryOption {
	return func(o *registryOptions) {
		o.feedBaseURL = baseURL
	}
}

// NewRegistry builds an extractor per definition, in definition order.
// Invalid definitions and duplicate software names are rejected.
func NewRegistry(defs []Definition, httpClient httpclient.Client, opts ...RegistryOption) (*Registry, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client is required")
	}

	options := &registryOptions{
		releaseFilter: filtering.NewDefaultReleaseFilter(),
	}
	for _, opt := range opts {
		opt(options)
	}

	seen := make(map[string]struct{}, len(defs))
	extractors := make([]Extractor, 0, len(defs))

	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[def.Name]; dup {
			return nil, fmt.Errorf("duplicate extractor name: %s", def.Name)
		}
		seen[def.Name] = struct{}{}

		if options.nameFilter != nil {
			if ok, reason := options.nameFilter.ShouldInclude(def.Name); !ok {
				slog.Debug("Extractor disabled", "software", def.Name, "reason", reason)
				continue
			}
		}

		ex, err := newExtractor(def, httpClient, options)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, ex)
	}

	return &Registry{extractors: extractors}, nil
}

// NewRegistryFromExtractors wraps already constructed extractors
func NewRegistryFromExtractors(extractors ...Extractor) (*Registry, error) {
	seen := make(map[string]struct{}, len(extractors))
	for _, ex := range extractors {
		name := ex.SoftwareName()
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate extractor name: %s", name)
		}
		seen[name] = struct{}{}
	}
	return &Registry{extractors: extractors}, nil
}

func newExtractor(def Definition, httpClient httpclient.Client, options *registryOptions) (Extractor, error) {
	switch def.Kind {
	case KindStableCheck:
		return NewStableCheckExtractor(def.Name, def.URL, httpClient), nil
	case KindGitHubReleases:
		rule, err := NewTitleRule(def.Rule, def.Prefix)
		if err != nil {
			return nil, fmt.Errorf("extractor %q: %w", def.Name, err)
		}
		return NewFeedExtractor(def.Name, def.Owner, def.Repo, rule,
			options.releaseFilter, httpClient, options.feedBaseURL), nil
	default:
		return nil, fmt.Errorf("extractor %q: unsupported kind: %q", def.Name, def.Kind)
	}
}

// KindOf reports the family of a built-in extractor, empty for other implementations
func KindOf(ex Extractor) Kind {
	switch ex.(type) {
	case *StableCheckExtractor:
		return KindStableCheck
	case *FeedExtractor:
		return KindGitHubReleases
	default:
		return ""
	}
}

// Extractors returns the registered extractors in registration order
func (r *Registry) Extractors() []Extractor {
	out := make([]Extractor, len(r.extractors))
	copy(out, r.extractors)
	return out
}

// Names returns the software names in registration order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.extractors))
	for _, ex := range r.extractors {
		names = append(names, ex.SoftwareName())
	}
	return names
}

// Len returns the number of registered extractors
func (r *Registry) Len() int {
	return len(r.extractors)
}
