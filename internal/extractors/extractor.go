package extractors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stacklok/release-version-api/internal/versions"
)

// ErrFetch is wrapped by every error caused by retrieving or decoding a release source.
var ErrFetch = errors.New("fetch failed")

// Entry is a single raw item of a release source.
type Entry struct {
	// Title is the release title for feed entries or the version key for stable-check entries
	Title string

	// Status is the status label reported by stable-check sources; empty for feed entries
	Status string
}

// Result is the outcome of a successful extractor run.
type Result struct {
	// SoftwareName is the key under which the version is reported
	SoftwareName string

	// Version is the maximum qualifying candidate, empty when Found is false
	Version string

	// Found reports whether any entry produced a parseable candidate
	Found bool

	// Entries is the number of raw entries returned by the source
	Entries int
}

//go:generate mockgen -destination=mocks/mock_extractor.go -package=mocks -source=extractor.go Extractor

// Extractor fetches one software's release source and maps its entries to version candidates
type Extractor interface {
	// SoftwareName returns the unique name used as the aggregate key
	SoftwareName() string

	// Fetch retrieves the raw entries of the release source
	Fetch(ctx context.Context) ([]Entry, error)

	// ExtractVersion returns the candidate version string for an entry, if any
	ExtractVersion(entry Entry) (string, bool)
}

// LatestSelector is implemented by extractors whose source designates the
// current release itself. Latest reports the selected version verbatim,
// without parsing or comparing candidates.
type LatestSelector interface {
	SelectLatest(entries []Entry) (string, bool)
}

// Latest runs an extractor end to end and selects the greatest candidate.
//
// Candidates that do not parse as a version are skipped. When two candidates
// compare equal the first one seen is reported, in its original spelling.
func Latest(ctx context.Context, ex Extractor) (Result, error) {
	name := ex.SoftwareName()

	entries, err := ex.Fetch(ctx)
	if err != nil {
		if errors.Is(err, ErrFetch) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %s: %w", ErrFetch, name, err)
	}

	result := Result{SoftwareName: name, Entries: len(entries)}

	if selector, ok := ex.(LatestSelector); ok {
		result.Version, result.Found = selector.SelectLatest(entries)
		return result, nil
	}

	var best versions.Version
	for _, entry := range entries {
		candidate, ok := ex.ExtractVersion(entry)
		if !ok {
			continue
		}

		parsed, err := versions.Parse(candidate)
		if err != nil {
			slog.Debug("Skipping unparsable candidate",
				"software", name,
				"title", entry.Title,
				"candidate", candidate,
				"error", err)
			continue
		}

		if !result.Found || parsed.GreaterThan(best) {
			best = parsed
			result.Version = candidate
			result.Found = true
		}
	}

	return result, nil
}
