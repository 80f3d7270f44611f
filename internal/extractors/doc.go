// Package extractors provides the version extractors that turn a third-party
// release source into the latest stable version of one piece of software.
//
// The package defines the Extractor interface which abstracts fetching the
// raw entries of a release source and turning a single entry into a version
// candidate. Latest drives an extractor through a full run: fetch, per-entry
// extraction, parsing and maximum selection.
//
// Architecture:
//   - Extractor: fetches raw entries and maps one entry to a candidate string
//   - TitleRule: converts a release title into a candidate string
//   - Definition: declarative description of an extractor (built-in or configured)
//   - Registry: the explicit, constructed list of extractors run per request
//
// Current implementations:
//   - StableCheckExtractor: a single JSON endpoint mapping version to status,
//     whose "latest" entry is the answer
//   - FeedExtractor: a GitHub releases Atom feed, filtered through a
//     ReleaseFilter and parsed with a TitleRule
//
// A run distinguishes three outcomes: a version was found, no entry
// qualified (Result.Found is false), or the source could not be fetched
// (an error wrapping ErrFetch). Candidates that cannot be parsed as a version
// are skipped rather than failing the run.
package extractors
