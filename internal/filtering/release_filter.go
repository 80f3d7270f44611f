package filtering

import (
	"fmt"
	"strings"
)

// DefaultBlocklist holds the keywords that mark a release as not stable
var DefaultBlocklist = []string{"beta", "rc"}

// ReleaseFilter decides whether a release entry takes part in version selection
type ReleaseFilter interface {
	// ShouldInclude reports whether a release with the given title is kept.
	// Returns (shouldInclude bool, reason string)
	ShouldInclude(title string) (bool, string)
}

// keywordFilter rejects release titles containing any blocked keyword
type keywordFilter struct {
	blocklist []string
}

var _ ReleaseFilter = (*keywordFilter)(nil)

// NewKeywordFilter creates a ReleaseFilter that rejects titles containing any of
// the given keywords. Matching is case-insensitive and empty keywords are ignored.
// A nil blocklist yields a filter that keeps every release.
func NewKeywordFilter(blocklist []string) ReleaseFilter {
	normalized := make([]string, 0, len(blocklist))
	for _, keyword := range blocklist {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		normalized = append(normalized, keyword)
	}
	return &keywordFilter{blocklist: normalized}
}

// NewDefaultReleaseFilter creates a keyword filter using DefaultBlocklist
func NewDefaultReleaseFilter() ReleaseFilter {
	return NewKeywordFilter(DefaultBlocklist)
}

// ShouldInclude rejects the title when its lowercased form contains a blocked keyword
func (f *keywordFilter) ShouldInclude(title string) (bool, string) {
	lowered := strings.ToLower(title)
	for _, keyword := range f.blocklist {
		if strings.Contains(lowered, keyword) {
			return false, fmt.Sprintf("blocked by keyword '%s'", keyword)
		}
	}
	if len(f.blocklist) == 0 {
		return true, "no blocklist configured"
	}
	return true, fmt.Sprintf("no match in blocklist %v", f.blocklist)
}
