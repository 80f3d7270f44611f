package filtering

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// NameFilter selects software names using include and exclude glob patterns
type NameFilter interface {
	// ShouldInclude determines if a software name is selected.
	// Returns (shouldInclude bool, reason string)
	ShouldInclude(name string) (bool, string)
}

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// globNameFilter implements name filtering with precompiled glob patterns
type globNameFilter struct {
	include []compiledPattern
	exclude []compiledPattern
}

var _ NameFilter = (*globNameFilter)(nil)

// NewNameFilter compiles the include and exclude patterns into a NameFilter.
// An invalid pattern is reported here rather than on every match.
func NewNameFilter(include, exclude []string) (NameFilter, error) {
	inc, err := compilePatterns(include)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	exc, err := compilePatterns(exclude)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}
	return &globNameFilter{include: inc, exclude: exc}, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		// filepath.Match catches malformed character classes that glob accepts
		if _, err := filepath.Match(pattern, "test"); err != nil {
			return nil, fmt.Errorf("'%s': %w", pattern, err)
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("'%s': %w", pattern, err)
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, nil
}

// ShouldInclude determines if a software name is selected
//
// Logic:
// 1. If the name matches any exclude pattern -> exclude (exclude takes precedence)
// 2. If include patterns are specified and the name matches one -> include
// 3. If include patterns are specified and none match -> exclude
// 4. Otherwise -> include
func (f *globNameFilter) ShouldInclude(name string) (bool, string) {
	for _, p := range f.exclude {
		if p.glob.Match(name) {
			return false, fmt.Sprintf("excluded by pattern '%s'", p.pattern)
		}
	}

	if len(f.include) > 0 {
		for _, p := range f.include {
			if p.glob.Match(name) {
				return true, fmt.Sprintf("included by pattern '%s'", p.pattern)
			}
		}
		return false, "no match found in include patterns"
	}

	if len(f.exclude) > 0 {
		return true, "no match in exclude patterns"
	}
	return true, "no name filters specified"
}
