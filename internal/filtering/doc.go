// Package filtering decides which release entries and which extractors take
// part in version aggregation.
//
// # Release Filtering
//
// A ReleaseFilter looks at the title of a single release feed entry and rejects
// it when the lowercased title contains a blocked keyword. The default
// blocklist is {"beta", "rc"}, which drops pre-releases and release candidates
// before their titles are parsed:
//
//	filter := NewDefaultReleaseFilter()
//	ok, reason := filter.ShouldInclude("v2.0.0-RC1") // false, "blocked by keyword 'rc'"
//
// Matching is plain substring matching, so a keyword such as "rc" also rejects
// titles that merely contain those letters. Configure a narrower blocklist if
// that matters for a source.
//
// # Name Filtering
//
// A NameFilter selects which configured extractors are enabled, using glob
// patterns compiled with github.com/gobwas/glob. Exclude patterns take
// precedence over include patterns; with no patterns every name is selected.
//
//	filter, err := NewNameFilter([]string{"*cloud"}, []string{"owncloud"})
package filtering
