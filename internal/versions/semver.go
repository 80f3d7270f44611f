package versions

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrMalformedVersion is returned when a candidate string does not follow
// the numeric major.minor.patch grammar used for comparison.
var ErrMalformedVersion = errors.New("malformed version")

// semverPrefix matches a dotted triple of 1-4 digit groups anchored at the start of the input.
var semverPrefix = regexp.MustCompile(`^\d{1,4}\.\d{1,4}\.\d{1,4}`)

// Version is a comparable release version made of three non-negative integers.
// Ordering is numeric: major first, then minor, then patch.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// String formats the version as major.minor.patch
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 if v is lower than, equal to or greater than other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return cmpUint(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpUint(v.Minor, other.Minor)
	default:
		return cmpUint(v.Patch, other.Patch)
	}
}

// GreaterThan reports whether v orders strictly after other
func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

// LessThan reports whether v orders strictly before other
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

// Equal reports whether v and other have the same components
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

func cmpUint(a, b uint64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// MatchSemverPrefix looks for a D{1,4}.D{1,4}.D{1,4} pattern starting at
// position 0 of s and returns the matched substring.
func MatchSemverPrefix(s string) (string, bool) {
	match := semverPrefix.FindString(s)
	if match == "" {
		return "", false
	}
	return match, true
}

// Parse converts a candidate string into a Version.
//
// Parsing is lenient in the same way as the semver library: a leading "v" is
// accepted and missing minor or patch components default to zero. Pre-release
// versions and anything that is not numeric are rejected with ErrMalformedVersion.
// Parse never panics on arbitrary input.
func Parse(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Version{}, fmt.Errorf("%w: empty string", ErrMalformedVersion)
	}

	sv, err := semver.NewVersion(trimmed)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrMalformedVersion, s, err)
	}
	if sv.Prerelease() != "" {
		return Version{}, fmt.Errorf("%w: %q is a pre-release", ErrMalformedVersion, s)
	}

	return Version{
		Major: sv.Major(),
		Minor: sv.Minor(),
		Patch: sv.Patch(),
	}, nil
}

// Max returns the greatest version in vs. The boolean is false when vs is empty.
func Max(vs []Version) (Version, bool) {
	if len(vs) == 0 {
		return Version{}, false
	}

	highest := vs[0]
	for _, v := range vs[1:] {
		if v.GreaterThan(highest) {
			highest = v
		}
	}
	return highest, true
}
