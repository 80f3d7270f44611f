package extractors

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stacklok/release-version-api/internal/versions"
)

// Rule types accepted by NewTitleRule
const (
	RuleTypePrefix           = "prefix"
	RuleTypePrefixFirstToken = "prefix-first-token"
	RuleTypeWholeTitle       = "whole-title"
	RuleTypeVPrefixSemver    = "v-prefix-semver"
)

// TitleRule converts a release title into a version candidate
type TitleRule func(title string) (string, bool)

// PrefixRule accepts titles starting with prefix and returns the remainder
func PrefixRule(prefix string) TitleRule {
	return func(title string) (string, bool) {
		rest, ok := strings.CutPrefix(title, prefix)
		if !ok || rest == "" {
			return "", false
		}
		return rest, true
	}
}

// PrefixFirstTokenRule accepts titles starting with prefix and returns the
// first whitespace-delimited token after it
func PrefixFirstTokenRule(prefix string) TitleRule {
	return func(title string) (string, bool) {
		rest, ok := strings.CutPrefix(title, prefix)
		if !ok {
			return "", false
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return "", false
		}
		return fields[0], true
	}
}

// WholeTitleRule treats the trimmed title as the candidate
func WholeTitleRule() TitleRule {
	return func(title string) (string, bool) {
		title = strings.TrimSpace(title)
		return title, title != ""
	}
}

// VPrefixSemverRule strips a single leading "v" and requires a
// major.minor.patch match at the start of what remains. The matched
// substring is the candidate. Titles where the match continues into a
// pre-release, build or longer version ("2.0.0-alpha", "29.0.0rc1",
// "1.2.34567") are rejected.
func VPrefixSemverRule() TitleRule {
	return func(title string) (string, bool) {
		rest := strings.TrimPrefix(title, "v")
		match, ok := versions.MatchSemverPrefix(rest)
		if !ok || !endsVersion(rest[len(match):]) {
			return "", false
		}
		return match, true
	}
}

// endsVersion reports whether tail may follow a complete release version
func endsVersion(tail string) bool {
	if tail == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(tail)
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("-+.", r)
}

// NewTitleRule builds a rule from its configured type and prefix
func NewTitleRule(ruleType, prefix string) (TitleRule, error) {
	switch ruleType {
	case RuleTypePrefix:
		if prefix == "" {
			return nil, fmt.Errorf("rule %q requires a prefix", ruleType)
		}
		return PrefixRule(prefix), nil
	case RuleTypePrefixFirstToken:
		if prefix == "" {
			return nil, fmt.Errorf("rule %q requires a prefix", ruleType)
		}
		return PrefixFirstTokenRule(prefix), nil
	case RuleTypeWholeTitle:
		return WholeTitleRule(), nil
	case RuleTypeVPrefixSemver:
		return VPrefixSemverRule(), nil
	default:
		return nil, fmt.Errorf("unsupported rule type: %s", ruleType)
	}
}
