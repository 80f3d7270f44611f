package extractors

import (
	"errors"
	"fmt"
)

// Kind identifies the structural family of an extractor
type Kind string

const (
	// KindStableCheck reads a version-to-status JSON endpoint
	KindStableCheck Kind = "stable-check"
	// KindGitHubReleases reads a GitHub releases Atom feed
	KindGitHubReleases Kind = "github-releases"
)

// WordPressStableCheckURL is the stable-check endpoint of WordPress core
const WordPressStableCheckURL = "https://api.wordpress.org/core/stable-check/1.0/"

// Definition describes one extractor
type Definition struct {
	Name   string
	Kind   Kind
	URL    string
	Owner  string
	Repo   string
	Rule   string
	Prefix string
}

// Validate checks that the definition can be turned into an extractor
func (d Definition) Validate() error {
	var errs []error

	if d.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}

	switch d.Kind {
	case KindStableCheck:
		if d.URL == "" {
			errs = append(errs, fmt.Errorf("url is required for kind %s", d.Kind))
		}
	case KindGitHubReleases:
		if d.Owner == "" || d.Repo == "" {
			errs = append(errs, fmt.Errorf("owner and repo are required for kind %s", d.Kind))
		}
		if _, err := NewTitleRule(d.Rule, d.Prefix); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported kind: %q", d.Kind))
	}

	if len(errs) > 0 {
		return fmt.Errorf("extractor %q: %w", d.Name, errors.Join(errs...))
	}
	return nil
}

func githubReleases(name, owner, repo, rule, prefix string) Definition {
	return Definition{
		Name:   name,
		Kind:   KindGitHubReleases,
		Owner:  owner,
		Repo:   repo,
		Rule:   rule,
		Prefix: prefix,
	}
}

// DefaultDefinitions returns the built-in extractors in their reporting order
func DefaultDefinitions() []Definition {
	return []Definition{
		{Name: "wordpress", Kind: KindStableCheck, URL: WordPressStableCheckURL},
		githubReleases("signal-cli", "AsamK", "signal-cli", RuleTypePrefix, "Version "),
		githubReleases("nextcloud", "nextcloud", "server", RuleTypeVPrefixSemver, ""),
		githubReleases("roundcube", "roundcube", "roundcubemail", RuleTypePrefix, "Roundcube Webmail "),
		githubReleases("dolibarr", "Dolibarr", "dolibarr", RuleTypeWholeTitle, ""),
		githubReleases("humhub", "humhub", "humhub", RuleTypeWholeTitle, ""),
		githubReleases("froxlor", "Froxlor", "Froxlor", RuleTypePrefixFirstToken, "Froxlor "),
		githubReleases("rainloop", "RainLoop", "rainloop-webmail", RuleTypeVPrefixSemver, ""),
		githubReleases("cyberchef", "gchq", "CyberChef", RuleTypeVPrefixSemver, ""),
		githubReleases("arangodb", "arangodb", "ArangoDB", RuleTypeVPrefixSemver, ""),
	}
}
