package extractors_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/release-version-api/internal/extractors"
	"github.com/stacklok/release-version-api/internal/extractors/mocks"
	"github.com/stacklok/release-version-api/internal/filtering"
)

func TestDefaultDefinitions(t *testing.T) {
	t.Parallel()

	defs := extractors.DefaultDefinitions()

	names := make([]string, 0, len(defs))
	for _, def := range defs {
		require.NoError(t, def.Validate())
		names = append(names, def.Name)
	}

	assert.Equal(t, []string{
		"wordpress", "signal-cli", "nextcloud", "roundcube", "dolibarr",
		"humhub", "froxlor", "rainloop", "cyberchef", "arangodb",
	}, names)
}

func TestDefinition_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		def           extractors.Definition
		errorContains []string
	}{
		{
			name: "valid stable check",
			def:  extractors.Definition{Name: "wp", Kind: extractors.KindStableCheck, URL: "http://example.com"},
		},
		{
			name: "valid feed",
			def: extractors.Definition{Name: "x", Kind: extractors.KindGitHubReleases,
				Owner: "o", Repo: "r", Rule: extractors.RuleTypeWholeTitle},
		},
		{
			name:          "missing name",
			def:           extractors.Definition{Kind: extractors.KindStableCheck, URL: "http://example.com"},
			errorContains: []string{"name is required"},
		},
		{
			name:          "stable check without url",
			def:           extractors.Definition{Name: "wp", Kind: extractors.KindStableCheck},
			errorContains: []string{"url is required"},
		},
		{
			name: "feed without repository and rule",
			def:  extractors.Definition{Name: "x", Kind: extractors.KindGitHubReleases, Rule: "bogus"},
			errorContains: []string{
				"owner and repo are required",
				"unsupported rule type",
			},
		},
		{
			name:          "unknown kind",
			def:           extractors.Definition{Name: "x", Kind: "gitlab"},
			errorContains: []string{"unsupported kind"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.def.Validate()
			if len(tt.errorContains) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, msg := range tt.errorContains {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	t.Run("builds every default definition", func(t *testing.T) {
		t.Parallel()

		reg, err := extractors.NewRegistry(extractors.DefaultDefinitions(), newTestClient())

		require.NoError(t, err)
		assert.Equal(t, 10, reg.Len())
		assert.Equal(t, "wordpress", reg.Names()[0])

		_, isStableCheck := reg.Extractors()[0].(*extractors.StableCheckExtractor)
		assert.True(t, isStableCheck)
		feed, isFeed := reg.Extractors()[2].(*extractors.FeedExtractor)
		require.True(t, isFeed)
		assert.Equal(t, "https://github.com/nextcloud/server/releases.atom", feed.URL())
	})

	t.Run("requires an http client", func(t *testing.T) {
		t.Parallel()

		_, err := extractors.NewRegistry(extractors.DefaultDefinitions(), nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "http client is required")
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		t.Parallel()

		defs := append(extractors.DefaultDefinitions(), extractors.Definition{
			Name: "nextcloud", Kind: extractors.KindGitHubReleases,
			Owner: "fork", Repo: "server", Rule: extractors.RuleTypeVPrefixSemver,
		})

		_, err := extractors.NewRegistry(defs, newTestClient())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate extractor name: nextcloud")
	})

	t.Run("rejects invalid definitions", func(t *testing.T) {
		t.Parallel()

		_, err := extractors.NewRegistry([]extractors.Definition{{Name: "broken", Kind: extractors.KindStableCheck}}, newTestClient())

		require.Error(t, err)
		assert.Contains(t, err.Error(), `extractor "broken"`)
	})

	t.Run("name filter selects extractors", func(t *testing.T) {
		t.Parallel()

		nameFilter, err := filtering.NewNameFilter([]string{"*cloud*", "word*"}, []string{"wordpress"})
		require.NoError(t, err)

		reg, err := extractors.NewRegistry(extractors.DefaultDefinitions(), newTestClient(),
			extractors.WithNameFilter(nameFilter))

		require.NoError(t, err)
		assert.Equal(t, []string{"nextcloud"}, reg.Names())
	})
}

func TestNewRegistryFromExtractors(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	first := mocks.NewMockExtractor(ctrl)
	first.EXPECT().SoftwareName().Return("a").AnyTimes()
	second := mocks.NewMockExtractor(ctrl)
	second.EXPECT().SoftwareName().Return("a").AnyTimes()

	_, err := extractors.NewRegistryFromExtractors(first, second)
	require.Error(t, err)

	reg, err := extractors.NewRegistryFromExtractors(first)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, reg.Names())
}

func TestKindOf(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	reg, err := extractors.NewRegistry([]extractors.Definition{
		{Name: "wordpress", Kind: extractors.KindStableCheck, URL: extractors.WordPressStableCheckURL},
		{Name: "nextcloud", Kind: extractors.KindGitHubReleases, Owner: "nextcloud", Repo: "server",
			Rule: extractors.RuleTypeVPrefixSemver},
	}, newTestClient())
	require.NoError(t, err)

	exs := reg.Extractors()
	assert.Equal(t, extractors.KindStableCheck, extractors.KindOf(exs[0]))
	assert.Equal(t, extractors.KindGitHubReleases, extractors.KindOf(exs[1]))
	assert.Empty(t, extractors.KindOf(mocks.NewMockExtractor(ctrl)))
}

func TestRegistry_AgainstFixtures(t *testing.T) {
	t.Parallel()

	server := newFixtureServer(t, map[string]string{
		"/core/stable-check/1.0/":                `{"6.1": "outdated", "6.2": "latest"}`,
		"/AsamK/signal-cli/releases.atom":        atomFeed("Version 0.13.4", "Version 0.13.5-rc1", "Version 0.13.3"),
		"/Froxlor/Froxlor/releases.atom":         atomFeed("Froxlor 2.1.9 (stable)", "Froxlor 2.2.0-rc2"),
		"/gchq/CyberChef/releases.atom":          atomFeed("v10.19.4", "v10.5.2", "Build artifacts"),
		"/roundcube/roundcubemail/releases.atom": atomFeed("Roundcube Webmail 1.6.7", "Roundcube Webmail 1.5.8"),
	})

	defs := []extractors.Definition{
		{Name: "wordpress", Kind: extractors.KindStableCheck, URL: server.URL + "/core/stable-check/1.0/"},
	}
	for _, def := range extractors.DefaultDefinitions() {
		switch def.Name {
		case "signal-cli", "froxlor", "cyberchef", "roundcube":
			defs = append(defs, def)
		}
	}

	reg, err := extractors.NewRegistry(defs, newTestClient(), extractors.WithFeedBaseURL(server.URL))
	require.NoError(t, err)

	run := func() map[string]string {
		out := make(map[string]string)
		for _, ex := range reg.Extractors() {
			result, err := extractors.Latest(context.Background(), ex)
			require.NoError(t, err)
			require.True(t, result.Found, ex.SoftwareName())
			out[result.SoftwareName] = result.Version
		}
		return out
	}

	first := run()
	assert.Equal(t, map[string]string{
		"wordpress":  "6.2",
		"signal-cli": "0.13.4",
		"froxlor":    "2.1.9",
		"cyberchef":  "10.19.4",
		"roundcube":  "1.6.7",
	}, first)
	assert.Equal(t, first, run())
}
