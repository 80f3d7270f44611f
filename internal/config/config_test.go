package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/release-version-api/internal/extractors"
	"github.com/stacklok/release-version-api/internal/filtering"
	"github.com/stacklok/release-version-api/internal/httpclient"
	"github.com/stacklok/release-version-api/internal/telemetry"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		yamlContent   string
		wantConfig    *Config
		errorContains []string
	}{
		{
			name: "full config",
			yamlContent: `userAgent: "RSS Version Checker/0.1.0"
http:
  timeout: 5s
  maxIdleConnsPerHost: 2
  idleConnTimeout: 30s
  maxResponseSize: 1048576
aggregation:
  failurePolicy: absent
  concurrency: 4
  extractorTimeout: 15s
filter:
  blocklist: ["beta", "rc", "alpha"]
extractors:
  include: ["*"]
  exclude: ["rainloop"]
  custom:
    - name: gitea
      kind: github-releases
      owner: go-gitea
      repo: gitea
      rule: v-prefix-semver
telemetry:
  enabled: true
  metrics:
    enabled: true
    exporters: ["prometheus"]`,
			wantConfig: &Config{
				UserAgent: "RSS Version Checker/0.1.0",
				HTTP: HTTPConfig{
					Timeout:             5 * time.Second,
					MaxIdleConnsPerHost: 2,
					IdleConnTimeout:     30 * time.Second,
					MaxResponseSize:     1048576,
				},
				Aggregation: AggregationConfig{
					FailurePolicy:    "absent",
					Concurrency:      4,
					ExtractorTimeout: 15 * time.Second,
				},
				Filter: FilterConfig{Blocklist: []string{"beta", "rc", "alpha"}},
				Extractors: ExtractorsConfig{
					Include: []string{"*"},
					Exclude: []string{"rainloop"},
					Custom: []CustomExtractorConfig{{
						Name:  "gitea",
						Kind:  "github-releases",
						Owner: "go-gitea",
						Repo:  "gitea",
						Rule:  "v-prefix-semver",
					}},
				},
				Telemetry: &telemetry.Config{
					Enabled: true,
					Metrics: &telemetry.MetricsConfig{
						Enabled:   true,
						Exporters: []string{"prometheus"},
					},
				},
			},
		},
		{
			name:        "empty file keeps defaults",
			yamlContent: ``,
			wantConfig:  &Config{},
		},
		{
			name:          "malformed yaml",
			yamlContent:   "aggregation: [",
			errorContains: []string{"failed to parse YAML config"},
		},
		{
			name:          "bad duration",
			yamlContent:   "http:\n  timeout: soon",
			errorContains: []string{"failed to parse YAML config"},
		},
		{
			name: "invalid values are all reported",
			yamlContent: `aggregation:
  failurePolicy: retry
  concurrency: -1
extractors:
  include: ["[abc"]`,
			errorContains: []string{
				"invalid configuration",
				"aggregation.failurePolicy",
				"aggregation.concurrency must not be negative",
				"invalid include pattern",
			},
		},
		{
			name: "custom extractor clashes with a built-in",
			yamlContent: `extractors:
  custom:
    - name: nextcloud
      kind: github-releases
      owner: fork
      repo: server
      rule: whole-title`,
			errorContains: []string{"duplicate extractor name 'nextcloud'"},
		},
		{
			name: "custom extractor missing fields",
			yamlContent: `extractors:
  custom:
    - name: broken
      kind: stable-check`,
			errorContains: []string{`extractor "broken"`, "url is required"},
		},
		{
			name: "invalid telemetry",
			yamlContent: `telemetry:
  enabled: true
  tracing:
    enabled: true
    sampling: 4`,
			errorContains: []string{"telemetry: tracing: sampling must be between"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadConfig(WithConfigPath(writeConfig(t, tt.yamlContent)))

			if len(tt.errorContains) > 0 {
				require.Error(t, err)
				for _, msg := range tt.errorContains {
					assert.Contains(t, err.Error(), msg)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, cfg)
		})
	}
}

func TestLoadConfig_NoPath(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Len(t, cfg.ExtractorDefinitions(), 10)
}

func TestWithConfigPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		path          string
		errorContains string
	}{
		{
			name:          "empty path",
			path:          "",
			errorContains: "path is required",
		},
		{
			name:          "missing file",
			path:          filepath.Join(t.TempDir(), "absent.yaml"),
			errorContains: "failed to evaluate symlinks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfig(WithConfigPath(tt.path))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestConfig_Accessors(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg := Default()

		assert.Contains(t, cfg.GetUserAgent(), "release-version-api/")
		assert.Equal(t, filtering.DefaultBlocklist, cfg.GetBlocklist())
		assert.Equal(t, httpclient.Config{UserAgent: cfg.GetUserAgent()}, cfg.HTTPClientConfig())
	})

	t.Run("explicit empty blocklist disables filtering", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{Filter: FilterConfig{Blocklist: []string{}}}
		assert.Empty(t, cfg.GetBlocklist())
		assert.NotNil(t, cfg.GetBlocklist())
	})

	t.Run("http settings flow into the client config", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{
			UserAgent: "checker/1.0",
			HTTP:      HTTPConfig{Timeout: 3 * time.Second, MaxResponseSize: 2048},
		}
		assert.Equal(t, httpclient.Config{
			Timeout:         3 * time.Second,
			UserAgent:       "checker/1.0",
			MaxResponseSize: 2048,
		}, cfg.HTTPClientConfig())
	})
}

func TestConfig_ExtractorDefinitions(t *testing.T) {
	t.Parallel()

	custom := CustomExtractorConfig{
		Name: "joomla", Kind: "github-releases", Owner: "joomla", Repo: "joomla-cms",
		Rule: "whole-title",
	}

	withDefaults := &Config{Extractors: ExtractorsConfig{Custom: []CustomExtractorConfig{custom}}}
	defs := withDefaults.ExtractorDefinitions()
	require.Len(t, defs, 11)
	assert.Equal(t, "wordpress", defs[0].Name)
	assert.Equal(t, extractors.Definition{
		Name: "joomla", Kind: extractors.KindGitHubReleases, Owner: "joomla", Repo: "joomla-cms",
		Rule: extractors.RuleTypeWholeTitle,
	}, defs[10])

	customOnly := &Config{Extractors: ExtractorsConfig{
		DisableDefaults: true,
		Custom:          []CustomExtractorConfig{custom},
	}}
	defs = customOnly.ExtractorDefinitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "joomla", defs[0].Name)
}
