// Package config provides configuration loading and management for the release version API.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/release-version-api/internal/extractors"
	"github.com/stacklok/release-version-api/internal/filtering"
	"github.com/stacklok/release-version-api/internal/httpclient"
	"github.com/stacklok/release-version-api/internal/service"
	"github.com/stacklok/release-version-api/internal/telemetry"
	"github.com/stacklok/release-version-api/internal/versions"
)

// EnvPrefix is the prefix of environment variables read by the release version API
const EnvPrefix = "RVA"

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// UserAgent is sent on every outbound request.
	// Defaults to "release-version-api/<version>".
	UserAgent   string            `yaml:"userAgent,omitempty"`
	HTTP        HTTPConfig        `yaml:"http"`
	Aggregation AggregationConfig `yaml:"aggregation"`
	Filter      FilterConfig      `yaml:"filter"`
	Extractors  ExtractorsConfig  `yaml:"extractors"`
	Telemetry   *telemetry.Config `yaml:"telemetry,omitempty"`
}

// HTTPConfig configures the outbound HTTP client
type HTTPConfig struct {
	// Timeout bounds every request, 10s when unset
	Timeout             time.Duration `yaml:"timeout,omitempty"`
	MaxIdleConnsPerHost int           `yaml:"maxIdleConnsPerHost,omitempty"`
	IdleConnTimeout     time.Duration `yaml:"idleConnTimeout,omitempty"`
	MaxResponseSize     int64         `yaml:"maxResponseSize,omitempty"`
}

// AggregationConfig configures a single aggregation run
type AggregationConfig struct {
	// FailurePolicy is "fail" (default) or "absent"
	FailurePolicy string `yaml:"failurePolicy,omitempty"`

	// Concurrency bounds the extractors fetching at once
	Concurrency int `yaml:"concurrency,omitempty"`

	// ExtractorTimeout caps one extractor run, unset means no cap beyond the HTTP timeout
	ExtractorTimeout time.Duration `yaml:"extractorTimeout,omitempty"`
}

// FilterConfig defines release title filtering
type FilterConfig struct {
	// Blocklist replaces the default {"beta", "rc"} keywords when set
	Blocklist []string `yaml:"blocklist,omitempty"`
}

// ExtractorsConfig selects and extends the extractors that run
type ExtractorsConfig struct {
	// DisableDefaults drops the built-in extractors
	DisableDefaults bool `yaml:"disableDefaults,omitempty"`

	// Include and Exclude are glob patterns on software names
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`

	// FeedBaseURL overrides https://github.com for release feeds
	FeedBaseURL string `yaml:"feedBaseURL,omitempty"`

	Custom []CustomExtractorConfig `yaml:"custom,omitempty"`
}

// CustomExtractorConfig declares an extractor in addition to the built-in ones
type CustomExtractorConfig struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	URL    string `yaml:"url,omitempty"`
	Owner  string `yaml:"owner,omitempty"`
	Repo   string `yaml:"repo,omitempty"`
	Rule   string `yaml:"rule,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
}

// Definition converts the configured extractor into an extractor definition
func (c CustomExtractorConfig) Definition() extractors.Definition {
	return extractors.Definition{
		Name:   c.Name,
		Kind:   extractors.Kind(c.Kind),
		URL:    c.URL,
		Owner:  c.Owner,
		Repo:   c.Repo,
		Rule:   c.Rule,
		Prefix: c.Prefix,
	}
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a YAML file, or the defaults when no path is set
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// GetUserAgent returns the configured user agent or one derived from the build version
func (c *Config) GetUserAgent() string {
	if c.UserAgent == "" {
		return versions.UserAgent()
	}
	return c.UserAgent
}

// HTTPClientConfig returns the outbound client configuration
func (c *Config) HTTPClientConfig() httpclient.Config {
	return httpclient.Config{
		Timeout:             c.HTTP.Timeout,
		UserAgent:           c.GetUserAgent(),
		MaxIdleConnsPerHost: c.HTTP.MaxIdleConnsPerHost,
		IdleConnTimeout:     c.HTTP.IdleConnTimeout,
		MaxResponseSize:     c.HTTP.MaxResponseSize,
	}
}

// GetBlocklist returns the configured blocklist, or the default one
func (c *Config) GetBlocklist() []string {
	if c.Filter.Blocklist == nil {
		return filtering.DefaultBlocklist
	}
	return c.Filter.Blocklist
}

// ExtractorDefinitions returns the built-in definitions, unless disabled,
// followed by the custom ones
func (c *Config) ExtractorDefinitions() []extractors.Definition {
	var defs []extractors.Definition
	if !c.Extractors.DisableDefaults {
		defs = extractors.DefaultDefinitions()
	}
	for _, custom := range c.Extractors.Custom {
		defs = append(defs, custom.Definition())
	}
	return defs
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	var errs []error

	if c.HTTP.Timeout < 0 {
		errs = append(errs, fmt.Errorf("http.timeout must not be negative"))
	}
	if c.HTTP.IdleConnTimeout < 0 {
		errs = append(errs, fmt.Errorf("http.idleConnTimeout must not be negative"))
	}
	if c.HTTP.MaxIdleConnsPerHost < 0 {
		errs = append(errs, fmt.Errorf("http.maxIdleConnsPerHost must not be negative"))
	}
	if c.HTTP.MaxResponseSize < 0 {
		errs = append(errs, fmt.Errorf("http.maxResponseSize must not be negative"))
	}

	if _, err := service.ParseFailurePolicy(c.Aggregation.FailurePolicy); err != nil {
		errs = append(errs, fmt.Errorf("aggregation.failurePolicy: %w", err))
	}
	if c.Aggregation.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("aggregation.concurrency must not be negative"))
	}
	if c.Aggregation.ExtractorTimeout < 0 {
		errs = append(errs, fmt.Errorf("aggregation.extractorTimeout must not be negative"))
	}

	if _, err := filtering.NewNameFilter(c.Extractors.Include, c.Extractors.Exclude); err != nil {
		errs = append(errs, fmt.Errorf("extractors: %w", err))
	}

	errs = append(errs, c.validateDefinitions()...)

	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}

func (c *Config) validateDefinitions() []error {
	var errs []error
	names := make(map[string]bool)
	for i, def := range c.ExtractorDefinitions() {
		if err := def.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if names[def.Name] {
			errs = append(errs, fmt.Errorf("extractors[%d]: duplicate extractor name '%s'", i, def.Name))
		}
		names[def.Name] = true
	}
	return errs
}
