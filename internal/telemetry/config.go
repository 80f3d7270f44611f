// Package telemetry provides OpenTelemetry instrumentation for the release version API.
// It supports configurable tracing and metrics with OTLP and Prometheus exporters.
package telemetry

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// DefaultServiceName is the default service name for telemetry
	DefaultServiceName = "release-version-api"

	// DefaultEndpoint is the default OTLP endpoint for telemetry
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling is the default trace sampling rate (5%)
	DefaultSampling = 0.05

	// ExporterOTLP pushes metrics to an OTLP collector
	ExporterOTLP = "otlp"

	// ExporterPrometheus exposes metrics for scraping on /metrics
	ExporterPrometheus = "prometheus"
)

// Config represents the root telemetry configuration
type Config struct {
	// Enabled controls whether telemetry is enabled globally
	Enabled bool `yaml:"enabled"`

	// ServiceName defaults to "release-version-api"
	ServiceName string `yaml:"serviceName,omitempty"`

	// ServiceVersion defaults to the application version
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is the OTLP collector endpoint, "host:port"
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure allows HTTP connections instead of HTTPS
	Insecure bool `yaml:"insecure,omitempty"`

	Tracing *TracingConfig `yaml:"tracing,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// TracingConfig defines tracing-specific configuration
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampling controls the trace sampling rate (0.0 to 1.0)
	Sampling float64 `yaml:"sampling,omitempty"`
}

// MetricsConfig defines metrics-specific configuration
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Exporters lists where metrics go: "otlp", "prometheus" or both.
	// Defaults to ["otlp"].
	Exporters []string `yaml:"exporters,omitempty"`

	// RuntimeMetrics adds Go runtime and process collectors to the Prometheus registry
	RuntimeMetrics bool `yaml:"runtimeMetrics,omitempty"`
}

// GetServiceName returns the service name, using default if not specified
func (c *Config) GetServiceName() string {
	if c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServiceVersion returns the service version, using "unknown" if not specified
func (c *Config) GetServiceVersion() string {
	if c.ServiceVersion == "" {
		return "unknown"
	}
	return c.ServiceVersion
}

// GetEndpoint returns the endpoint, using default if not specified
func (c *Config) GetEndpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// GetSampling returns the sampling ratio, DefaultSampling when unset.
// An explicit 0 cannot be told apart from an unset value.
func (c *TracingConfig) GetSampling() float64 {
	if c.Sampling == 0.0 {
		return DefaultSampling
	}
	return c.Sampling
}

// GetExporters returns the configured metric exporters, ["otlp"] when unset
func (c *MetricsConfig) GetExporters() []string {
	if c == nil || len(c.Exporters) == 0 {
		return []string{ExporterOTLP}
	}
	return c.Exporters
}

// PrometheusEnabled reports whether metrics are enabled with the Prometheus exporter
func (c *MetricsConfig) PrometheusEnabled() bool {
	return c != nil && c.Enabled && slices.Contains(c.GetExporters(), ExporterPrometheus)
}

// OTLPEnabled reports whether metrics are enabled with the OTLP exporter
func (c *MetricsConfig) OTLPEnabled() bool {
	return c != nil && c.Enabled && slices.Contains(c.GetExporters(), ExporterOTLP)
}

// Validate validates the telemetry configuration
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error

	if c.Tracing != nil {
		if err := c.Tracing.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("tracing: %w", err))
		}
	}

	if c.Metrics != nil {
		if err := c.Metrics.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("metrics: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Validate validates the tracing configuration
func (c *TracingConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	if c.Sampling < 0 || c.Sampling > 1.0 {
		return fmt.Errorf("sampling must be between 0.0 and 1.0, got %f", c.Sampling)
	}

	return nil
}

// Validate validates the metrics configuration
func (c *MetricsConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error
	seen := make(map[string]struct{}, len(c.Exporters))
	for _, exporter := range c.Exporters {
		switch exporter {
		case ExporterOTLP, ExporterPrometheus:
		default:
			errs = append(errs, fmt.Errorf("unsupported exporter %q (expected %s or %s)",
				exporter, ExporterOTLP, ExporterPrometheus))
		}
		if _, dup := seen[exporter]; dup {
			errs = append(errs, fmt.Errorf("exporter %q listed more than once", exporter))
		}
		seen[exporter] = struct{}{}
	}

	return errors.Join(errs...)
}
