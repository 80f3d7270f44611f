package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// NewPrometheusRegistry creates a dedicated registry, optionally carrying the
// Go runtime and process collectors
func NewPrometheusRegistry(runtimeMetrics bool) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if !runtimeMetrics {
		return reg, nil
	}

	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}
	return reg, nil
}

// newPrometheusReader creates a metric reader that exposes OTel instruments through reg
func newPrometheusReader(reg prometheus.Registerer) (sdkmetric.Reader, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	return exporter, nil
}

// PrometheusHandler serves the metrics gathered by reg in the Prometheus text format
func PrometheusHandler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
