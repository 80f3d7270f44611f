package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// ExtractionMetricsMeterName is the name used for the extraction metrics meter
	ExtractionMetricsMeterName = "github.com/stacklok/release-version-api/extraction"

	// OutcomeFound marks a run that produced a version
	OutcomeFound = "found"
	// OutcomeAbsent marks a run where no entry qualified
	OutcomeAbsent = "absent"
	// OutcomeError marks a run that failed to fetch its source
	OutcomeError = "error"
)

// ExtractionMetrics holds the OpenTelemetry instruments for extractor and aggregation runs
type ExtractionMetrics struct {
	extractionDuration  metric.Float64Histogram
	extractionsTotal    metric.Int64Counter
	aggregationDuration metric.Float64Histogram
}

// NewExtractionMetrics creates the extraction instruments on the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewExtractionMetrics(provider metric.MeterProvider) (*ExtractionMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(ExtractionMetricsMeterName)

	extractionDuration, err := meter.Float64Histogram(
		"rva_extraction_duration_seconds",
		metric.WithDescription("Duration of a single extractor run in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, err
	}

	extractionsTotal, err := meter.Int64Counter(
		"rva_extractions_total",
		metric.WithDescription("Number of extractor runs by outcome"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	aggregationDuration, err := meter.Float64Histogram(
		"rva_aggregation_duration_seconds",
		metric.WithDescription("Duration of a full aggregation in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, err
	}

	return &ExtractionMetrics{
		extractionDuration:  extractionDuration,
		extractionsTotal:    extractionsTotal,
		aggregationDuration: aggregationDuration,
	}, nil
}

// RecordExtraction records one extractor run for a software
func (m *ExtractionMetrics) RecordExtraction(ctx context.Context, software, outcome string, duration time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("software", software),
		attribute.String("outcome", outcome),
	)

	m.extractionDuration.Record(ctx, duration.Seconds(), attrs)
	m.extractionsTotal.Add(ctx, 1, attrs)
}

// RecordAggregation records the duration of a full aggregation
func (m *ExtractionMetrics) RecordAggregation(ctx context.Context, duration time.Duration, success bool) {
	if m == nil {
		return
	}

	m.aggregationDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.Bool("success", success)))
}
