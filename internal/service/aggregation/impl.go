// Package aggregation provides the parallel implementation of the Service interface
package aggregation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/release-version-api/internal/extractors"
	"github.com/stacklok/release-version-api/internal/otel"
	"github.com/stacklok/release-version-api/internal/service"
	"github.com/stacklok/release-version-api/internal/telemetry"
)

const (
	// DefaultConcurrency bounds the number of extractors fetching at once
	DefaultConcurrency = 10

	tracerName = "github.com/stacklok/release-version-api/aggregation"
)

// aggregationSvc implements the Service interface
type aggregationSvc struct {
	extractors       []extractors.Extractor
	names            []string
	policy           service.FailurePolicy
	concurrency      int
	extractorTimeout time.Duration
	metrics          *telemetry.ExtractionMetrics
	tracer           trace.Tracer
}

var _ service.Service = (*aggregationSvc)(nil)

// Option is a functional option for configuring the aggregation service
type Option func(*aggregationSvc)

// WithFailurePolicy sets how a fetch error of one extractor affects the aggregate
func WithFailurePolicy(policy service.FailurePolicy) Option {
	return func(s *aggregationSvc) {
		s.policy = policy
	}
}

// WithConcurrency bounds the number of extractors running at once. Values below one
// select DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(s *aggregationSvc) {
		s.concurrency = n
	}
}

// WithExtractorTimeout caps a single extractor run. Zero leaves only the
// HTTP client timeout in place.
func WithExtractorTimeout(d time.Duration) Option {
	return func(s *aggregationSvc) {
		s.extractorTimeout = d
	}
}

// WithMetrics records extraction metrics; nil disables them
func WithMetrics(m *telemetry.ExtractionMetrics) Option {
	return func(s *aggregationSvc) {
		s.metrics = m
	}
}

// WithTracerProvider creates spans for aggregations and extractor runs
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *aggregationSvc) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// New creates an aggregation service over the extractors of the registry
func New(registry *extractors.Registry, opts ...Option) (service.Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("extractor registry is required")
	}

	s := &aggregationSvc{
		extractors:  registry.Extractors(),
		names:       registry.Names(),
		policy:      service.FailurePolicyFail,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.concurrency < 1 {
		s.concurrency = DefaultConcurrency
	}
	if _, err := service.ParseFailurePolicy(string(s.policy)); err != nil {
		return nil, err
	}

	return s, nil
}

// CheckReadiness reports whether any extractor is registered
func (s *aggregationSvc) CheckReadiness(_ context.Context) error {
	if len(s.extractors) == 0 {
		return service.ErrNoExtractors
	}
	return nil
}

// SoftwareNames returns the registered software names
func (s *aggregationSvc) SoftwareNames() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// MostRecent runs all extractors in parallel. Every registered name is present
// in the result; names whose extractor found nothing map to nil.
func (s *aggregationSvc) MostRecent(ctx context.Context) (service.AggregateResult, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "aggregation.MostRecent",
		trace.WithAttributes(otel.AttrExtractorCount.Int(len(s.extractors))))
	defer span.End()

	start := time.Now()

	result := make(service.AggregateResult, len(s.extractors))
	for _, name := range s.names {
		result[name] = nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, ex := range s.extractors {
		g.Go(func() error {
			version, err := s.runExtractor(gctx, ex)
			if err != nil {
				if s.policy == service.FailurePolicyAbsent && ctx.Err() == nil {
					slog.Warn("Extractor failed, reporting as absent",
						"software", ex.SoftwareName(),
						"error", err)
					return nil
				}
				return err
			}
			if version == nil {
				return nil
			}

			mu.Lock()
			result[ex.SoftwareName()] = version
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	s.metrics.RecordAggregation(ctx, time.Since(start), err == nil)

	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("%w: %w", service.ErrAggregationFailed, err)
	}

	return result, nil
}

// MostRecentFor runs the extractor registered under softwareName on its own,
// so failures of other sources do not affect the answer
func (s *aggregationSvc) MostRecentFor(ctx context.Context, softwareName string) (*string, error) {
	idx := slices.IndexFunc(s.extractors, func(ex extractors.Extractor) bool {
		return ex.SoftwareName() == softwareName
	})
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", service.ErrSoftwareNotFound, softwareName)
	}

	version, err := s.runExtractor(ctx, s.extractors[idx])
	if err != nil {
		if s.policy == service.FailurePolicyAbsent && ctx.Err() == nil {
			slog.Warn("Extractor failed, reporting as absent",
				"software", softwareName,
				"error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", service.ErrAggregationFailed, err)
	}
	return version, nil
}

// runExtractor returns the version found by ex, nil when no entry qualified
func (s *aggregationSvc) runExtractor(ctx context.Context, ex extractors.Extractor) (*string, error) {
	name := ex.SoftwareName()

	if s.extractorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.extractorTimeout)
		defer cancel()
	}

	attrs := []attribute.KeyValue{otel.AttrSoftwareName.String(name)}
	if kind := extractors.KindOf(ex); kind != "" {
		attrs = append(attrs, otel.AttrExtractorKind.String(string(kind)))
	}
	ctx, span := otel.StartSpan(ctx, s.tracer, "extractor.Latest", trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	res, err := extractors.Latest(ctx, ex)
	duration := time.Since(start)

	switch {
	case err != nil:
		s.metrics.RecordExtraction(ctx, name, telemetry.OutcomeError, duration)
		span.SetAttributes(otel.AttrOutcome.String(telemetry.OutcomeError))
		otel.RecordError(span, err)
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Debug("Extractor timed out", "software", name, "timeout", s.extractorTimeout)
		}
		return nil, err
	case !res.Found:
		s.metrics.RecordExtraction(ctx, name, telemetry.OutcomeAbsent, duration)
		span.SetAttributes(
			otel.AttrOutcome.String(telemetry.OutcomeAbsent),
			otel.AttrEntryCount.Int(res.Entries))
		slog.Debug("No qualifying release", "software", name, "entries", res.Entries)
		return nil, nil
	default:
		s.metrics.RecordExtraction(ctx, name, telemetry.OutcomeFound, duration)
		span.SetAttributes(
			otel.AttrOutcome.String(telemetry.OutcomeFound),
			otel.AttrEntryCount.Int(res.Entries),
			otel.AttrSoftwareVer.String(res.Version))
		version := res.Version
		return &version, nil
	}
}
