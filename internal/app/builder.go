package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/release-version-api/internal/api"
	"github.com/stacklok/release-version-api/internal/config"
	"github.com/stacklok/release-version-api/internal/extractors"
	"github.com/stacklok/release-version-api/internal/filtering"
	"github.com/stacklok/release-version-api/internal/httpclient"
	"github.com/stacklok/release-version-api/internal/service"
	"github.com/stacklok/release-version-api/internal/service/aggregation"
	"github.com/stacklok/release-version-api/internal/telemetry"
)

const (
	defaultHTTPAddress    = ":8080"
	defaultRequestTimeout = 30 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 35 * time.Second // Must be > defaultRequestTimeout to let middleware handle timeout
	defaultIdleTimeout    = 60 * time.Second
)

// ReleaseVersionAppOptions is a function that configures the app builder
type ReleaseVersionAppOptions func(*releaseVersionAppConfig) error

// releaseVersionAppConfig collects the builder inputs.
// It supports dependency injection for testing while providing sensible defaults for production.
type releaseVersionAppConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	service    service.Service
	httpClient httpclient.Client

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Telemetry components
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...ReleaseVersionAppOptions) (*releaseVersionAppConfig, error) {
	cfg := &releaseVersionAppConfig{
		address:        defaultHTTPAddress,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		cfg.config = config.Default()
	}

	return cfg, nil
}

// NewReleaseVersionApp creates the application with the given options
func NewReleaseVersionApp(
	ctx context.Context,
	opts ...ReleaseVersionAppOptions,
) (*ReleaseVersionApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	components, err := buildServiceComponents(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build service components: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)

	httpServer, err := buildHTTPServer(appCtx, cfg, components.Service)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	return &ReleaseVersionApp{
		config:     cfg.config,
		components: components,
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: cancel,
	}, nil
}

// NewService builds the aggregation service alone, without an HTTP server
func NewService(ctx context.Context, opts ...ReleaseVersionAppOptions) (service.Service, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	components, err := buildServiceComponents(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return components.Service, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) ReleaseVersionAppOptions {
	return func(cfg *releaseVersionAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) ReleaseVersionAppOptions {
	return func(cfg *releaseVersionAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("address is not valid: %w", err)
		}
		if port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(net.JoinHostPort(host, port)); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares, replacing the defaults
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ReleaseVersionAppOptions {
	return func(cfg *releaseVersionAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithRequestTimeout sets the per-request timeout of the default middleware chain
func WithRequestTimeout(d time.Duration) ReleaseVersionAppOptions {
	return func(cfg *releaseVersionAppConfig) error {
		if d <= 0 {
			return fmt.Errorf("request timeout must be positive")
		}
		cfg.requestTimeout = d
		if cfg.writeTimeout <= d {
			cfg.writeTimeout = d + 5*time.Second
		}
		return nil
	}
}

// WithService allows injecting a prebuilt service (for testing)
func WithService(svc service.Service) ReleaseVersionAppOptions {
	return func(cfg *releaseVersionAppConfig) error {
		cfg.service = svc
		return nil
	}
}

// WithHTTPClient allows injecting the outbound HTTP client (for testing)
func WithHTTPClient(c httpclient.Client) ReleaseVersionAppOptions {
	return func(cfg *releaseVersionAppConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for extraction and HTTP metrics
func WithMeterProvider(mp metric.MeterProvider) ReleaseVersionAppOptions {
	return func(cfg *releaseVersionAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider for HTTP and aggregation spans
func WithTracerProvider(tp trace.TracerProvider) ReleaseVersionAppOptions {
	return func(cfg *releaseVersionAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithMetricsHandler serves the given handler on /metrics
func WithMetricsHandler(h http.Handler) ReleaseVersionAppOptions {
	return func(cfg *releaseVersionAppConfig) error {
		cfg.metricsHandler = h
		return nil
	}
}

// buildServiceComponents builds the extractor registry and the aggregation service
//
//nolint:unparam // we prefer having a similar interface
func buildServiceComponents(
	_ context.Context,
	b *releaseVersionAppConfig,
) (*AppComponents, error) {
	if b.service != nil {
		return &AppComponents{Service: b.service}, nil
	}

	slog.Info("Initializing service components")

	if b.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	registry, err := buildRegistry(b)
	if err != nil {
		return nil, err
	}

	policy, err := service.ParseFailurePolicy(b.config.Aggregation.FailurePolicy)
	if err != nil {
		return nil, err
	}

	svcOpts := []aggregation.Option{
		aggregation.WithFailurePolicy(policy),
		aggregation.WithConcurrency(b.config.Aggregation.Concurrency),
		aggregation.WithExtractorTimeout(b.config.Aggregation.ExtractorTimeout),
	}

	if b.meterProvider != nil {
		extractionMetrics, err := telemetry.NewExtractionMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create extraction metrics: %w", err)
		}
		if extractionMetrics != nil {
			svcOpts = append(svcOpts, aggregation.WithMetrics(extractionMetrics))
			slog.Info("Extraction metrics enabled")
		}
	}
	if b.tracerProvider != nil {
		svcOpts = append(svcOpts, aggregation.WithTracerProvider(b.tracerProvider))
	}

	svc, err := aggregation.New(registry, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create aggregation service: %w", err)
	}

	slog.Info("Service components initialized successfully",
		"extractors", registry.Len(),
		"failure_policy", policy,
	)
	return &AppComponents{Registry: registry, Service: svc}, nil
}

// buildRegistry builds the extractor registry from the configured definitions
func buildRegistry(b *releaseVersionAppConfig) (*extractors.Registry, error) {
	if b.httpClient == nil {
		b.httpClient = httpclient.NewClient(b.config.HTTPClientConfig())
	}

	nameFilter, err := filtering.NewNameFilter(b.config.Extractors.Include, b.config.Extractors.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor name filter: %w", err)
	}

	registry, err := extractors.NewRegistry(
		b.config.ExtractorDefinitions(),
		b.httpClient,
		extractors.WithReleaseFilter(filtering.NewKeywordFilter(b.config.GetBlocklist())),
		extractors.WithNameFilter(nameFilter),
		extractors.WithFeedBaseURL(b.config.Extractors.FeedBaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor registry: %w", err)
	}

	slog.Info("Extractor registry created", "software", strings.Join(registry.Names(), ","))
	return registry, nil
}

// buildHTTPServer builds the HTTP server with router and middleware.
// Requests inherit ctx, so cancelling it aborts in-flight aggregations.
func buildHTTPServer(
	ctx context.Context,
	b *releaseVersionAppConfig,
	svc service.Service,
) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	// Use default middlewares if not provided
	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Metrics go first to capture every request
	if b.meterProvider != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		if metricsMiddleware != nil {
			b.middlewares = append([]func(http.Handler) http.Handler{metricsMiddleware}, b.middlewares...)
			slog.Info("HTTP metrics middleware enabled")
		}
	}
	if b.tracerProvider != nil {
		b.middlewares = append(b.middlewares, telemetry.TracingMiddleware(b.tracerProvider))
	}

	router := api.NewServer(svc,
		api.WithMiddlewares(b.middlewares...),
		api.WithMetricsHandler(b.metricsHandler),
	)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
