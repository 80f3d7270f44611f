package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func newTestTracerProvider(t *testing.T) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter, tp
}

func newRouter(mw func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw)
	r.Get("/v1/most_recent", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/v1/software/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	return r
}

func TestMetricsMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("nil provider passes through", func(t *testing.T) {
		t.Parallel()

		mw, err := MetricsMiddleware(nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		newRouter(mw).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/most_recent", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("records route pattern and status", func(t *testing.T) {
		t.Parallel()

		reader := sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

		mw, err := MetricsMiddleware(mp)
		require.NoError(t, err)
		router := newRouter(mw)

		for _, path := range []string{"/v1/most_recent", "/v1/most_recent", "/v1/software/a", "/v1/software/b"} {
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		}

		collected := collectMetrics(t, reader)
		counter, ok := collected["rva_http_requests_total"].Data.(metricdata.Sum[int64])
		require.True(t, ok)

		counts := make(map[string]int64)
		for _, dp := range counter.DataPoints {
			route, _ := dp.Attributes.Value(attribute.Key("route"))
			status, _ := dp.Attributes.Value(attribute.Key("status_code"))
			counts[route.AsString()+" "+status.AsString()] = dp.Value
		}
		assert.Equal(t, map[string]int64{
			"/v1/most_recent 200":     2,
			"/v1/software/{name} 404": 2,
		}, counts)

		active, ok := collected["rva_http_active_requests"].Data.(metricdata.Sum[int64])
		require.True(t, ok)
		for _, dp := range active.DataPoints {
			assert.Equal(t, int64(0), dp.Value)
		}
	})
}

func TestTracingMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("nil provider passes through", func(t *testing.T) {
		t.Parallel()

		rr := httptest.NewRecorder()
		newRouter(TracingMiddleware(nil)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/broken", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	tests := []struct {
		name           string
		path           string
		expectedSpan   string
		expectedRoute  string
		expectedStatus codes.Code
	}{
		{
			name:           "success",
			path:           "/v1/most_recent",
			expectedSpan:   "GET /v1/most_recent",
			expectedRoute:  "/v1/most_recent",
			expectedStatus: codes.Ok,
		},
		{
			name:           "route pattern replaces path",
			path:           "/v1/software/nextcloud",
			expectedSpan:   "GET /v1/software/{name}",
			expectedRoute:  "/v1/software/{name}",
			expectedStatus: codes.Error,
		},
		{
			name:           "server error",
			path:           "/broken",
			expectedSpan:   "GET /broken",
			expectedRoute:  "/broken",
			expectedStatus: codes.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exporter, tp := newTestTracerProvider(t)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("User-Agent", "zabbix-agent/6.0")

			newRouter(TracingMiddleware(tp)).ServeHTTP(httptest.NewRecorder(), req)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.expectedSpan, spans[0].Name)
			assert.Equal(t, tt.expectedStatus, spans[0].Status.Code)

			attrs := make(map[attribute.Key]attribute.Value)
			for _, kv := range spans[0].Attributes {
				attrs[kv.Key] = kv.Value
			}
			assert.Equal(t, tt.expectedRoute, attrs[semconv.HTTPRouteKey].AsString())
			assert.Equal(t, tt.path, attrs[semconv.URLPathKey].AsString())
			assert.Equal(t, "zabbix-agent/6.0", attrs[semconv.UserAgentOriginalKey].AsString())
		})
	}

	t.Run("probe endpoints are not traced", func(t *testing.T) {
		t.Parallel()

		exporter, tp := newTestTracerProvider(t)
		rr := httptest.NewRecorder()
		newRouter(TracingMiddleware(tp)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, exporter.GetSpans())
	})
}

func TestRoutePattern_Unrouted(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	assert.Equal(t, unknownRoute, routePattern(req))
}

func TestTruncateUserAgent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "curl/8.0", truncateUserAgent("curl/8.0"))
	assert.Equal(t, strings.Repeat("a", MaxUserAgentLength), truncateUserAgent(strings.Repeat("a", MaxUserAgentLength)))
	assert.Equal(t, strings.Repeat("a", MaxUserAgentLength), truncateUserAgent(strings.Repeat("a", MaxUserAgentLength+40)))
}
