package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/elevatecrm/backend/internal/infrastructure/telemetry"
)

func collectRequestCount(t *testing.T, reader *sdkmetric.ManualReader) (int64, attribute.Set) {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "http.server.requests" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			return sum.DataPoints[0].Value, sum.DataPoints[0].Attributes
		}
	}
	t.Fatal("request counter not collected")
	return 0, attribute.Set{}
}

func TestRequestMetricsRecordsRouteTemplate(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rec, err := telemetry.NewRequestMetrics(provider.Meter("test"))
	require.NoError(t, err)

	router := gin.New()
	router.Use(RequestMetrics(rec))
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	require.Equal(t, http.StatusOK, w.Code)

	count, attrs := collectRequestCount(t, reader)
	assert.Equal(t, int64(1), count)

	route, ok := attrs.Value("http.route")
	require.True(t, ok)
	assert.Equal(t, "/items/:id", route.AsString())

	status, ok := attrs.Value("http.status_code")
	require.True(t, ok)
	assert.Equal(t, "200", status.AsString())
}

func TestRequestMetricsLabelsUnmatchedRoutes(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rec, err := telemetry.NewRequestMetrics(provider.Meter("test"))
	require.NoError(t, err)

	router := gin.New()
	router.Use(RequestMetrics(rec))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no/such/route", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	_, attrs := collectRequestCount(t, reader)
	route, ok := attrs.Value("http.route")
	require.True(t, ok)
	assert.Equal(t, "unmatched", route.AsString())
}
