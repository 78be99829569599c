package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/documents/", "GET", 200, 2*time.Millisecond)
	m.RecordRequest("/documents/", "GET", 200, 4*time.Millisecond)
	m.RecordError("/documents/:id", "GET", "NOT_FOUND")

	require.Equal(t, 2.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/documents/", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.errorTotal.WithLabelValues("GET", "/documents/:id", "NOT_FOUND")))
	require.Equal(t, 1, testutil.CollectAndCount(m.requestLatency))
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/teams/", "POST", 201, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `convodocs_api_http_requests_total{method="POST",route="/teams/",status="201"} 1`)
	require.Contains(t, string(body), "convodocs_api_http_request_duration_seconds_bucket")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	require.NotNil(t, m.Registry())
}
