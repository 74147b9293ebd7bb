package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/api/v1/datasets", 200, 15*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/datasets", 200, 5*time.Millisecond)
	m.AddIngested(42)
	m.IncIngestFailure("row")

	body := scrape(t, m)
	assert.Contains(t, body, `reqlens_http_requests_total{method="GET",route="/api/v1/datasets",status="200"} 2`)
	assert.Contains(t, body, `reqlens_http_request_duration_seconds_count{method="GET",route="/api/v1/datasets"} 2`)
	assert.Contains(t, body, "reqlens_ingested_records_total 42")
	assert.Contains(t, body, `reqlens_ingest_failures_total{kind="row"} 1`)
}

func TestHandlerIncludesRuntimeCollectors(t *testing.T) {
	body := scrape(t, New())
	assert.Contains(t, body, "go_goroutines")
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.AddIngested(5)
	assert.Contains(t, scrape(t, b), "reqlens_ingested_records_total 0")
}
