package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pario-ai/reqlens/pkg/logging"
	"github.com/pario-ai/reqlens/pkg/metrics"
	"github.com/pario-ai/reqlens/pkg/models"
	"github.com/pario-ai/reqlens/pkg/store"
)

const exportCSV = `date,username,model,quantity,exceeds_quota,total_monthly_quota
2025-05-20T10:00:00Z,dana,o3,4,false,300
2025-06-01T10:00:00Z,alice,gpt-4o-2024-11-20,10,false,300
2025-06-01T11:00:00Z,alice,claude-opus-4,5,true,300
2025-06-01T12:00:00Z,bob,gpt-4.1-2025-04-14,20,false,300
2025-06-02T09:00:00Z,carol,o3-mini,3.5,true,300
2025-06-02T10:00:00Z,alice,claude-opus-4,7,true,300
2025-06-03T08:00:00Z,bob,claude-sonnet-4,1,false,300
`

type testServer struct {
	handler http.Handler
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	m := metrics.New()
	h := NewRouter(RouterDeps{
		Store:   st,
		Metrics: m,
		Logger:  logging.Nop(),
		Now:     func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) },
	})
	return &testServer{handler: h, metrics: m}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "text/csv")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T) models.Dataset {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/datasets?name=june", exportCSV)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var ds models.Dataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ds))
	return ds
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorEnvelope](t, rec).Error.Code
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDatasetLifecycle(t *testing.T) {
	s := newTestServer(t)
	ds := s.upload(t)
	assert.Equal(t, "june", ds.Name)
	assert.Equal(t, 7, ds.RecordCount)
	assert.Equal(t, "2025-06-03", ds.LastDate)

	list := decode[struct {
		Datasets []models.Dataset `json:"datasets"`
	}](t, s.do(t, http.MethodGet, "/api/v1/datasets", ""))
	require.Len(t, list.Datasets, 1)
	assert.Equal(t, ds.ID, list.Datasets[0].ID)

	latest := decode[models.Dataset](t, s.do(t, http.MethodGet, "/api/v1/datasets/latest", ""))
	assert.Equal(t, ds.ID, latest.ID)

	rec := s.do(t, http.MethodDelete, "/api/v1/datasets/"+ds.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/datasets/"+ds.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "dataset_not_found", errorCode(t, rec))
}

func TestUploadInvalidCSV(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/datasets", "date,username\n2025-06-01,u\n")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_csv", errorCode(t, rec))

	bad := strings.Replace(exportCSV, "3.5,true", "3.5,maybe", 1)
	rec = s.do(t, http.MethodPost, "/api/v1/datasets", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[errorEnvelope](t, rec).Error.Message, "line 6")

	body := s.do(t, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, body, `reqlens_ingest_failures_total{kind="header"} 1`)
	assert.Contains(t, body, `reqlens_ingest_failures_total{kind="row"} 1`)
}

func TestUploadTooLarge(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "small.db"))
	require.NoError(t, err)
	defer st.Close()
	h := NewRouter(RouterDeps{Store: st, Logger: logging.Nop(), MaxUploadBytes: 64})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", strings.NewReader(exportCSV))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDailyAndModels(t *testing.T) {
	s := newTestServer(t)
	s.upload(t)

	daily := decode[struct {
		Days []models.DailyModelAggregate `json:"days"`
	}](t, s.do(t, http.MethodGet, "/api/v1/datasets/latest/daily?month=2025-06", ""))
	require.NotEmpty(t, daily.Days)
	assert.Equal(t, "2025-06-01", daily.Days[0].Date)

	summary := decode[struct {
		Models []models.ModelSummary `json:"models"`
	}](t, s.do(t, http.MethodGet, "/api/v1/datasets/latest/models", ""))
	require.NotEmpty(t, summary.Models)
	assert.Equal(t, "Default (gpt-4.1-2025-04-14, gpt-4o-2024-11-20)", summary.Models[0].Model)
	assert.Equal(t, 30.0, summary.Models[0].TotalRequests)
}

func TestInvalidMonthAndPlan(t *testing.T) {
	s := newTestServer(t)
	s.upload(t)

	rec := s.do(t, http.MethodGet, "/api/v1/datasets/latest/daily?month=2025-13", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_month", errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/api/v1/datasets/latest/quota?plan=platinum", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_plan", errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/api/v1/datasets/latest/coverage", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/datasets/latest/exceeded?date=June", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownDatasetView(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/v1/datasets/latest/models", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/datasets/nope/daily", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPowerUsersViews(t *testing.T) {
	s := newTestServer(t)
	s.upload(t)

	pu := decode[powerUsersResponse](t, s.do(t, http.MethodGet, "/api/v1/datasets/latest/power-users?month=2025-06", ""))
	require.Len(t, pu.PowerUsers, 1)
	assert.Equal(t, "alice", pu.PowerUsers[0].User)
	assert.NotEmpty(t, pu.DailyTotals)

	daily := decode[struct {
		Users  []string                         `json:"users"`
		Models []string                         `json:"models"`
		Days   []models.PowerUserDailyBreakdown `json:"days"`
	}](t, s.do(t, http.MethodGet, "/api/v1/datasets/latest/power-users/daily?user=bob", ""))
	assert.Equal(t, []string{"bob"}, daily.Users)
	assert.Equal(t, []string{"claude-sonnet-4", "gpt-4.1-2025-04-14"}, daily.Models)
	assert.Len(t, daily.Days, 2)
}

func TestExceededViews(t *testing.T) {
	s := newTestServer(t)
	s.upload(t)

	details := decode[struct {
		Details []models.ExceededRequestDetail `json:"details"`
	}](t, s.do(t, http.MethodGet, "/api/v1/datasets/latest/exceeded?user=alice", ""))
	require.Len(t, details.Details, 2)
	assert.Equal(t, "2025-06-02", details.Details[0].Date)

	summary := decode[models.UserExceededSummary](t, s.do(t, http.MethodGet, "/api/v1/datasets/latest/users/alice/exceeded", ""))
	assert.Equal(t, 2, summary.TotalExceededDays)
	require.NotNil(t, summary.WorstDay)

	rec := s.do(t, http.MethodGet, "/api/v1/datasets/latest/users/nobody/analysis", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	analysis := decode[models.UserAnalysis](t, s.do(t, http.MethodGet, "/api/v1/datasets/latest/users/alice/analysis", ""))
	assert.Equal(t, 22.0, analysis.TotalRequests)
}

func TestQuotaProjectionOverview(t *testing.T) {
	s := newTestServer(t)
	s.upload(t)

	q := decode[quotaResponse](t, s.do(t, http.MethodGet, "/api/v1/datasets/latest/quota?plan=individual", ""))
	assert.Equal(t, models.PlanIndividual, q.Plan)
	assert.Equal(t, 50.0, q.PlanLimit)
	assert.Equal(t, 0, q.UsersExceedingQuota)
	assert.Equal(t, 15.5, q.FlaggedExceedingRequests)

	p := decode[projectionResponse](t, s.do(t, http.MethodGet, "/api/v1/datasets/latest/projection?plan=Individual", ""))
	require.Len(t, p.Users, 2)
	assert.Equal(t, "alice", p.Users[0].User)
	assert.Equal(t, 2, p.Overage.Users)

	o := decode[models.QuotaOverview](t, s.do(t, http.MethodGet, "/api/v1/datasets/latest/overview", ""))
	assert.Equal(t, models.PlanBusiness, o.Plan)
	assert.Equal(t, 4, o.DistinctUsers)
}

func TestMonthsAndCoverage(t *testing.T) {
	s := newTestServer(t)
	s.upload(t)

	months := decode[struct {
		Months []struct {
			Value          string `json:"value"`
			IsCurrentMonth bool   `json:"is_current_month"`
		} `json:"months"`
	}](t, s.do(t, http.MethodGet, "/api/v1/datasets/latest/months?month=2025-06", ""))
	require.Len(t, months.Months, 2)
	assert.Equal(t, "2025-06", months.Months[0].Value)
	assert.True(t, months.Months[0].IsCurrentMonth)

	cov := decode[struct {
		Label    string `json:"label"`
		Coverage struct {
			DaysWithData int `json:"days_with_data"`
			TotalDays    int `json:"total_days"`
		} `json:"coverage"`
	}](t, s.do(t, http.MethodGet, "/api/v1/datasets/latest/coverage?month=2025-06", ""))
	assert.Equal(t, "June 2025", cov.Label)
	assert.Equal(t, 3, cov.Coverage.DaysWithData)
	assert.Equal(t, 30, cov.Coverage.TotalDays)
}

func TestMetricsUseRoutePatterns(t *testing.T) {
	s := newTestServer(t)
	ds := s.upload(t)
	s.do(t, http.MethodGet, "/api/v1/datasets/"+ds.ID+"/models", "")

	body := s.do(t, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, body, `route="/api/v1/datasets/{id}/models"`)
	assert.NotContains(t, body, ds.ID)
	assert.Contains(t, body, "reqlens_ingested_records_total 7")
}
