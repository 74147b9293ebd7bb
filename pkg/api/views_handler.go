package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pario-ai/reqlens/pkg/analytics"
	"github.com/pario-ai/reqlens/pkg/calendar"
	"github.com/pario-ai/reqlens/pkg/models"
)

type viewsHandler struct {
	deps RouterDeps
}

// records loads the dataset's records, narrowed to ?month= when present.
func (h *viewsHandler) records(w http.ResponseWriter, r *http.Request) ([]models.UsageRecord, bool) {
	recs, ok := h.allRecords(w, r)
	if !ok {
		return nil, false
	}

	if v := r.URL.Query().Get("month"); v != "" {
		m, err := calendar.ParseMonth(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_month", err.Error())
			return nil, false
		}
		recs = calendar.FilterByMonth(recs, m)
	}
	return recs, true
}

// plan reads ?plan=, falling back to the configured default.
func (h *viewsHandler) plan(w http.ResponseWriter, r *http.Request) (models.Plan, bool) {
	v := r.URL.Query().Get("plan")
	if v == "" {
		return h.deps.DefaultPlan, true
	}
	p, err := models.ParsePlan(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_plan", err.Error())
		return "", false
	}
	return p, true
}

func (h *viewsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.records(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": analytics.AggregateByDay(recs)})
}

func (h *viewsHandler) DailyRequests(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.records(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": analytics.DailyModelRequests(recs)})
}

func (h *viewsHandler) Models(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.records(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": h.deps.Engine.ModelSummary(recs)})
}

type powerUsersResponse struct {
	models.PowerUserSummary
	DailyTotals []models.DailyRequests `json:"daily_totals"`
}

func (h *viewsHandler) PowerUsers(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.records(w, r)
	if !ok {
		return
	}
	s := h.deps.Engine.PowerUsers(recs)
	writeJSON(w, http.StatusOK, powerUsersResponse{
		PowerUserSummary: s,
		DailyTotals:      analytics.PowerUserDailyTotals(s.PowerUsers),
	})
}

// PowerUserDaily breaks down the named ?user= values per day; without any
// it covers the current power users.
func (h *viewsHandler) PowerUserDaily(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.records(w, r)
	if !ok {
		return
	}
	users := r.URL.Query()["user"]
	if len(users) == 0 {
		users = h.deps.Engine.PowerUsers(recs).Names()
	}
	days := analytics.PowerUserDailyBreakdown(recs, users)
	writeJSON(w, http.StatusOK, map[string]any{
		"users":  users,
		"models": analytics.UniqueModels(days),
		"days":   days,
	})
}

func (h *viewsHandler) Exceeded(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.records(w, r)
	if !ok {
		return
	}
	filter := analytics.ExceededFilter{
		Date: r.URL.Query().Get("date"),
		User: r.URL.Query().Get("user"),
	}
	if filter.Date != "" {
		if _, err := time.Parse(models.DateLayout, filter.Date); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"details": analytics.ExceededRequestDetails(recs, filter)})
}

func (h *viewsHandler) UserExceeded(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.records(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.UserExceededSummary(recs, chi.URLParam(r, "user")))
}

func (h *viewsHandler) UserAnalysis(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.records(w, r)
	if !ok {
		return
	}
	a, found := analytics.UserAnalysis(recs, chi.URLParam(r, "user"))
	if !found {
		writeError(w, http.StatusNotFound, "user_not_found", "no activity for user")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type quotaResponse struct {
	Plan                      models.Plan `json:"plan"`
	PlanLimit                 float64     `json:"plan_limit"`
	UsersExceedingQuota       int         `json:"users_exceeding_quota"`
	RequestsForUsersExceeding float64     `json:"requests_for_users_exceeding"`
	FlaggedExceedingRequests  float64     `json:"flagged_exceeding_requests"`
}

func (h *viewsHandler) Quota(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.plan(w, r)
	if !ok {
		return
	}
	recs, ok := h.records(w, r)
	if !ok {
		return
	}
	e := h.deps.Engine
	writeJSON(w, http.StatusOK, quotaResponse{
		Plan:                      plan,
		PlanLimit:                 e.Limit(plan),
		UsersExceedingQuota:       e.UsersExceedingQuota(recs, plan),
		RequestsForUsersExceeding: e.RequestsForUsersExceedingQuota(recs, plan),
		FlaggedExceedingRequests:  analytics.FlaggedExceedingRequests(recs),
	})
}

type projectionResponse struct {
	Plan      models.Plan                `json:"plan"`
	PlanLimit float64                    `json:"plan_limit"`
	Users     []models.ProjectedUserData `json:"users"`
	Overage   models.ProjectedOverage    `json:"overage"`
}

func (h *viewsHandler) Projection(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.plan(w, r)
	if !ok {
		return
	}
	recs, ok := h.records(w, r)
	if !ok {
		return
	}
	e := h.deps.Engine
	users := e.ProjectedUsers(recs, plan)
	writeJSON(w, http.StatusOK, projectionResponse{
		Plan:      plan,
		PlanLimit: e.Limit(plan),
		Users:     users,
		Overage:   e.ProjectedOverage(users, plan),
	})
}

func (h *viewsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.plan(w, r)
	if !ok {
		return
	}
	recs, ok := h.records(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Engine.QuotaOverview(recs, plan))
}

// Months lists every month in the dataset; ?month= does not apply.
func (h *viewsHandler) Months(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.allRecords(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": calendar.AvailableMonths(recs, h.deps.Now())})
}

// Coverage reports data coverage of the required ?month=.
func (h *viewsHandler) Coverage(w http.ResponseWriter, r *http.Request) {
	m, err := calendar.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_month", err.Error())
		return
	}
	recs, ok := h.allRecords(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month":    m.String(),
		"label":    m.Label(),
		"coverage": calendar.Coverage(recs, m, h.deps.Now()),
	})
}

func (h *viewsHandler) allRecords(w http.ResponseWriter, r *http.Request) ([]models.UsageRecord, bool) {
	ds, ok := resolveDataset(w, r, h.deps)
	if !ok {
		return nil, false
	}
	recs, err := h.deps.Store.Records(r.Context(), ds.ID)
	if err != nil {
		writeStoreError(w, h.deps, err)
		return nil, false
	}
	return recs, true
}
