// Package api serves the usage analytics over HTTP as JSON.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/pario-ai/reqlens/pkg/analytics"
	"github.com/pario-ai/reqlens/pkg/metrics"
	"github.com/pario-ai/reqlens/pkg/models"
	"github.com/pario-ai/reqlens/pkg/store"
)

// defaultMaxUpload caps CSV uploads when RouterDeps leaves it unset.
const defaultMaxUpload = 32 << 20

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	Store          store.Store
	Engine         *analytics.Engine
	Metrics        *metrics.Metrics
	Logger         zerolog.Logger
	DefaultPlan    models.Plan
	MaxUploadBytes int64
	// Now is the clock used to mark the current month; defaults to time.Now.
	Now func() time.Time
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	if deps.Engine == nil {
		deps.Engine = analytics.NewDefault()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.DefaultPlan == "" {
		deps.DefaultPlan = models.PlanBusiness
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = defaultMaxUpload
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(deps.Logger))
	r.Use(instrument(deps.Metrics))

	datasets := &datasetsHandler{deps: deps}
	views := &viewsHandler{deps: deps}

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.Route("/api/v1/datasets", func(dr chi.Router) {
		dr.Post("/", datasets.Create)
		dr.Get("/", datasets.List)

		dr.Route("/{id}", func(ir chi.Router) {
			ir.Get("/", datasets.Get)
			ir.Delete("/", datasets.Delete)

			ir.Get("/daily", views.Daily)
			ir.Get("/daily/requests", views.DailyRequests)
			ir.Get("/models", views.Models)
			ir.Get("/power-users", views.PowerUsers)
			ir.Get("/power-users/daily", views.PowerUserDaily)
			ir.Get("/exceeded", views.Exceeded)
			ir.Get("/users/{user}/exceeded", views.UserExceeded)
			ir.Get("/users/{user}/analysis", views.UserAnalysis)
			ir.Get("/quota", views.Quota)
			ir.Get("/projection", views.Projection)
			ir.Get("/overview", views.Overview)
			ir.Get("/months", views.Months)
			ir.Get("/coverage", views.Coverage)
		})
	})

	return r
}
