package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/swaran21/fitness-AI-backend/internal/activities"
	"github.com/swaran21/fitness-AI-backend/internal/activities/store"
	"github.com/swaran21/fitness-AI-backend/internal/web"
)

// NewRouter creates and configures the activity service router.
//
// Routes:
//   - GET    /health - Liveness probe
//   - GET    /metrics - Prometheus metrics
//   - POST   /api/activities - Record an activity
//   - GET    /api/activities - List the caller's activities
//   - GET    /api/activities/{activityId} - Single activity
//   - DELETE /api/activities/{activityId} - Remove an activity
func NewRouter(s *store.GORMStore, users activities.UserValidator, notifier activities.Notifier, metrics *web.Metrics) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(web.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if metrics != nil {
		r.Use(metrics.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		web.WriteJSONOK(w, map[string]string{"status": "healthy"})
	})

	if metrics != nil {
		r.Get("/metrics", metrics.Handler().ServeHTTP)
	}

	handler := NewActivityHandler(s, users, notifier)
	r.Route("/api/activities", func(r chi.Router) {
		r.Post("/", handler.Create)
		r.Get("/", handler.List)
		r.Get("/{activityId}", handler.Get)
		r.Delete("/{activityId}", handler.Delete)
	})

	return r
}
