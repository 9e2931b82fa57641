package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/swaran21/fitness-AI-backend/internal/advisor"
	"github.com/swaran21/fitness-AI-backend/internal/advisor/store"
	"github.com/swaran21/fitness-AI-backend/internal/web"
)

// NewRouter creates and configures the AI service router.
//
// Routes:
//   - GET  /health - Liveness probe
//   - GET  /metrics - Prometheus metrics
//   - POST /api/recommendations/generate - Generate for an activity
//   - GET  /api/recommendations/user/{userId} - User's recommendations
//   - GET  /api/recommendations/activity/{activityId} - Single recommendation
func NewRouter(s *store.GORMStore, a advisor.Advisor, metrics *web.Metrics) http.Handler {
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

	handler := NewRecommendationHandler(s, a)
	r.Route("/api/recommendations", func(r chi.Router) {
		r.Post("/generate", handler.Generate)
		r.Get("/user/{userId}", handler.ListByUser)
		r.Get("/activity/{activityId}", handler.GetByActivity)
	})

	return r
}
