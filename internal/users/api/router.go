package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/swaran21/fitness-AI-backend/internal/users/provision"
	"github.com/swaran21/fitness-AI-backend/internal/users/store"
	"github.com/swaran21/fitness-AI-backend/internal/web"
)

// NewRouter creates and configures the chi router with all middleware and routes.
//
// Routes:
//   - GET  /health - Liveness probe
//   - GET  /health/ready - Readiness probe
//   - GET  /metrics - Prometheus metrics
//   - POST /api/users/register - Register or reconcile a user
//   - POST /api/users/{userId}/ensure-exists - JIT provisioning by external id
//   - GET  /api/users/{userId}/validate - Legacy existence check by external id
//   - GET  /api/users/{userId} - Public profile by internal id
func NewRouter(coordinator *provision.Coordinator, s *store.GORMStore, metrics *web.Metrics) http.Handler {
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

	healthHandler := NewHealthHandler(s)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	if metrics != nil {
		r.Get("/metrics", metrics.Handler().ServeHTTP)
	}

	userHandler := NewUserHandler(coordinator)
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register)

		// {userId} is the external identity for ensure-exists and the legacy
		// validate probe, and the internal id for the profile read. chi needs
		// a single param name per segment position.
		r.Route("/{userId}", func(r chi.Router) {
			r.Post("/ensure-exists", userHandler.EnsureExists)
			r.Get("/validate", userHandler.Validate)
			r.Get("/", userHandler.GetProfile)
		})
	})

	return r
}
