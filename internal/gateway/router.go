package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/swaran21/fitness-AI-backend/internal/web"
)

// NewRouter creates the gateway router.
//
// Route table:
//   - /api/users/** -> user service
//   - /api/activities/** -> activity service
//   - /api/recommendations/** -> AI service
//
// Every proxied request passes the identity sync filter; rate limiting is
// applied before anything else touches the request.
func NewRouter(upstreams UpstreamConfig, sync *UserSync, limiter *web.RateLimiter, metrics *web.Metrics) (http.Handler, error) {
	upstreams.ApplyDefaults()

	userProxy, err := newProxy(upstreams.UserService)
	if err != nil {
		return nil, fmt.Errorf("user service upstream: %w", err)
	}
	activityProxy, err := newProxy(upstreams.ActivityService)
	if err != nil {
		return nil, fmt.Errorf("activity service upstream: %w", err)
	}
	aiProxy, err := newProxy(upstreams.AIService)
	if err != nil {
		return nil, fmt.Errorf("ai service upstream: %w", err)
	}

	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(web.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	if limiter != nil {
		r.Use(limiter.Middleware())
	}
	if metrics != nil {
		r.Use(metrics.Middleware)
	}

	r.Get("/health", healthHandler(upstreams))

	if metrics != nil {
		r.Get("/metrics", metrics.Handler().ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(sync.Middleware)

		r.Handle("/api/users/*", userProxy)
		r.Handle("/api/activities/*", activityProxy)
		r.Handle("/api/activities", activityProxy)
		r.Handle("/api/recommendations/*", aiProxy)
	})

	return r, nil
}
