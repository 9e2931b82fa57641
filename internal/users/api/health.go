package api

import (
	"net/http"
	"time"

	"github.com/swaran21/fitness-AI-backend/internal/users/store"
	"github.com/swaran21/fitness-AI-backend/internal/web"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store *store.GORMStore
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(s *store.GORMStore) *HealthHandler {
	return &HealthHandler{store: s}
}

// HealthResponse is the response body for health endpoints.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Liveness handles GET /health. Always healthy while the process serves.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	web.WriteJSONOK(w, HealthResponse{Status: "healthy", Timestamp: time.Now().UTC()})
}

// Readiness handles GET /health/ready. Fails when the database is
// unreachable.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := h.store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		web.ServiceUnavailable(w, "Database is not reachable")
		return
	}
	web.WriteJSONOK(w, HealthResponse{Status: "ready", Timestamp: time.Now().UTC()})
}
