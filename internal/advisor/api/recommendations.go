// Package api exposes the AI service HTTP API.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	activitymodels "github.com/swaran21/fitness-AI-backend/internal/activities/models"
	"github.com/swaran21/fitness-AI-backend/internal/advisor"
	"github.com/swaran21/fitness-AI-backend/internal/advisor/models"
	"github.com/swaran21/fitness-AI-backend/internal/advisor/store"
	"github.com/swaran21/fitness-AI-backend/internal/logger"
	"github.com/swaran21/fitness-AI-backend/internal/web"
)

// RecommendationHandler handles recommendation endpoints.
type RecommendationHandler struct {
	store   *store.GORMStore
	advisor advisor.Advisor
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(s *store.GORMStore, a advisor.Advisor) *RecommendationHandler {
	return &RecommendationHandler{store: s, advisor: a}
}

// Generate handles POST /api/recommendations/generate.
//
// The body is the recorded activity as dispatched by the activity service.
// Regenerating for the same activity replaces the stored recommendation.
func (h *RecommendationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var activity activitymodels.Activity
	if !web.DecodeJSONBody(w, r, &activity) {
		return
	}
	if activity.ID == "" || activity.UserID == "" {
		web.BadRequest(w, "Activity id and user id are required")
		return
	}

	rec, err := h.advisor.Advise(r.Context(), &activity)
	if err != nil {
		logger.Error("recommendation generation failed",
			"activity_id", activity.ID, "error", err)
		web.InternalServerError(w, "Failed to generate recommendation")
		return
	}

	saved, err := h.store.Save(r.Context(), rec)
	if err != nil {
		logger.Error("failed to store recommendation",
			"activity_id", activity.ID, "error", err)
		web.InternalServerError(w, "Failed to store recommendation")
		return
	}

	web.WriteJSONCreated(w, saved)
}

// ListByUser handles GET /api/recommendations/user/{userId}.
func (h *RecommendationHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	recs, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		logger.Error("failed to list recommendations", "user_id", userID, "error", err)
		web.InternalServerError(w, "Failed to list recommendations")
		return
	}

	web.WriteJSONOK(w, recs)
}

// GetByActivity handles GET /api/recommendations/activity/{activityId}.
func (h *RecommendationHandler) GetByActivity(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "activityId")

	rec, err := h.store.FindByActivity(r.Context(), activityID)
	if err != nil {
		if errors.Is(err, models.ErrRecommendationNotFound) {
			web.NotFound(w, fmt.Sprintf("No recommendation for activity %q", activityID))
			return
		}
		logger.Error("failed to load recommendation",
			"activity_id", activityID, "error", err)
		web.InternalServerError(w, "Failed to load recommendation")
		return
	}

	web.WriteJSONOK(w, rec)
}
