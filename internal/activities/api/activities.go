// Package api exposes the activity service HTTP API.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/swaran21/fitness-AI-backend/internal/activities"
	"github.com/swaran21/fitness-AI-backend/internal/activities/models"
	"github.com/swaran21/fitness-AI-backend/internal/activities/store"
	"github.com/swaran21/fitness-AI-backend/internal/logger"
	"github.com/swaran21/fitness-AI-backend/internal/web"
)

// HeaderUserID is the identity header stamped by the gateway.
const HeaderUserID = "X-User-ID"

// ActivityHandler handles activity tracking endpoints.
type ActivityHandler struct {
	store    *store.GORMStore
	users    activities.UserValidator
	notifier activities.Notifier
	validate *validator.Validate
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(s *store.GORMStore, users activities.UserValidator, notifier activities.Notifier) *ActivityHandler {
	return &ActivityHandler{
		store:    s,
		users:    users,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateActivityRequest is the request body for POST /api/activities.
type CreateActivityRequest struct {
	Type              models.ActivityType `json:"type" validate:"required"`
	DurationMinutes   int                 `json:"duration" validate:"gte=0"`
	CaloriesBurned    int                 `json:"caloriesBurned" validate:"gte=0"`
	StartTime         time.Time           `json:"startTime"`
	AdditionalMetrics models.Metrics      `json:"additionalMetrics,omitempty"`
}

// Create handles POST /api/activities.
//
// The user identity comes from the gateway's identity header. The user is
// validated (and JIT-provisioned) against the user service before the
// activity is stored; the stored activity is then dispatched to the
// recommendation pipeline.
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(HeaderUserID)
	if userID == "" {
		web.Unauthorized(w, "Missing user identity")
		return
	}

	var req CreateActivityRequest
	if !web.DecodeJSONBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		web.BadRequest(w, "Invalid activity payload")
		return
	}
	if !req.Type.IsValid() {
		web.BadRequest(w, fmt.Sprintf("Unknown activity type %q", req.Type))
		return
	}

	if err := h.users.Validate(r.Context(), userID); err != nil {
		h.writeValidationError(w, userID, err)
		return
	}

	activity, err := h.store.Create(r.Context(), &models.Activity{
		UserID:            userID,
		Type:              req.Type,
		DurationMinutes:   req.DurationMinutes,
		CaloriesBurned:    req.CaloriesBurned,
		StartTime:         req.StartTime,
		AdditionalMetrics: req.AdditionalMetrics,
	})
	if err != nil {
		logger.Error("failed to store activity", "user_id", userID, "error", err)
		web.InternalServerError(w, "Failed to store activity")
		return
	}

	h.notifier.ActivityRecorded(activity)

	web.WriteJSONCreated(w, activity)
}

// List handles GET /api/activities. Returns the caller's activities.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(HeaderUserID)
	if userID == "" {
		web.Unauthorized(w, "Missing user identity")
		return
	}

	list, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		logger.Error("failed to list activities", "user_id", userID, "error", err)
		web.InternalServerError(w, "Failed to list activities")
		return
	}

	web.WriteJSONOK(w, list)
}

// Get handles GET /api/activities/{activityId}.
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "activityId")

	activity, err := h.store.FindByID(r.Context(), activityID)
	if err != nil {
		if errors.Is(err, models.ErrActivityNotFound) {
			web.NotFound(w, fmt.Sprintf("Activity %q not found", activityID))
			return
		}
		logger.Error("failed to load activity", "activity_id", activityID, "error", err)
		web.InternalServerError(w, "Failed to load activity")
		return
	}

	web.WriteJSONOK(w, activity)
}

// Delete handles DELETE /api/activities/{activityId}. The activity must
// belong to the caller.
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(HeaderUserID)
	if userID == "" {
		web.Unauthorized(w, "Missing user identity")
		return
	}

	activityID := chi.URLParam(r, "activityId")
	activity, err := h.store.FindByID(r.Context(), activityID)
	if err != nil {
		if errors.Is(err, models.ErrActivityNotFound) {
			web.NotFound(w, fmt.Sprintf("Activity %q not found", activityID))
			return
		}
		web.InternalServerError(w, "Failed to load activity")
		return
	}
	if activity.UserID != userID {
		web.NotFound(w, fmt.Sprintf("Activity %q not found", activityID))
		return
	}

	if err := h.store.Delete(r.Context(), activityID); err != nil {
		logger.Error("failed to delete activity", "activity_id", activityID, "error", err)
		web.InternalServerError(w, "Failed to delete activity")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeValidationError maps user validation errors to problem responses.
func (h *ActivityHandler) writeValidationError(w http.ResponseWriter, userID string, err error) {
	switch {
	case errors.Is(err, models.ErrUserUnvalidated):
		web.UnprocessableEntity(w, fmt.Sprintf("User %q could not be validated", userID))
	case errors.Is(err, models.ErrValidationUnavailable):
		logger.Warn("user validation unavailable", "user_id", userID, "error", err)
		web.ServiceUnavailable(w, "User validation is temporarily unavailable")
	default:
		logger.Error("user validation failed", "user_id", userID, "error", err)
		web.InternalServerError(w, "Failed to validate user")
	}
}
