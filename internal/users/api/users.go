// Package api exposes the user service HTTP API: registration,
// just-in-time provisioning, the legacy existence check and profile reads.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/swaran21/fitness-AI-backend/internal/logger"
	"github.com/swaran21/fitness-AI-backend/internal/users/models"
	"github.com/swaran21/fitness-AI-backend/internal/users/provision"
	"github.com/swaran21/fitness-AI-backend/internal/users/reconcile"
	"github.com/swaran21/fitness-AI-backend/internal/web"
)

// UserHandler handles user provisioning and profile endpoints.
type UserHandler struct {
	coordinator *provision.Coordinator
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(c *provision.Coordinator) *UserHandler {
	return &UserHandler{
		coordinator: c,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterResponse is the response body for POST /api/users/register.
type RegisterResponse struct {
	models.Profile
	Status reconcile.Status `json:"status"`
}

// Register handles POST /api/users/register.
//
// Serves both local signup and JIT sync from the gateway. Responds 201 when
// a record was provisioned, 200 when an existing record was matched or
// merged, 409 on an identity conflict.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req provision.RegisterRequest
	if !web.DecodeJSONBody(w, r, &req) {
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		web.BadRequest(w, validationDetail(err))
		return
	}

	result, err := h.coordinator.Register(r.Context(), req)
	if err != nil {
		h.writeRegistrationError(w, err)
		return
	}

	resp := RegisterResponse{Profile: result.User.ToProfile(), Status: result.Status}
	if result.Status == reconcile.StatusCreated {
		web.WriteJSONCreated(w, resp)
		return
	}
	web.WriteJSONOK(w, resp)
}

// EnsureExists handles POST /api/users/{userId}/ensure-exists.
// The path segment is the external identity. Guarantees a record is linked
// to it, provisioning a placeholder when none is.
func (h *UserHandler) EnsureExists(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "userId")

	user, err := h.coordinator.EnsureExists(r.Context(), externalID)
	if err != nil {
		h.writeRegistrationError(w, err)
		return
	}

	web.WriteJSONOK(w, user.ToProfile())
}

// Validate handles GET /api/users/{userId}/validate.
//
// Legacy existence probe kept for older activity service deployments: the
// path segment is the external identity and the body is a bare JSON
// boolean, not an envelope.
func (h *UserHandler) Validate(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "userId")

	exists, err := h.coordinator.Exists(r.Context(), externalID)
	if err != nil {
		logger.Error("existence check failed", "external_id", externalID, "error", err)
		web.InternalServerError(w, "Failed to check user existence")
		return
	}

	web.WriteJSONOK(w, exists)
}

// GetProfile handles GET /api/users/{userId}.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	profile, err := h.coordinator.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			web.NotFound(w, fmt.Sprintf("User %q not found", userID))
			return
		}
		logger.Error("profile lookup failed", "user_id", userID, "error", err)
		web.InternalServerError(w, "Failed to load user profile")
		return
	}

	web.WriteJSONOK(w, profile)
}

// writeRegistrationError maps provisioning errors to problem responses.
func (h *UserHandler) writeRegistrationError(w http.ResponseWriter, err error) {
	var conflict *models.ConflictError
	switch {
	case errors.As(err, &conflict):
		web.Conflict(w, fmt.Sprintf(
			"Email %q is already linked to a different external identity", conflict.Email))
	case errors.Is(err, models.ErrReconciliationFailed):
		logger.Error("registration failed", "error", err)
		web.InternalServerError(w, "Identity reconciliation failed, please retry")
	default:
		logger.Error("registration failed", "error", err)
		web.InternalServerError(w, "Failed to register user")
	}
}

// validationDetail renders the first field violation from a validator error.
func validationDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("Field %q is required", fe.Field())
		case "email":
			return fmt.Sprintf("Field %q must be a valid email address", fe.Field())
		case "min":
			return fmt.Sprintf("Field %q must be at least %s characters", fe.Field(), fe.Param())
		default:
			return fmt.Sprintf("Field %q is invalid", fe.Field())
		}
	}
	return "Invalid request"
}
