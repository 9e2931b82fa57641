// Package provision exposes the user-facing provisioning operations on top
// of the reconciliation engine: registration, just-in-time record creation
// and the legacy existence check.
package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/swaran21/fitness-AI-backend/internal/identity"
	"github.com/swaran21/fitness-AI-backend/internal/users/models"
	"github.com/swaran21/fitness-AI-backend/internal/users/reconcile"
	"github.com/swaran21/fitness-AI-backend/internal/users/store"
)

// RegisterRequest carries the fields accepted by the registration operation.
// The external id and password are both optional: JIT sync supplies an
// external id and no password, local signup the other way around.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password,omitempty" validate:"omitempty,min=6"`
	ExternalID string `json:"externalId,omitempty"`
	GivenName  string `json:"firstName,omitempty"`
	FamilyName string `json:"lastName,omitempty"`
}

// Coordinator wires the reconciliation engine and the record store into the
// operations the HTTP layer exposes.
type Coordinator struct {
	engine *reconcile.Engine
	store  store.UserStore
}

// NewCoordinator creates a Coordinator over the given store.
func NewCoordinator(s store.UserStore) *Coordinator {
	return &Coordinator{
		engine: reconcile.NewEngine(s),
		store:  s,
	}
}

// Register reconciles a registration request against the record store.
//
// Registration is idempotent: re-registering a known identity returns the
// existing record instead of failing. Identity collisions surface as
// *models.ConflictError.
func (c *Coordinator) Register(ctx context.Context, req RegisterRequest) (reconcile.Result, error) {
	var credentialHash string
	if req.Password != "" {
		hash, err := models.HashCredential(req.Password)
		if err != nil {
			return reconcile.Result{}, err
		}
		credentialHash = hash
	}

	assertion := identity.Assertion{
		ExternalID: strings.TrimSpace(req.ExternalID),
		Email:      strings.TrimSpace(strings.ToLower(req.Email)),
		GivenName:  strings.TrimSpace(req.GivenName),
		FamilyName: strings.TrimSpace(req.FamilyName),
	}
	if assertion.Email == "" {
		return reconcile.Result{}, fmt.Errorf("email is required")
	}

	return c.engine.Reconcile(ctx, assertion, credentialHash)
}

// EnsureExists guarantees a record is linked to the external id, creating a
// minimal placeholder record when none is. Safe to call concurrently for the
// same id; the engine resolves the provisioning race.
func (c *Coordinator) EnsureExists(ctx context.Context, externalID string) (*models.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, fmt.Errorf("external id is required")
	}

	result, err := c.engine.Reconcile(ctx, identity.Assertion{ExternalID: externalID}, "")
	if err != nil {
		return nil, err
	}
	return result.User, nil
}

// Sync reconciles an identity assertion extracted from a request token.
// Used by the gateway sync path; never sets a credential.
func (c *Coordinator) Sync(ctx context.Context, assertion identity.Assertion) (reconcile.Result, error) {
	return c.engine.Reconcile(ctx, assertion, "")
}

// Exists reports whether a record is linked to the external id without
// creating one. Backs the legacy existence-check endpoint.
func (c *Coordinator) Exists(ctx context.Context, externalID string) (bool, error) {
	return c.store.ExistsByExternalID(ctx, externalID)
}

// GetProfile returns the public projection of the record with the given
// internal id.
func (c *Coordinator) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	user, err := c.store.FindByID(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	return user.ToProfile(), nil
}
