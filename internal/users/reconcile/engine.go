// Package reconcile implements identity reconciliation: matching an
// incoming identity assertion against the canonical record store and
// producing a merge, creation, or conflict outcome.
//
// Both entry points into the user service (self-registration and JIT sync
// from the gateway) funnel through the single algorithm here. The external
// id is the primary identity key; email is the secondary key used to link
// pre-provisioned local accounts to their external identity.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swaran21/fitness-AI-backend/internal/identity"
	"github.com/swaran21/fitness-AI-backend/internal/logger"
	"github.com/swaran21/fitness-AI-backend/internal/users/models"
	"github.com/swaran21/fitness-AI-backend/internal/users/store"
)

// Status classifies a successful reconciliation outcome.
type Status string

const (
	// StatusExisting means the assertion matched a record and nothing changed.
	StatusExisting Status = "existing"
	// StatusUpdated means the assertion matched a record and fields were merged.
	StatusUpdated Status = "updated"
	// StatusCreated means a new record was provisioned.
	StatusCreated Status = "created"
)

// Result is the outcome of a successful reconciliation.
type Result struct {
	Status Status
	User   *models.User
}

// Engine runs the reconciliation algorithm against a record store.
//
// The engine holds no mutable state; the store's unique indexes are the
// only serialization point between concurrent reconciliations.
type Engine struct {
	store store.UserStore
}

// NewEngine creates an Engine backed by the given store.
func NewEngine(s store.UserStore) *Engine {
	return &Engine{store: s}
}

// Reconcile matches the assertion to at most one canonical record.
//
// credentialHash is the already-hashed credential for self-registration, or
// "" when the caller supplied none (JIT sync).
//
// Two requests racing to provision the same new identity can both reach the
// create step; the losing insert fails on the store's unique index and is
// retried exactly once from the top, where the now-committed row is found.
// A second constraint violation escalates to ErrReconciliationFailed.
//
// Identity collisions (the asserted email already bound to a different
// external id) surface as *models.ConflictError and are never auto-resolved.
func (e *Engine) Reconcile(ctx context.Context, assertion identity.Assertion, credentialHash string) (Result, error) {
	result, err := e.reconcileOnce(ctx, assertion, credentialHash)
	if err != nil && models.IsDuplicate(err) {
		logger.Warn("reconcile lost a provisioning race, retrying once",
			"external_id", assertion.ExternalID,
			"error", err,
		)

		result, err = e.reconcileOnce(ctx, assertion, credentialHash)
		if err != nil && models.IsDuplicate(err) {
			return Result{}, fmt.Errorf("%w: constraint violation persisted after retry: %v",
				models.ErrReconciliationFailed, err)
		}
	}
	return result, err
}

func (e *Engine) reconcileOnce(ctx context.Context, assertion identity.Assertion, credentialHash string) (Result, error) {
	if assertion.ExternalID == "" && assertion.Email == "" {
		return Result{}, fmt.Errorf("assertion carries neither external id nor email")
	}

	// Step 1: the external id is authoritative when it already resolves.
	if assertion.ExternalID != "" {
		user, err := e.store.FindByExternalID(ctx, assertion.ExternalID)
		switch {
		case err == nil:
			return e.mergeIntoLinked(ctx, user, assertion)
		case !errors.Is(err, models.ErrUserNotFound):
			return Result{}, err
		}
	}

	// Step 2: fall back to the email key to link a pre-provisioned account.
	if assertion.Email != "" {
		user, err := e.store.FindByEmail(ctx, assertion.Email)
		switch {
		case err == nil:
			return e.bindByEmail(ctx, user, assertion)
		case !errors.Is(err, models.ErrUserNotFound):
			return Result{}, err
		}
	}

	// Step 3: no match by either key; provision a new record.
	return e.create(ctx, assertion, credentialHash)
}

// mergeIntoLinked applies a field-level merge onto the record already linked
// to the asserted external id.
//
// An email change is only applied when the new address is unclaimed (or
// already belongs to this record). When another record owns it, the email
// change is skipped with a warning and the rest of the merge proceeds;
// unlike the email-primary path this is deliberately non-fatal.
func (e *Engine) mergeIntoLinked(ctx context.Context, user *models.User, assertion identity.Assertion) (Result, error) {
	changed := false

	if assertion.Email != "" && assertion.Email != user.Email {
		owner, err := e.store.FindByEmail(ctx, assertion.Email)
		switch {
		case err == nil && owner.ID != user.ID:
			logger.Warn("skipping email merge: address already owned by another record",
				"external_id", assertion.ExternalID,
				"email", assertion.Email,
				"owner_id", owner.ID,
			)
		case err == nil || errors.Is(err, models.ErrUserNotFound):
			user.Email = assertion.Email
			changed = true
		default:
			return Result{}, err
		}
	}

	if assertion.GivenName != "" && assertion.GivenName != user.GivenName {
		user.GivenName = assertion.GivenName
		changed = true
	}
	if assertion.FamilyName != "" && assertion.FamilyName != user.FamilyName {
		user.FamilyName = assertion.FamilyName
		changed = true
	}

	if !changed {
		return Result{Status: StatusExisting, User: user}, nil
	}

	user.ModifiedAt = time.Now().UTC()
	saved, err := e.store.Upsert(ctx, user)
	if err != nil {
		return Result{}, err
	}
	return Result{Status: StatusUpdated, User: saved}, nil
}

// bindByEmail resolves an assertion whose external id is unknown but whose
// email matched an existing record.
func (e *Engine) bindByEmail(ctx context.Context, user *models.User, assertion identity.Assertion) (Result, error) {
	if assertion.ExternalID == "" {
		// Plain re-registration of an existing local account: nothing to
		// bind and nothing to conflict with.
		return Result{Status: StatusExisting, User: user}, nil
	}

	switch {
	case user.ExternalID == nil:
		// Unlinked local account: bind the external identity and backfill
		// names only where currently blank.
		externalID := assertion.ExternalID
		user.ExternalID = &externalID
		if user.GivenName == "" && assertion.GivenName != "" {
			user.GivenName = assertion.GivenName
		}
		if user.FamilyName == "" && assertion.FamilyName != "" {
			user.FamilyName = assertion.FamilyName
		}
		user.ModifiedAt = time.Now().UTC()

		saved, err := e.store.Upsert(ctx, user)
		if err != nil {
			return Result{}, err
		}
		logger.Info("linked external identity to existing account",
			"user_id", saved.ID,
			"external_id", assertion.ExternalID,
		)
		return Result{Status: StatusUpdated, User: saved}, nil

	case *user.ExternalID == assertion.ExternalID:
		// Already consistent; idempotent re-sync.
		return Result{Status: StatusExisting, User: user}, nil

	default:
		// The same email claimed by two distinct external identities.
		return Result{}, &models.ConflictError{
			Email:               assertion.Email,
			BoundExternalID:     *user.ExternalID,
			RequestedExternalID: assertion.ExternalID,
		}
	}
}

func (e *Engine) create(ctx context.Context, assertion identity.Assertion, credentialHash string) (Result, error) {
	var externalID *string
	if assertion.ExternalID != "" {
		id := assertion.ExternalID
		externalID = &id
	}

	email := assertion.Email
	if email == "" {
		// Token carried no email claim; fall back to the deterministic
		// placeholder so the email uniqueness invariant stays meaningful.
		email = PlaceholderEmail(assertion.ExternalID)
	}

	user := &models.User{
		ExternalID:     externalID,
		Email:          email,
		GivenName:      assertion.GivenName,
		FamilyName:     assertion.FamilyName,
		CredentialHash: credentialHash,
		Role:           string(models.RoleUser),
	}

	saved, err := e.store.Upsert(ctx, user)
	if err != nil {
		return Result{}, err
	}

	logger.Info("provisioned new user record",
		"user_id", saved.ID,
		"external_id", assertion.ExternalID,
	)
	return Result{Status: StatusCreated, User: saved}, nil
}

// PlaceholderEmail derives the deterministic synthetic address used for
// records provisioned from an external id alone.
func PlaceholderEmail(externalID string) string {
	return externalID + "@users.sync.fitness.local"
}
