package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/swaran21/fitness-AI-backend/internal/identity"
	"github.com/swaran21/fitness-AI-backend/internal/logger"
	"github.com/swaran21/fitness-AI-backend/pkg/userclient"
)

// HeaderUserID is the identity header the gateway stamps on proxied
// requests. Downstream services trust it instead of re-parsing the token.
const HeaderUserID = "X-User-ID"

// UserSync reconciles the caller's identity against the user service as
// requests pass through the gateway.
//
// Sync is best effort: the user service being slow or down must never take
// the whole platform down with it, so failures are logged and the request
// is forwarded regardless. The identity header is stamped from the token
// alone and does not depend on the sync outcome.
type UserSync struct {
	extractor *identity.Extractor
	users     *userclient.Client
	timeout   time.Duration
}

// NewUserSync creates the sync filter. timeout bounds each registration
// call; zero means the default of 2 seconds.
func NewUserSync(extractor *identity.Extractor, users *userclient.Client, timeout time.Duration) *UserSync {
	if timeout == 0 {
		timeout = 2 * time.Second
	}
	return &UserSync{extractor: extractor, users: users, timeout: timeout}
}

// Middleware returns the chi middleware performing the sync.
func (s *UserSync) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assertion, ok := s.extractor.FromAuthorizationHeader(r.Header.Get("Authorization"))
		if !ok {
			// Unauthenticated traffic (health probes, signup) passes through
			// untouched.
			next.ServeHTTP(w, r)
			return
		}

		// A client-supplied identity header is never trusted.
		r.Header.Set(HeaderUserID, assertion.ExternalID)

		s.register(r.Context(), assertion)

		next.ServeHTTP(w, r)
	})
}

// register reconciles the assertion with a bounded timeout. Errors are
// logged and swallowed.
func (s *UserSync) register(ctx context.Context, assertion *identity.Assertion) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.users.Register(ctx, userclient.RegisterRequest{
		Email:      assertion.Email,
		ExternalID: assertion.ExternalID,
		GivenName:  assertion.GivenName,
		FamilyName: assertion.FamilyName,
	})
	if err != nil {
		logger.Warn("user sync failed, forwarding request anyway",
			"external_id", assertion.ExternalID,
			"error", err,
		)
		return
	}

	logger.Debug("user sync completed",
		"external_id", assertion.ExternalID,
		"status", result.Status,
	)
}
