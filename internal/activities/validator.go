// Package activities holds the activity service domain logic that is not
// storage or transport: user validation and recommendation dispatch.
package activities

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/swaran21/fitness-AI-backend/internal/activities/models"
	"github.com/swaran21/fitness-AI-backend/internal/logger"
	"github.com/swaran21/fitness-AI-backend/pkg/userclient"
)

// UserValidator confirms that an activity's user identity is known to the
// platform before the activity is accepted.
type UserValidator interface {
	Validate(ctx context.Context, userID string) error
}

// JITValidator validates users against the user service's ensure-exists
// endpoint, so an activity from a not-yet-synced identity provisions the
// record instead of being rejected.
//
// Calls run through a circuit breaker: once the user service has failed
// repeatedly the breaker opens and validation fails fast with
// ErrValidationUnavailable instead of stacking up timeouts.
type JITValidator struct {
	users   *userclient.Client
	breaker *gobreaker.CircuitBreaker
}

// NewJITValidator creates a validator over the given user service client.
func NewJITValidator(users *userclient.Client) *JITValidator {
	settings := gobreaker.Settings{
		Name:    "user-service",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &JITValidator{
		users:   users,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Validate implements UserValidator.
//
// A definitive rejection by the user service (4xx) maps to
// ErrUserUnvalidated and does not count as a breaker failure. Transport
// errors and 5xx responses map to ErrValidationUnavailable and do.
func (v *JITValidator) Validate(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: no user id on request", models.ErrUserUnvalidated)
	}

	var rejection error
	_, err := v.breaker.Execute(func() (any, error) {
		_, err := v.users.EnsureExists(ctx, userID)
		if apiErr := userclient.AsAPIError(err); apiErr != nil && apiErr.StatusCode < 500 {
			// Definitive answer from the user service; not a breaker failure.
			rejection = fmt.Errorf("%w: %v", models.ErrUserUnvalidated, apiErr)
			return nil, nil
		}
		return nil, err
	})

	switch {
	case rejection != nil:
		return rejection
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: circuit breaker open", models.ErrValidationUnavailable)
	default:
		return fmt.Errorf("%w: %v", models.ErrValidationUnavailable, err)
	}
}
