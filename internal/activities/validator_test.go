package activities

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/swaran21/fitness-AI-backend/internal/activities/models"
	"github.com/swaran21/fitness-AI-backend/pkg/userclient"
)

func TestValidateKnownUser(t *testing.T) {
	userService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(userclient.Profile{ID: "user-1", ExternalID: "ext-1"})
	}))
	defer userService.Close()

	v := NewJITValidator(userclient.New(userService.URL))
	if err := v.Validate(context.Background(), "ext-1"); err != nil {
		t.Fatalf("expected validation to pass, got %v", err)
	}
}

func TestValidateBlankUser(t *testing.T) {
	v := NewJITValidator(userclient.New("http://localhost:0"))
	err := v.Validate(context.Background(), "")
	if !errors.Is(err, models.ErrUserUnvalidated) {
		t.Fatalf("expected ErrUserUnvalidated, got %v", err)
	}
}

func TestValidateRejectedUser(t *testing.T) {
	userService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(userclient.APIError{Title: "Bad Request"})
	}))
	defer userService.Close()

	v := NewJITValidator(userclient.New(userService.URL))
	err := v.Validate(context.Background(), "ext-bad")
	if !errors.Is(err, models.ErrUserUnvalidated) {
		t.Fatalf("expected ErrUserUnvalidated, got %v", err)
	}
}

func TestValidateUnreachableUserService(t *testing.T) {
	v := NewJITValidator(userclient.New("http://127.0.0.1:1",
		userclient.WithTimeout(200*time.Millisecond)))

	err := v.Validate(context.Background(), "ext-1")
	if !errors.Is(err, models.ErrValidationUnavailable) {
		t.Fatalf("expected ErrValidationUnavailable, got %v", err)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	userService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer userService.Close()

	v := NewJITValidator(userclient.New(userService.URL))

	// Trip the breaker.
	for i := 0; i < 5; i++ {
		if err := v.Validate(context.Background(), "ext-1"); !errors.Is(err, models.ErrValidationUnavailable) {
			t.Fatalf("expected ErrValidationUnavailable, got %v", err)
		}
	}

	before := calls.Load()
	// Further calls fail fast without reaching the upstream.
	for i := 0; i < 3; i++ {
		if err := v.Validate(context.Background(), "ext-1"); !errors.Is(err, models.ErrValidationUnavailable) {
			t.Fatalf("expected ErrValidationUnavailable, got %v", err)
		}
	}
	if calls.Load() != before {
		t.Errorf("expected open breaker to short-circuit, upstream saw %d extra calls",
			calls.Load()-before)
	}
}
