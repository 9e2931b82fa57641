package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/swaran21/fitness-AI-backend/internal/identity"
	"github.com/swaran21/fitness-AI-backend/pkg/userclient"
)

const testSecret = "gateway-test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func newTestSync(t *testing.T, userServiceURL string, timeout time.Duration) *UserSync {
	t.Helper()
	extractor := identity.NewExtractor(identity.NewHMACVerifier(testSecret))
	users := userclient.New(userServiceURL, userclient.WithTimeout(timeout))
	return NewUserSync(extractor, users, timeout)
}

// echoHandler records the identity header the middleware forwarded.
func echoHandler(header *atomic.Value) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header.Store(r.Header.Get(HeaderUserID))
		w.WriteHeader(http.StatusOK)
	})
}

func TestSyncStampsIdentityHeader(t *testing.T) {
	var registered atomic.Int32
	userService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		registered.Add(1)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(userclient.RegisterResult{Status: "created"})
	}))
	defer userService.Close()

	var forwarded atomic.Value
	filter := newTestSync(t, userService.URL, time.Second)
	handler := filter.Middleware(echoHandler(&forwarded))

	req := httptest.NewRequest(http.MethodGet, "/api/activities", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{
		"sub":   "ext-1",
		"email": "alice@example.com",
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := forwarded.Load(); got != "ext-1" {
		t.Errorf("expected identity header ext-1, got %v", got)
	}
	if registered.Load() != 1 {
		t.Errorf("expected one registration call, got %d", registered.Load())
	}
}

func TestSyncOverridesClientSuppliedHeader(t *testing.T) {
	userService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(userclient.RegisterResult{Status: "existing"})
	}))
	defer userService.Close()

	var forwarded atomic.Value
	filter := newTestSync(t, userService.URL, time.Second)
	handler := filter.Middleware(echoHandler(&forwarded))

	req := httptest.NewRequest(http.MethodGet, "/api/activities", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"sub": "ext-real"}))
	req.Header.Set(HeaderUserID, "ext-spoofed")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := forwarded.Load(); got != "ext-real" {
		t.Errorf("client-supplied identity header must be replaced, got %v", got)
	}
}

func TestSyncPassesThroughWithoutToken(t *testing.T) {
	var registered atomic.Int32
	userService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		registered.Add(1)
	}))
	defer userService.Close()

	var forwarded atomic.Value
	filter := newTestSync(t, userService.URL, time.Second)
	handler := filter.Middleware(echoHandler(&forwarded))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := forwarded.Load(); got != "" {
		t.Errorf("expected no identity header, got %v", got)
	}
	if registered.Load() != 0 {
		t.Errorf("expected no registration call, got %d", registered.Load())
	}
}

func TestSyncForwardsDespiteSlowUserService(t *testing.T) {
	userService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Slower than the sync timeout.
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer userService.Close()

	var forwarded atomic.Value
	filter := newTestSync(t, userService.URL, 50*time.Millisecond)
	handler := filter.Middleware(echoHandler(&forwarded))

	req := httptest.NewRequest(http.MethodGet, "/api/activities", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"sub": "ext-slow"}))
	rec := httptest.NewRecorder()

	start := time.Now()
	handler.ServeHTTP(rec, req)
	elapsed := time.Since(start)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite sync timeout, got %d", rec.Code)
	}
	if got := forwarded.Load(); got != "ext-slow" {
		t.Errorf("identity header must be stamped regardless of sync outcome, got %v", got)
	}
	if elapsed > time.Second {
		t.Errorf("request must not wait out the slow upstream, took %v", elapsed)
	}
}

func TestSyncForwardsDespiteUserServiceError(t *testing.T) {
	userService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer userService.Close()

	var forwarded atomic.Value
	filter := newTestSync(t, userService.URL, time.Second)
	handler := filter.Middleware(echoHandler(&forwarded))

	req := httptest.NewRequest(http.MethodGet, "/api/activities", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"sub": "ext-1"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite sync failure, got %d", rec.Code)
	}
	if got := forwarded.Load(); got != "ext-1" {
		t.Errorf("expected identity header despite sync failure, got %v", got)
	}
}
