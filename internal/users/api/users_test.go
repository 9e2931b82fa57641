package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/swaran21/fitness-AI-backend/internal/users/provision"
	"github.com/swaran21/fitness-AI-backend/internal/users/store"
	"github.com/swaran21/fitness-AI-backend/internal/web"
)

func createTestRouter(t *testing.T) http.Handler {
	t.Helper()
	s, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return NewRouter(provision.NewCoordinator(s), s, nil)
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeRegisterResponse(t *testing.T, rec *httptest.ResponseRecorder) RegisterResponse {
	t.Helper()
	var resp RegisterResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestRegisterEndpoint(t *testing.T) {
	router := createTestRouter(t)

	t.Run("creates a new user", func(t *testing.T) {
		rec := postJSON(t, router, "/api/users/register", provision.RegisterRequest{
			Email:     "alice@example.com",
			Password:  "secret-pass",
			GivenName: "Alice",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		resp := decodeRegisterResponse(t, rec)
		if resp.ID == "" {
			t.Error("expected generated user id")
		}
		if strings.Contains(rec.Body.String(), "secret-pass") {
			t.Error("response must not leak the password")
		}
	})

	t.Run("re-registration returns 200 existing", func(t *testing.T) {
		rec := postJSON(t, router, "/api/users/register", provision.RegisterRequest{
			Email:    "alice@example.com",
			Password: "secret-pass",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if resp := decodeRegisterResponse(t, rec); resp.Status != "existing" {
			t.Errorf("expected existing status, got %q", resp.Status)
		}
	})

	t.Run("invalid email returns 400", func(t *testing.T) {
		rec := postJSON(t, router, "/api/users/register", provision.RegisterRequest{
			Email: "not-an-email",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != web.ContentTypeProblemJSON {
			t.Errorf("expected problem+json content type, got %q", ct)
		}
	})

	t.Run("short password returns 400", func(t *testing.T) {
		rec := postJSON(t, router, "/api/users/register", provision.RegisterRequest{
			Email:    "short@example.com",
			Password: "abc",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("identity conflict returns 409", func(t *testing.T) {
		rec := postJSON(t, router, "/api/users/register", provision.RegisterRequest{
			Email:      "shared@example.com",
			ExternalID: "ext-A",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = postJSON(t, router, "/api/users/register", provision.RegisterRequest{
			Email:      "shared@example.com",
			ExternalID: "ext-B",
		})
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestEnsureExistsEndpoint(t *testing.T) {
	router := createTestRouter(t)

	rec := postJSON(t, router, "/api/users/ext-77/ensure-exists", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var profile map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if profile["externalId"] != "ext-77" {
		t.Errorf("expected linked external id, got %v", profile["externalId"])
	}

	// Second call resolves to the same record.
	again := postJSON(t, router, "/api/users/ext-77/ensure-exists", nil)
	if again.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", again.Code)
	}
	var second map[string]any
	if err := json.NewDecoder(again.Body).Decode(&second); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if second["id"] != profile["id"] {
		t.Error("repeated ensure-exists must resolve to the same record")
	}
}

func TestValidateEndpoint(t *testing.T) {
	router := createTestRouter(t)

	rec := get(t, router, "/api/users/ext-5/validate")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "false" {
		t.Errorf("expected bare false, got %q", body)
	}

	if rec := postJSON(t, router, "/api/users/ext-5/ensure-exists", nil); rec.Code != http.StatusOK {
		t.Fatalf("failed to provision: %d", rec.Code)
	}

	rec = get(t, router, "/api/users/ext-5/validate")
	if body := strings.TrimSpace(rec.Body.String()); body != "true" {
		t.Errorf("expected bare true, got %q", body)
	}
}

func TestGetProfileEndpoint(t *testing.T) {
	router := createTestRouter(t)

	created := postJSON(t, router, "/api/users/register", provision.RegisterRequest{
		Email:     "carol@example.com",
		GivenName: "Carol",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", created.Code)
	}
	resp := decodeRegisterResponse(t, created)

	rec := get(t, router, "/api/users/"+resp.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var profile map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if profile["email"] != "carol@example.com" {
		t.Errorf("unexpected email %v", profile["email"])
	}

	if rec := get(t, router, "/api/users/does-not-exist"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := createTestRouter(t)

	if rec := get(t, router, "/health"); rec.Code != http.StatusOK {
		t.Errorf("expected 200 from liveness, got %d", rec.Code)
	}
	if rec := get(t, router, "/health/ready"); rec.Code != http.StatusOK {
		t.Errorf("expected 200 from readiness, got %d", rec.Code)
	}
}
