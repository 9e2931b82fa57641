package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/swaran21/fitness-AI-backend/internal/activities/models"
	"github.com/swaran21/fitness-AI-backend/internal/activities/store"
)

// fakeValidator approves or rejects every user.
type fakeValidator struct {
	err error
}

func (f *fakeValidator) Validate(ctx context.Context, userID string) error {
	return f.err
}

// captureNotifier records dispatched activities.
type captureNotifier struct {
	mu         sync.Mutex
	activities []*models.Activity
}

func (c *captureNotifier) ActivityRecorded(a *models.Activity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activities = append(c.activities, a)
}

func (c *captureNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.activities)
}

func createTestRouter(t *testing.T, users *fakeValidator, notifier *captureNotifier) http.Handler {
	t.Helper()
	s, err := store.New(&store.Config{Type: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return NewRouter(s, users, notifier, nil)
}

func doJSON(t *testing.T, router http.Handler, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateActivity(t *testing.T) {
	notifier := &captureNotifier{}
	router := createTestRouter(t, &fakeValidator{}, notifier)

	rec := doJSON(t, router, http.MethodPost, "/api/activities", "ext-1", CreateActivityRequest{
		Type:            models.TypeRunning,
		DurationMinutes: 45,
		CaloriesBurned:  400,
		AdditionalMetrics: models.Metrics{
			"distance_km": 8.5,
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var activity models.Activity
	if err := json.NewDecoder(rec.Body).Decode(&activity); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if activity.UserID != "ext-1" {
		t.Errorf("expected caller's user id, got %q", activity.UserID)
	}
	if notifier.count() != 1 {
		t.Errorf("expected one recommendation dispatch, got %d", notifier.count())
	}
}

func TestCreateActivityRequiresIdentity(t *testing.T) {
	router := createTestRouter(t, &fakeValidator{}, &captureNotifier{})

	rec := doJSON(t, router, http.MethodPost, "/api/activities", "", CreateActivityRequest{
		Type: models.TypeRunning,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateActivityUnvalidatedUser(t *testing.T) {
	notifier := &captureNotifier{}
	router := createTestRouter(t, &fakeValidator{err: models.ErrUserUnvalidated}, notifier)

	rec := doJSON(t, router, http.MethodPost, "/api/activities", "ext-ghost", CreateActivityRequest{
		Type: models.TypeRunning,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if notifier.count() != 0 {
		t.Error("rejected activity must not be dispatched")
	}
}

func TestCreateActivityValidationUnavailable(t *testing.T) {
	router := createTestRouter(t, &fakeValidator{err: models.ErrValidationUnavailable}, &captureNotifier{})

	rec := doJSON(t, router, http.MethodPost, "/api/activities", "ext-1", CreateActivityRequest{
		Type: models.TypeRunning,
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestCreateActivityInvalidPayload(t *testing.T) {
	router := createTestRouter(t, &fakeValidator{}, &captureNotifier{})

	rec := doJSON(t, router, http.MethodPost, "/api/activities", "ext-1", CreateActivityRequest{
		Type: "JUMPING",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/activities", "ext-1", map[string]any{
		"type":     models.TypeRunning,
		"duration": -10,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative duration, got %d", rec.Code)
	}
}

func TestListAndGetActivities(t *testing.T) {
	router := createTestRouter(t, &fakeValidator{}, &captureNotifier{})

	created := doJSON(t, router, http.MethodPost, "/api/activities", "ext-1", CreateActivityRequest{
		Type:            models.TypeCycling,
		DurationMinutes: 60,
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", created.Code)
	}
	var activity models.Activity
	if err := json.NewDecoder(created.Body).Decode(&activity); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/activities", "ext-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []models.Activity
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one activity, got %d", len(list))
	}

	rec = doJSON(t, router, http.MethodGet, "/api/activities/"+activity.ID, "ext-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/activities/unknown-id", "ext-1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteActivity(t *testing.T) {
	router := createTestRouter(t, &fakeValidator{}, &captureNotifier{})

	created := doJSON(t, router, http.MethodPost, "/api/activities", "ext-1", CreateActivityRequest{
		Type: models.TypeYoga,
	})
	var activity models.Activity
	if err := json.NewDecoder(created.Body).Decode(&activity); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// Another user cannot delete it.
	rec := doJSON(t, router, http.MethodDelete, "/api/activities/"+activity.ID, "ext-2", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign delete, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/activities/"+activity.ID, "ext-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
