package userclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/register", r.URL.Path)

		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice@example.com", req.Email)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(RegisterResult{
			Profile: Profile{ID: "user-123", Email: "alice@example.com", Role: "user"},
			Status:  "created",
		})
	}))
	defer server.Close()

	client := New(server.URL)
	result, err := client.Register(context.Background(), RegisterRequest{
		Email:      "alice@example.com",
		ExternalID: "ext-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-123", result.ID)
	assert.Equal(t, "created", result.Status)
}

func TestRegister_Conflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(APIError{
			Title:  "Conflict",
			Detail: "Email is already linked to a different external identity",
		})
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.Register(context.Background(), RegisterRequest{
		Email:      "shared@example.com",
		ExternalID: "ext-B",
	})

	require.Error(t, err)
	apiErr := AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.True(t, apiErr.IsConflict())
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestEnsureExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/ext-42/ensure-exists", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(Profile{
			ID:         "user-42",
			ExternalID: "ext-42",
			Email:      "ext-42@users.sync.fitness.local",
		})
	}))
	defer server.Close()

	client := New(server.URL)
	profile, err := client.EnsureExists(context.Background(), "ext-42")

	require.NoError(t, err)
	assert.Equal(t, "ext-42", profile.ExternalID)
}

func TestExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/users/ext-5/validate", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(true)
	}))
	defer server.Close()

	client := New(server.URL)
	exists, err := client.Exists(context.Background(), "ext-5")

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetProfile_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(APIError{
			Title:  "Not Found",
			Detail: "User not found",
		})
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.GetProfile(context.Background(), "missing")

	require.Error(t, err)
	apiErr := AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.EnsureExists(context.Background(), "ext-1")

	require.Error(t, err)
	apiErr := AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Detail, "upstream unavailable")
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := New(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Exists(ctx, "ext-1")
	require.Error(t, err)
}
