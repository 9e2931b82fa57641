package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-that-is-at-least-32-characters-long"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		wantToken   string
		wantSuccess bool
	}{
		{"empty header", "", "", false},
		{"bearer token", "Bearer abc123", "abc123", true},
		{"bearer lowercase", "bearer abc123", "abc123", true},
		{"BEARER uppercase", "BEARER abc123", "abc123", true},
		{"missing token", "Bearer", "", false},
		{"blank token", "Bearer   ", "", false},
		{"wrong scheme", "Basic abc123", "", false},
		{"no space", "Bearerabc123", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := bearerToken(tt.header)
			if ok != tt.wantSuccess {
				t.Errorf("bearerToken() success = %v, want %v", ok, tt.wantSuccess)
			}
			if token != tt.wantToken {
				t.Errorf("bearerToken() token = %q, want %q", token, tt.wantToken)
			}
		})
	}
}

func TestFromAuthorizationHeader(t *testing.T) {
	extractor := NewExtractor(NewHMACVerifier(testSecret))

	t.Run("full claim set", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"sub":         "ext-42",
			"email":       "jane@example.com",
			"given_name":  "Jane",
			"family_name": "Doe",
			"exp":         time.Now().Add(time.Hour).Unix(),
		})

		assertion, ok := extractor.FromAuthorizationHeader("Bearer " + token)
		if !ok {
			t.Fatal("expected assertion from valid token")
		}
		if assertion.ExternalID != "ext-42" {
			t.Errorf("expected external id ext-42, got %q", assertion.ExternalID)
		}
		if assertion.Email != "jane@example.com" {
			t.Errorf("expected email claim, got %q", assertion.Email)
		}
		if assertion.GivenName != "Jane" || assertion.FamilyName != "Doe" {
			t.Errorf("unexpected name claims: %q %q", assertion.GivenName, assertion.FamilyName)
		}
	})

	t.Run("subject only", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "ext-1"})

		assertion, ok := extractor.FromAuthorizationHeader("Bearer " + token)
		if !ok {
			t.Fatal("expected assertion from token with subject only")
		}
		if assertion.Email != "" || assertion.GivenName != "" {
			t.Error("expected optional claims to be empty")
		}
	})

	t.Run("missing subject", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"email": "nobody@example.com"})

		if _, ok := extractor.FromAuthorizationHeader("Bearer " + token); ok {
			t.Error("expected no assertion when subject claim is absent")
		}
	})

	t.Run("blank subject", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "   "})

		if _, ok := extractor.FromAuthorizationHeader("Bearer " + token); ok {
			t.Error("expected no assertion for blank subject claim")
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		if _, ok := extractor.FromAuthorizationHeader("Bearer not-a-jwt"); ok {
			t.Error("expected no assertion for malformed token")
		}
	})

	t.Run("wrong signature", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ext-9"})
		signed, err := token.SignedString([]byte("another-secret-that-is-also-32-chars-x"))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}

		if _, ok := extractor.FromAuthorizationHeader("Bearer " + signed); ok {
			t.Error("expected no assertion for token signed with wrong key")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"sub": "ext-7",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		if _, ok := extractor.FromAuthorizationHeader("Bearer " + token); ok {
			t.Error("expected no assertion for expired token")
		}
	})

	t.Run("no header", func(t *testing.T) {
		if _, ok := extractor.FromAuthorizationHeader(""); ok {
			t.Error("expected no assertion for missing header")
		}
	})
}

func TestUnverifiedParser(t *testing.T) {
	extractor := NewExtractor(UnverifiedParser{})

	t.Run("accepts foreign signature", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ext-55"})
		signed, err := token.SignedString([]byte("key-the-gateway-never-sees-1234567890"))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}

		assertion, ok := extractor.FromAuthorizationHeader("Bearer " + signed)
		if !ok {
			t.Fatal("expected assertion without signature check")
		}
		if assertion.ExternalID != "ext-55" {
			t.Errorf("expected external id ext-55, got %q", assertion.ExternalID)
		}
	})

	t.Run("still rejects garbage", func(t *testing.T) {
		if _, ok := extractor.FromAuthorizationHeader("Bearer ???"); ok {
			t.Error("expected no assertion for undecodable token")
		}
	})
}
