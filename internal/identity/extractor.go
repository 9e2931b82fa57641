package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/swaran21/fitness-AI-backend/internal/logger"
)

// Extractor turns an Authorization header into an identity assertion.
type Extractor struct {
	verifier TokenVerifier
}

// NewExtractor creates an Extractor backed by the given verifier.
func NewExtractor(verifier TokenVerifier) *Extractor {
	return &Extractor{verifier: verifier}
}

// FromAuthorizationHeader extracts an assertion from a raw Authorization
// header value.
//
// A missing header, a non-Bearer scheme, a malformed or unverifiable token,
// or a blank subject claim all yield (nil, false): at this layer an unusable
// credential is the routine unauthenticated case, not a fault. Failures are
// logged at debug level only.
func (e *Extractor) FromAuthorizationHeader(header string) (*Assertion, bool) {
	raw, ok := bearerToken(header)
	if !ok {
		return nil, false
	}

	claims, err := e.verifier.Verify(raw)
	if err != nil {
		logger.Debug("bearer token rejected", "error", err)
		return nil, false
	}

	externalID := strings.TrimSpace(stringClaim(claims, "sub"))
	if externalID == "" {
		logger.Debug("bearer token has no usable subject claim")
		return nil, false
	}

	return &Assertion{
		ExternalID: externalID,
		Email:      stringClaim(claims, "email"),
		GivenName:  stringClaim(claims, "given_name"),
		FamilyName: stringClaim(claims, "family_name"),
	}, true
}

// bearerToken extracts the token from a Bearer Authorization header value.
// Returns the token string and true if successful, or empty string and false if not.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	if strings.TrimSpace(parts[1]) == "" {
		return "", false
	}

	return parts[1], true
}

// stringClaim reads a string claim, tolerating absent or non-string values.
func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
