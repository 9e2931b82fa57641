package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Common errors for token verification.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenVerifier validates a raw compact token and returns its claim set.
//
// The platform does not own the token issuer; deployments plug in whatever
// verification matches their issuer setup. Both implementations below parse
// with golang-jwt.
type TokenVerifier interface {
	Verify(raw string) (jwt.MapClaims, error)
}

// HMACVerifier verifies HS256-signed tokens against a shared secret.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier creates a verifier for tokens signed with the given secret.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token signature and registered claims.
func (v *HMACVerifier) Verify(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UnverifiedParser decodes token claims without checking the signature.
//
// Intended for deployments where the gateway sits behind infrastructure that
// already verified the token, so the filter only needs the claim payload.
// Never use it on an edge that receives tokens straight from clients.
type UnverifiedParser struct{}

// Verify decodes the claim set without signature or expiry enforcement.
func (UnverifiedParser) Verify(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
