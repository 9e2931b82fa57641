// Package identity parses inbound bearer credentials into identity
// assertions. It performs no network or storage I/O; signature checking is
// delegated to a TokenVerifier collaborator.
package identity

// Assertion is the identity a request asserts via its bearer token.
//
// It is ephemeral: reconstructed per request and never persisted. ExternalID
// is the stable subject identifier issued by the external identity provider;
// all other fields are optional claims.
type Assertion struct {
	ExternalID string
	Email      string
	GivenName  string
	FamilyName string
}
