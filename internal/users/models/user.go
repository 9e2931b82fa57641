// Package models defines the canonical user record and its domain errors.
package models

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserRole represents the role of a user in the system.
type UserRole string

const (
	// RoleUser is a regular user with limited permissions.
	RoleUser UserRole = "user"
	// RoleAdmin is an administrator with full permissions.
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is a valid UserRole.
func (r UserRole) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the canonical identity record.
//
// A record carries two independent identity keys: the external-provider
// subject id (ExternalID) and the email address. Each is unique when set.
// ExternalID is a pointer so that locally registered accounts that have not
// been linked to an external identity yet (ExternalID == nil) never collide
// on the unique index.
//
// CredentialHash is empty for JIT-provisioned records that never set a
// password. ModifiedAt is written only when a field actually changes; the
// reconciliation engine owns that decision.
type User struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	ExternalID     *string `gorm:"uniqueIndex;size:255" json:"externalId,omitempty"`
	Email          string  `gorm:"uniqueIndex;not null;size:255" json:"email"`
	GivenName      string  `gorm:"size:255" json:"firstName,omitempty"`
	FamilyName     string  `gorm:"size:255" json:"lastName,omitempty"`
	CredentialHash string  `json:"-"`
	Role           string  `gorm:"default:user;size:50" json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
	ModifiedAt     time.Time `json:"modifiedAt"`
}

// TableName returns the table name for User.
func (User) TableName() string {
	return "users"
}

// GetExternalID returns the linked external id, or "" when unlinked.
func (u *User) GetExternalID() string {
	if u.ExternalID == nil {
		return ""
	}
	return *u.ExternalID
}

// HasCredential reports whether the record carries a password hash.
func (u *User) HasCredential() bool {
	return u.CredentialHash != ""
}

// Validate checks if the user has valid configuration.
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if u.Role != "" && !UserRole(u.Role).IsValid() {
		return fmt.Errorf("invalid role %q", u.Role)
	}
	return nil
}

// Profile is the public-safe projection of a user record. It never carries
// the credential hash.
type Profile struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"externalId,omitempty"`
	Email      string    `json:"email"`
	GivenName  string    `json:"firstName,omitempty"`
	FamilyName string    `json:"lastName,omitempty"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// ToProfile maps the record to its public projection.
func (u *User) ToProfile() Profile {
	return Profile{
		ID:         u.ID,
		ExternalID: u.GetExternalID(),
		Email:      u.Email,
		GivenName:  u.GivenName,
		FamilyName: u.FamilyName,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
		ModifiedAt: u.ModifiedAt,
	}
}

// HashCredential hashes a plaintext credential with bcrypt.
func HashCredential(credential string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash credential: %w", err)
	}
	return string(hash), nil
}

// CheckCredential compares a plaintext credential against the stored hash.
func CheckCredential(hash, credential string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential)) == nil
}

// AllModels returns the models migrated by the user service store.
func AllModels() []any {
	return []any{&User{}}
}
