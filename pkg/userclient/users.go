package userclient

import (
	"context"
	"net/url"
	"time"
)

// Profile is the public projection of a user record.
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

// RegisterRequest is the request body for Register.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password,omitempty"`
	ExternalID string `json:"externalId,omitempty"`
	GivenName  string `json:"firstName,omitempty"`
	FamilyName string `json:"lastName,omitempty"`
}

// RegisterResult is the response body for Register. Status is one of
// "existing", "updated" or "created".
type RegisterResult struct {
	Profile
	Status string `json:"status"`
}

// Register registers or reconciles a user. Idempotent for a known identity;
// an identity collision surfaces as *APIError with IsConflict() == true.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	var result RegisterResult
	if err := c.post(ctx, "/api/users/register", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EnsureExists guarantees a record is linked to the external id, creating a
// placeholder when none is, and returns the record's profile.
func (c *Client) EnsureExists(ctx context.Context, externalID string) (*Profile, error) {
	var profile Profile
	path := "/api/users/" + url.PathEscape(externalID) + "/ensure-exists"
	if err := c.post(ctx, path, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Exists reports whether a record is linked to the external id. Calls the
// legacy probe endpoint; never provisions.
func (c *Client) Exists(ctx context.Context, externalID string) (bool, error) {
	var exists bool
	path := "/api/users/" + url.PathEscape(externalID) + "/validate"
	if err := c.get(ctx, path, &exists); err != nil {
		return false, err
	}
	return exists, nil
}

// GetProfile returns the profile of the record with the given internal id.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "/api/users/"+url.PathEscape(userID), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
