package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the subset of identity provider claims the API relies on.
// The subject is the opaque owner id every folder, item and file is scoped by.
type UserClaims struct {
	jwt.RegisteredClaims        // sub, iss, aud, exp, iat, ...
	Email                string `json:"email,omitempty"`
	Role                 string `json:"role,omitempty"` // "authenticated" or "anon" when the provider sets it
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *UserClaims) GetUserID() string {
	return c.Subject
}
