package claims

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the decoded, validated session token: proof of identity and
// role for the lifetime of one request
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	Role() string
	HasRole(role string) bool
	CanReview() bool
	Expires() time.Time
	IssuedAt() time.Time
}

// SessionClaims is the concrete implementation of AuthClaims
type SessionClaims struct {
	jwt.RegisteredClaims
	UID       string `json:"uid,omitempty"`
	UserRole  string `json:"role,omitempty"`
	UserEmail string `json:"email,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*SessionClaims)(nil)

// Subject returns the subject claim
func (c *SessionClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the account ID
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Email returns the account email carried in the token
func (c *SessionClaims) Email() string {
	return c.UserEmail
}

// Role returns the account role
func (c *SessionClaims) Role() string {
	return c.UserRole
}

// HasRole checks if the session carries a specific role
func (c *SessionClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// CanReview reports whether this session may adjudicate claims
func (c *SessionClaims) CanReview() bool {
	return Role(c.UserRole).CanReview()
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
