// Package auth verifies bearer tokens and enforces role-based authorization.
package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/request"
)

// Claims is the JWT payload issued by the auth service.
type Claims struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	EmployeeID string `json:"employeeId,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts verified claims into the request-scoped identity.
func (c *Claims) Identity() *request.Identity {
	id := &request.Identity{
		UserID:     c.UserID,
		Email:      c.Email,
		Role:       c.Role,
		EmployeeID: c.EmployeeID,
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header, returning "" when absent or malformed.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
