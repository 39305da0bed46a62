package domain

import "time"

// Claims is the identity carried by a session token.
type Claims struct {
	UserID    string
	Username  string
	Role      string
	ExpiresAt time.Time
}

// IsAdmin reports whether the claims grant the admin role.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
