// internal/domain/models/user.go
package models

import "strings"

// Roles. Stored values are compared case-insensitively, so the "Admin"/"PM"/"Editor"
// spelling of older workspaces resolves to the same role.
const (
	RoleAdmin  = "admin"
	RolePM     = "pm"
	RoleUser   = "user"
	RoleEditor = "editor"
)

// AllRoles lists the roles a user can be created with, in display order.
var AllRoles = []string{RoleAdmin, RolePM, RoleUser, RoleEditor}

// NormalizeRole lowercases and trims a role tag.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// IsValidRole reports whether role (in any case) is one of AllRoles.
func IsValidRole(role string) bool {
	r := NormalizeRole(role)
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// User is a workspace member.
//
// NOTE:
//   - Password holds either a bcrypt hash or, for the seeded demo accounts, plaintext.
//     See authutil.CheckPassword.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role string) bool {
	return u != nil && NormalizeRole(u.Role) == NormalizeRole(role)
}

// Public returns a copy without the password, for responses and session payloads
// that leave the process.
func (u User) Public() User {
	u.Password = ""
	return u
}
