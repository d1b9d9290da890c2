// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/pmhub/internal/app/system/auth"
	"github.com/dalemusser/pmhub/internal/domain/models"
)

// UserCtx returns the user's role (normalized), name, id, and a found flag.
// If no user is present in context it returns "visitor", "", "", false.
func UserCtx(r *http.Request) (role string, name string, userID string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || user.ID == "" {
		return "visitor", "", "", false
	}
	return models.NormalizeRole(user.Role), user.Name, user.ID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsPM reports whether the current request's user is a project manager.
func IsPM(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RolePM
}

// Can reports whether the current request's user may perform op.
func Can(r *http.Request, op Op) bool {
	role, _, _, ok := UserCtx(r)
	return ok && CanPerform(role, op)
}
