// internal/app/system/authz/roles.go
package authz

import (
	"net/http"

	"github.com/dalemusser/pmhub/internal/domain/models"
)

// HasAnyRole reports whether the signed-in user holds one of roles. Roles are
// compared after normalisation, so "PM" and " pm " both match a pm user.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == models.NormalizeRole(want) {
			return true
		}
	}
	return false
}
