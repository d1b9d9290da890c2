package workspace

import "github.com/dalemusser/pmhub/internal/domain/models"

// Seed variants.
const (
	// VariantHub seeds three sign-in accounts (admin, pm, user) with demo passwords.
	VariantHub = "hub"
	// VariantWorkspace seeds three credential-less users (admin, pm, editor).
	VariantWorkspace = "workspace"
)

// Seed returns the default state for a variant. Unknown variants get the hub seed.
// The result is freshly allocated on every call.
func Seed(variant string) *models.AppState {
	var users []*models.User
	switch variant {
	case VariantWorkspace:
		users = []*models.User{
			{ID: "u-admin", Name: "Alice Admin", Role: models.RoleAdmin},
			{ID: "u-pm", Name: "Patrick PM", Role: models.RolePM},
			{ID: "u-editor", Name: "Eden Editor", Role: models.RoleEditor},
		}
	default:
		users = []*models.User{
			{ID: "u-admin", Name: "Avery Admin", Email: "admin@demo.com", Role: models.RoleAdmin, Password: "admin123"},
			{ID: "u-pm", Name: "Peyton PM", Email: "pm@demo.com", Role: models.RolePM, Password: "pm123"},
			{ID: "u-user", Name: "Uri User", Email: "user@demo.com", Role: models.RoleUser, Password: "user123"},
		}
	}
	return &models.AppState{Users: users, Projects: []*models.Project{}}
}
