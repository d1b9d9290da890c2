// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/pmhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboard feature under whatever mount point
// the top-level router chooses (e.g., "/api/dashboard").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeDashboard)
		pr.Get("/summary", h.ServeSummary)
		pr.Get("/my-tasks", h.ServeMyTasks)
		pr.With(sm.RequireRole("admin", "pm")).Get("/workload", h.ServeWorkload)
	})

	return r
}
