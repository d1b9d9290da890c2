// internal/app/features/projects/routes.go
package projects

import (
	"github.com/dalemusser/pmhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/projects.
//
// Project and task structure is managed by admins and PMs. Task progress and
// time entries are open to every role that CanPerform allows.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	managers := sm.RequireRole("admin", "pm")

	r.Get("/", h.ServeList)
	r.With(managers).Post("/", h.HandleCreate)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.ServeProject)
		r.With(managers).Patch("/", h.HandleUpdate)
		r.With(managers).Delete("/", h.HandleDelete)

		r.With(managers).Post("/tasks", h.HandleCreateTask)
		r.Patch("/tasks/{taskID}", h.HandleUpdateTask)
		r.With(managers).Delete("/tasks/{taskID}", h.HandleDeleteTask)
		r.Post("/tasks/{taskID}/time", h.HandleLogTime)
	})
	return r
}
