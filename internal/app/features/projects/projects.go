package projects

import (
	"net/http"

	uierrors "github.com/dalemusser/pmhub/internal/app/features/errors"
	"github.com/dalemusser/pmhub/internal/app/system/auditlog"
	"github.com/dalemusser/pmhub/internal/app/system/authz"
	"github.com/dalemusser/pmhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// ServeList handles GET /api/projects.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	uierrors.WriteJSON(w, http.StatusOK, h.C.State().Projects)
}

// ServeProject handles GET /api/projects/{id}.
func (h *Handler) ServeProject(w http.ResponseWriter, r *http.Request) {
	p := h.C.State().FindProject(chi.URLParam(r, "id"))
	if p == nil {
		uierrors.WriteError(w, http.StatusNotFound, "project not found")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, p)
}

// HandleCreate handles POST /api/projects. Tasks may be supplied with the project.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := uierrors.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create project: bad body", err, err.Error())
		return
	}

	p, err := h.C.CreateProject(r.Context(), req.project())
	if err != nil {
		h.ErrLog.Workspace(w, r, "create project", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.Admin(r, auditlog.EventProjectCreated, actorID, p.ID, map[string]string{"name": p.Name})
	uierrors.WriteJSON(w, http.StatusCreated, p)
}

// HandleUpdate handles PATCH /api/projects/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch models.ProjectPatch
	if err := uierrors.DecodeJSON(w, r, &patch); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update project: bad body", err, err.Error())
		return
	}

	p, err := h.C.UpdateProject(r.Context(), id, sanitizeProjectPatch(patch))
	if err != nil {
		h.ErrLog.Workspace(w, r, "update project", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.Admin(r, auditlog.EventProjectUpdated, actorID, id, nil)
	uierrors.WriteJSON(w, http.StatusOK, p)
}

// HandleDelete handles DELETE /api/projects/{id}. The project's tasks go with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.C.DeleteProject(r.Context(), id); err != nil {
		h.ErrLog.Workspace(w, r, "delete project", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.Admin(r, auditlog.EventProjectDeleted, actorID, id, nil)
	w.WriteHeader(http.StatusNoContent)
}
