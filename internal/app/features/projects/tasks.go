package projects

import (
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/pmhub/internal/app/features/errors"
	"github.com/dalemusser/pmhub/internal/app/system/auditlog"
	"github.com/dalemusser/pmhub/internal/app/system/authz"
	"github.com/dalemusser/pmhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pmhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// HandleCreateTask handles POST /api/projects/{id}/tasks.
func (h *Handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	var in taskInput
	if err := uierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create task: bad body", err, err.Error())
		return
	}

	t, err := h.C.CreateTask(r.Context(), projectID, in.task())
	if err != nil {
		h.ErrLog.Workspace(w, r, "create task", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.Admin(r, auditlog.EventTaskCreated, actorID, t.ID, map[string]string{"project_id": projectID})
	uierrors.WriteJSON(w, http.StatusCreated, t)
}

// HandleUpdateTask handles PATCH /api/projects/{id}/tasks/{taskID}.
//
// Admins and PMs may patch any field. Members may only change progress
// (status/started/completed) on tasks assigned to them.
func (h *Handler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	projectID, taskID := chi.URLParam(r, "id"), chi.URLParam(r, "taskID")
	var patch models.TaskPatch
	if err := uierrors.DecodeJSON(w, r, &patch); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update task: bad body", err, err.Error())
		return
	}

	if !h.allowTaskOp(w, r, authz.OpUpdateTask, projectID, taskID) {
		return
	}
	if !authz.HasAnyRole(r, models.RoleAdmin, models.RolePM) && !statusOnly(patch) {
		uierrors.WriteError(w, http.StatusForbidden, "only task progress can be changed")
		return
	}

	t, err := h.C.UpdateTask(r.Context(), projectID, taskID, sanitizeTaskPatch(patch))
	if err != nil {
		h.ErrLog.Workspace(w, r, "update task", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	details := map[string]string{"project_id": projectID}
	if patch.Status != nil {
		details["status"] = *patch.Status
	}
	h.AuditLog.Admin(r, auditlog.EventTaskUpdated, actorID, taskID, details)
	uierrors.WriteJSON(w, http.StatusOK, t)
}

// HandleDeleteTask handles DELETE /api/projects/{id}/tasks/{taskID}.
func (h *Handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	projectID, taskID := chi.URLParam(r, "id"), chi.URLParam(r, "taskID")
	if err := h.C.DeleteTask(r.Context(), projectID, taskID); err != nil {
		h.ErrLog.Workspace(w, r, "delete task", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.Admin(r, auditlog.EventTaskDeleted, actorID, taskID, map[string]string{"project_id": projectID})
	w.WriteHeader(http.StatusNoContent)
}

// HandleLogTime handles POST /api/projects/{id}/tasks/{taskID}/time.
// Minutes must be a positive whole number.
func (h *Handler) HandleLogTime(w http.ResponseWriter, r *http.Request) {
	projectID, taskID := chi.URLParam(r, "id"), chi.URLParam(r, "taskID")
	var req logTimeRequest
	if err := uierrors.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "log time: bad body", err, "minutes must be a positive whole number")
		return
	}

	if !h.allowTaskOp(w, r, authz.OpLogTime, projectID, taskID) {
		return
	}

	t, err := h.C.LogTime(r.Context(), projectID, taskID, req.Minutes, htmlsanitize.PlainText(req.Note))
	if err != nil {
		h.ErrLog.Workspace(w, r, "log time", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.Admin(r, auditlog.EventTimeLogged, actorID, taskID, map[string]string{
		"project_id": projectID,
		"minutes":    strconv.Itoa(req.Minutes),
	})
	uierrors.WriteJSON(w, http.StatusCreated, t)
}

// allowTaskOp applies the role gate for operations members can reach. It writes
// the response and returns false when the caller may not proceed.
func (h *Handler) allowTaskOp(w http.ResponseWriter, r *http.Request, op authz.Op, projectID, taskID string) bool {
	if !authz.Can(r, op) {
		uierrors.WriteError(w, http.StatusForbidden, "forbidden")
		return false
	}
	if authz.HasAnyRole(r, models.RoleAdmin, models.RolePM) {
		return true
	}

	// members: own tasks only
	t := h.C.State().FindTask(projectID, taskID)
	if t == nil {
		// let the container report which id is missing
		return true
	}
	_, _, userID, _ := authz.UserCtx(r)
	if t.AssignedTo != userID {
		uierrors.WriteError(w, http.StatusForbidden, "task is not assigned to you")
		return false
	}
	return true
}
