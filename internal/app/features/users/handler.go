// internal/app/features/users/handler.go
package users

import (
	"net/http"

	uierrors "github.com/dalemusser/pmhub/internal/app/features/errors"
	"github.com/dalemusser/pmhub/internal/app/system/auditlog"
	"github.com/dalemusser/pmhub/internal/app/system/authz"
	"github.com/dalemusser/pmhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pmhub/internal/app/workspace"
	"github.com/dalemusser/pmhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves user management for admins.
type Handler struct {
	C        *workspace.Container
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(c *workspace.Container, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{C: c, ErrLog: errLog, AuditLog: audit, Log: logger}
}

type addUserRequest struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeList handles GET /api/users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	users := h.C.State().Users
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	uierrors.WriteJSON(w, http.StatusOK, out)
}

// HandleAdd handles POST /api/users.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := uierrors.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "add user: bad body", err, err.Error())
		return
	}

	u, err := h.C.AddUser(r.Context(), models.User{
		Name:     htmlsanitize.PlainText(req.Name),
		Role:     req.Role,
		Email:    htmlsanitize.PlainText(req.Email),
		Password: req.Password,
	})
	if err != nil {
		h.ErrLog.Workspace(w, r, "add user", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.Admin(r, auditlog.EventUserAdded, actorID, u.ID, map[string]string{"role": u.Role})
	uierrors.WriteJSON(w, http.StatusCreated, u.Public())
}

// HandleRemove handles DELETE /api/users/{id}. Admins cannot remove themselves.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, _, actorID, _ := authz.UserCtx(r)
	if id == actorID {
		uierrors.WriteError(w, http.StatusBadRequest, "cannot remove the signed-in user")
		return
	}

	if err := h.C.RemoveUser(r.Context(), id); err != nil {
		h.ErrLog.Workspace(w, r, "remove user", err)
		return
	}

	h.AuditLog.Admin(r, auditlog.EventUserRemoved, actorID, id, nil)
	w.WriteHeader(http.StatusNoContent)
}
