// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	uierrors "github.com/dalemusser/pmhub/internal/app/features/errors"
	"github.com/dalemusser/pmhub/internal/app/system/auditlog"
	"github.com/dalemusser/pmhub/internal/app/system/auth"
	"github.com/dalemusser/pmhub/internal/app/workspace"
	"go.uber.org/zap"
)

type Handler struct {
	C          *workspace.Container
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(c *workspace.Container, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{C: c, SessionMgr: sessionMgr, AuditLog: audit, Log: logger}
}

// HandleLogout expires the cookie. The workspace session key is cleared too when it
// still names this user.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	su, signedIn := auth.CurrentUser(r)

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("logout: session save failed", zap.Error(err))
	}

	if signedIn {
		if cur := h.C.Session(); cur != nil && cur.ID == su.ID {
			if err := h.C.Logout(r.Context()); err != nil {
				h.Log.Warn("logout: clearing workspace session failed", zap.Error(err))
			}
		}
		h.AuditLog.Logout(r, su.ID)
	}

	uierrors.WriteJSON(w, http.StatusOK, map[string]bool{"signedIn": false})
}
