// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/pmhub/internal/app/features/errors"
	"github.com/dalemusser/pmhub/internal/app/system/auditlog"
	"github.com/dalemusser/pmhub/internal/app/system/auth"
	"github.com/dalemusser/pmhub/internal/app/system/authz"
	"github.com/dalemusser/pmhub/internal/app/system/ratelimit"
	"github.com/dalemusser/pmhub/internal/app/workspace"
	"github.com/dalemusser/pmhub/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	C          *workspace.Container
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	// Limiter throttles sign-in attempts. Nil disables throttling.
	Limiter *ratelimit.LoginLimiter
}

func NewHandler(c *workspace.Container, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		C:          c,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Log:        logger,
	}
}

// NewFetcher resolves cookie user ids against the live workspace, so role changes
// and removals apply on the next request.
func NewFetcher(c *workspace.Container) auth.UserFetcher {
	return func(userID string) (*auth.SessionUser, bool) {
		u := c.State().FindUser(userID)
		if u == nil {
			return nil, false
		}
		return &auth.SessionUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, true
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	SignedIn bool          `json:"signedIn"`
	User     *models.User  `json:"user,omitempty"`
	Panels   []authz.Panel `json:"panels"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/login                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := uierrors.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: bad body", err, "Expected {\"email\",\"password\"}.")
		return
	}
	email := strings.TrimSpace(req.Email)

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, email); !ok {
			h.AuditLog.LoginFailed(r, email, "rate limited")
			uierrors.WriteError(w, http.StatusTooManyRequests, reason)
			return
		}
	}

	u, err := h.C.Login(r.Context(), email, req.Password)
	if errors.Is(err, workspace.ErrInvalidCredentials) {
		h.AuditLog.LoginFailed(r, email, "invalid credentials")
		uierrors.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		h.ErrLog.Workspace(w, r, "login", err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "login: session save failed", err)
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.AuditLog.LoginSuccess(r, u.ID)
	h.Log.Info("user signed in", zap.String("user_id", u.ID), zap.String("role", u.Role))

	pub := u.Public()
	uierrors.WriteJSON(w, http.StatusOK, sessionResponse{
		SignedIn: true,
		User:     &pub,
		Panels:   authz.VisiblePanels(u.Role),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/session                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSession(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusOK, sessionResponse{Panels: []authz.Panel{}})
		return
	}
	u := models.User{ID: su.ID, Name: su.Name, Email: su.Email, Role: su.Role}
	uierrors.WriteJSON(w, http.StatusOK, sessionResponse{
		SignedIn: true,
		User:     &u,
		Panels:   authz.VisiblePanels(su.Role),
	})
}
