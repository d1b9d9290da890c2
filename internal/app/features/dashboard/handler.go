// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	uierrors "github.com/dalemusser/pmhub/internal/app/features/errors"
	"github.com/dalemusser/pmhub/internal/app/system/authz"
	"github.com/dalemusser/pmhub/internal/app/views"
	"github.com/dalemusser/pmhub/internal/app/workspace"
	"github.com/dalemusser/pmhub/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	C    *workspace.Container
	Memo *views.Memo
	Log  *zap.Logger
}

func NewHandler(c *workspace.Container, logger *zap.Logger) *Handler {
	return &Handler{
		C:    c,
		Memo: &views.Memo{},
		Log:  logger,
	}
}

// dashboardData carries only the sections the caller's role can see.
type dashboardData struct {
	Role     string               `json:"role"`
	Panels   []authz.Panel        `json:"panels"`
	Summary  views.SummaryCounts  `json:"summary"`
	Users    []models.User        `json:"users,omitempty"`
	Projects []*models.Project    `json:"projects,omitempty"`
	Workload []views.Workload     `json:"workload,omitempty"`
	MyTasks  []views.AssignedTask `json:"myTasks,omitempty"`
}

// ServeDashboard handles GET /api/dashboard: the panels for the caller's role, each
// filled from one snapshot.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	role, _, userID, _ := authz.UserCtx(r)
	s := h.C.State()

	data := dashboardData{
		Role:    role,
		Panels:  authz.VisiblePanels(role),
		Summary: h.Memo.Summary(s),
	}
	for _, p := range data.Panels {
		switch p {
		case authz.PanelUserManagement:
			data.Users = publicUsers(s)
		case authz.PanelProjectBoard:
			data.Projects = s.Projects
		case authz.PanelWorkload:
			data.Workload = h.Memo.WorkloadByUser(s)
		case authz.PanelMyTasks:
			data.MyTasks = views.TasksAssignedTo(s, userID)
		}
	}
	uierrors.WriteJSON(w, http.StatusOK, data)
}

// ServeSummary handles GET /api/dashboard/summary.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	uierrors.WriteJSON(w, http.StatusOK, h.Memo.Summary(h.C.State()))
}

// ServeMyTasks handles GET /api/dashboard/my-tasks.
func (h *Handler) ServeMyTasks(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)
	uierrors.WriteJSON(w, http.StatusOK, views.TasksAssignedTo(h.C.State(), userID))
}

// ServeWorkload handles GET /api/dashboard/workload.
func (h *Handler) ServeWorkload(w http.ResponseWriter, r *http.Request) {
	uierrors.WriteJSON(w, http.StatusOK, h.Memo.WorkloadByUser(h.C.State()))
}

// stateView is the whole tree with passwords removed.
type stateView struct {
	Users    []models.User     `json:"users"`
	Projects []*models.Project `json:"projects"`
}

// ServeState handles GET /api/state.
func (h *Handler) ServeState(w http.ResponseWriter, r *http.Request) {
	s := h.C.State()
	uierrors.WriteJSON(w, http.StatusOK, stateView{Users: publicUsers(s), Projects: s.Projects})
}

func publicUsers(s *models.AppState) []models.User {
	out := make([]models.User, 0, len(s.Users))
	for _, u := range s.Users {
		out = append(out, u.Public())
	}
	return out
}
