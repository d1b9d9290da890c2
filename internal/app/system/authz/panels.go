// internal/app/system/authz/panels.go
package authz

import "github.com/dalemusser/pmhub/internal/domain/models"

// Panel identifies a dashboard section.
type Panel string

const (
	PanelUserManagement Panel = "user-management"
	PanelProjectBoard   Panel = "project-board"
	PanelWorkload       Panel = "workload"
	PanelMyTasks        Panel = "my-tasks"
)

// VisiblePanels maps a role to the ordered panels it sees. Unknown roles see nothing.
func VisiblePanels(role string) []Panel {
	switch models.NormalizeRole(role) {
	case models.RoleAdmin:
		return []Panel{PanelUserManagement, PanelProjectBoard, PanelWorkload}
	case models.RolePM:
		return []Panel{PanelProjectBoard, PanelWorkload}
	case models.RoleUser, models.RoleEditor:
		return []Panel{PanelMyTasks}
	default:
		return []Panel{}
	}
}

// Op names a workspace mutation for permission checks.
type Op string

const (
	OpAddUser       Op = "add_user"
	OpRemoveUser    Op = "remove_user"
	OpCreateProject Op = "create_project"
	OpUpdateProject Op = "update_project"
	OpDeleteProject Op = "delete_project"
	OpCreateTask    Op = "create_task"
	OpUpdateTask    Op = "update_task"
	OpDeleteTask    Op = "delete_task"
	OpLogTime       Op = "log_time"
)

var (
	pmOps = map[Op]bool{
		OpCreateProject: true,
		OpUpdateProject: true,
		OpDeleteProject: true,
		OpCreateTask:    true,
		OpUpdateTask:    true,
		OpDeleteTask:    true,
		OpLogTime:       true,
	}
	// members work their own tasks: status changes and time entries
	memberOps = map[Op]bool{
		OpUpdateTask: true,
		OpLogTime:    true,
	}
)

// CanPerform reports whether role may perform op. Admins may do everything.
func CanPerform(role string, op Op) bool {
	switch models.NormalizeRole(role) {
	case models.RoleAdmin:
		return true
	case models.RolePM:
		return pmOps[op]
	case models.RoleUser, models.RoleEditor:
		return memberOps[op]
	default:
		return false
	}
}
