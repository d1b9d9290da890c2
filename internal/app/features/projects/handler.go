// internal/app/features/projects/handler.go
package projects

import (
	uierrors "github.com/dalemusser/pmhub/internal/app/features/errors"
	"github.com/dalemusser/pmhub/internal/app/system/auditlog"
	"github.com/dalemusser/pmhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pmhub/internal/app/workspace"
	"github.com/dalemusser/pmhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves projects, their tasks, and time entries.
type Handler struct {
	C        *workspace.Container
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(c *workspace.Container, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{C: c, ErrLog: errLog, AuditLog: audit, Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Request bodies                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

type taskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	AssignedTo  string `json:"assignedTo"`
	Status      string `json:"status"`
	Started     bool   `json:"started"`
	Completed   bool   `json:"completed"`
}

func (in taskInput) task() models.Task {
	return models.Task{
		Title:       htmlsanitize.PlainText(in.Title),
		Description: htmlsanitize.PlainText(in.Description),
		DueDate:     in.DueDate,
		AssignedTo:  in.AssignedTo,
		Status:      in.Status,
		Started:     in.Started,
		Completed:   in.Completed,
	}
}

type createProjectRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	OwnerID     string      `json:"ownerId"`
	DueDate     string      `json:"dueDate"`
	Tasks       []taskInput `json:"tasks"`
}

func (in createProjectRequest) project() models.Project {
	p := models.Project{
		Name:        htmlsanitize.PlainText(in.Name),
		Description: htmlsanitize.PlainText(in.Description),
		OwnerID:     in.OwnerID,
		DueDate:     in.DueDate,
	}
	for _, t := range in.Tasks {
		tk := t.task()
		p.Tasks = append(p.Tasks, &tk)
	}
	return p
}

type logTimeRequest struct {
	Minutes int    `json:"minutes"`
	Note    string `json:"note"`
}

func sanitizeProjectPatch(p models.ProjectPatch) models.ProjectPatch {
	p.Name = htmlsanitize.PlainTextPtr(p.Name)
	p.Description = htmlsanitize.PlainTextPtr(p.Description)
	return p
}

func sanitizeTaskPatch(p models.TaskPatch) models.TaskPatch {
	p.Title = htmlsanitize.PlainTextPtr(p.Title)
	p.Description = htmlsanitize.PlainTextPtr(p.Description)
	return p
}

// statusOnly reports whether a task patch touches progress fields only. Members
// may change progress on their own tasks but nothing else.
func statusOnly(p models.TaskPatch) bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil && p.AssignedTo == nil
}
