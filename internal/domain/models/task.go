// internal/domain/models/task.go
package models

// Task statuses. Transitions are free-form: any status may follow any other.
const (
	StatusStarted    = "Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// TaskStatuses lists the statuses offered to users, in display order.
var TaskStatuses = []string{StatusStarted, StatusInProgress, StatusCompleted}

// Task is a unit of work inside a project.
//
// Status is used by hub-style workspaces; Started/Completed are the checkbox flags
// of editor-style workspaces. Both are persisted so either style round-trips.
type Task struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	DueDate     string      `json:"dueDate,omitempty"`
	AssignedTo  string      `json:"assignedTo,omitempty"` // user id, "" = unassigned
	Status      string      `json:"status,omitempty"`
	Started     bool        `json:"started,omitempty"`
	Completed   bool        `json:"completed,omitempty"`
	TimeLog     []TimeEntry `json:"timeLog,omitempty"`
}

// IsCompleted reports completion by either the status or the flag.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted || t.Completed
}

// LoggedMinutes sums the task's time log.
func (t *Task) LoggedMinutes() int {
	total := 0
	for _, e := range t.TimeLog {
		total += e.Minutes
	}
	return total
}

// TimeEntry is one append-only time log record.
type TimeEntry struct {
	ID      string `json:"id"`
	Minutes int    `json:"minutes"`
	Note    string `json:"note,omitempty"`
}

// TaskPatch carries the fields to merge into a task. Nil fields are left as is.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	AssignedTo  *string `json:"assignedTo,omitempty"`
	Status      *string `json:"status,omitempty"`
	Started     *bool   `json:"started,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.AssignedTo == nil && p.Status == nil && p.Started == nil && p.Completed == nil
}

// Apply returns a copy of t with the patch merged in. The time log slice is shared.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Started != nil {
		t.Started = *p.Started
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// IsValidStatus reports whether status is one of TaskStatuses. Empty is allowed and
// means "leave the default".
func IsValidStatus(status string) bool {
	if status == "" {
		return true
	}
	for _, s := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}
