// Package views derives read models from a workspace snapshot.
//
// Every selector is pure: it reads the *models.AppState it is given and never
// modifies it. Because untouched subtrees keep their identity across updates,
// results can be cached by state pointer (see Memo).
package views

import (
	"github.com/dalemusser/pmhub/internal/domain/models"
)

// AssignedTask is a task tagged with the project it lives in.
type AssignedTask struct {
	*models.Task
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
}

// TasksAssignedTo flattens every project's tasks and keeps those assigned to userID,
// in project then task order.
func TasksAssignedTo(s *models.AppState, userID string) []AssignedTask {
	out := []AssignedTask{}
	if userID == "" {
		return out
	}
	for _, p := range s.Projects {
		for _, t := range p.Tasks {
			if t.AssignedTo == userID {
				out = append(out, AssignedTask{Task: t, ProjectID: p.ID, ProjectName: p.Name})
			}
		}
	}
	return out
}

// SummaryCounts is the dashboard headline.
type SummaryCounts struct {
	Users         int            `json:"users"`
	Projects      int            `json:"projects"`
	Tasks         int            `json:"tasks"`
	Completed     int            `json:"completed"`
	MinutesByTask map[string]int `json:"minutesByTask"`
	TotalMinutes  int            `json:"totalMinutes"`
}

// Summary counts projects, tasks and completed tasks, and sums logged minutes per task.
func Summary(s *models.AppState) SummaryCounts {
	sum := SummaryCounts{
		Users:         len(s.Users),
		Projects:      len(s.Projects),
		MinutesByTask: make(map[string]int),
	}
	for _, p := range s.Projects {
		for _, t := range p.Tasks {
			sum.Tasks++
			if t.IsCompleted() {
				sum.Completed++
			}
			m := t.LoggedMinutes()
			sum.MinutesByTask[t.ID] = m
			sum.TotalMinutes += m
		}
	}
	return sum
}

// Workload is one user's share of assigned tasks.
type Workload struct {
	UserID    string         `json:"userId"`
	UserName  string         `json:"userName"`
	Role      string         `json:"role"`
	Tasks     []AssignedTask `json:"tasks"`
	Open      int            `json:"open"`
	Completed int            `json:"completed"`
	Minutes   int            `json:"minutes"`
}

// WorkloadByUser groups assigned tasks by user, in user-list order. Users without
// any assigned task are omitted, as are tasks assigned to ids not in the user list.
func WorkloadByUser(s *models.AppState) []Workload {
	byUser := make(map[string][]AssignedTask)
	for _, p := range s.Projects {
		for _, t := range p.Tasks {
			if t.AssignedTo == "" {
				continue
			}
			byUser[t.AssignedTo] = append(byUser[t.AssignedTo],
				AssignedTask{Task: t, ProjectID: p.ID, ProjectName: p.Name})
		}
	}

	out := []Workload{}
	for _, u := range s.Users {
		tasks := byUser[u.ID]
		if len(tasks) == 0 {
			continue
		}
		w := Workload{UserID: u.ID, UserName: u.Name, Role: models.NormalizeRole(u.Role), Tasks: tasks}
		for _, at := range tasks {
			if at.IsCompleted() {
				w.Completed++
			} else {
				w.Open++
			}
			w.Minutes += at.LoggedMinutes()
		}
		out = append(out, w)
	}
	return out
}
