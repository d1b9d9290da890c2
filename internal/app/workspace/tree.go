// internal/app/workspace/tree.go
package workspace

// Pure tree updates.
//
// Every function here takes the current *models.AppState and returns the next one.
// Only the ancestor chain of the touched node is copied; every other *User, *Project
// and *Task is carried over by pointer. When the target id does not exist the input
// pointer itself is returned, which is how the Container detects "not found".
//
// None of these functions validate input. Required fields, minutes > 0 and the like
// are checked by the Container before it calls in here.

import (
	"github.com/dalemusser/pmhub/internal/app/system/ids"
	"github.com/dalemusser/pmhub/internal/domain/models"
)

// AddUser appends a user with a freshly generated id.
func AddUser(s *models.AppState, u models.User) *models.AppState {
	u.ID = ids.New(ids.User)
	users := make([]*models.User, 0, len(s.Users)+1)
	users = append(users, s.Users...)
	users = append(users, &u)
	return &models.AppState{Users: users, Projects: s.Projects}
}

// RemoveUser drops the user and clears every task assignment pointing at it.
// Projects without such tasks keep their identity.
func RemoveUser(s *models.AppState, userID string) *models.AppState {
	idx := -1
	for i, u := range s.Users {
		if u.ID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}

	users := make([]*models.User, 0, len(s.Users)-1)
	users = append(users, s.Users[:idx]...)
	users = append(users, s.Users[idx+1:]...)

	projects := s.Projects
	copied := false
	for i, p := range s.Projects {
		next := unassignTasks(p, userID)
		if next == p {
			continue
		}
		if !copied {
			projects = append([]*models.Project(nil), s.Projects...)
			copied = true
		}
		projects[i] = next
	}

	return &models.AppState{Users: users, Projects: projects}
}

// unassignTasks returns p unchanged when no task is assigned to userID.
func unassignTasks(p *models.Project, userID string) *models.Project {
	var tasks []*models.Task
	for i, t := range p.Tasks {
		if t.AssignedTo != userID {
			continue
		}
		if tasks == nil {
			tasks = append([]*models.Task(nil), p.Tasks...)
		}
		cleared := *t
		cleared.AssignedTo = ""
		tasks[i] = &cleared
	}
	if tasks == nil {
		return p
	}
	next := *p
	next.Tasks = tasks
	return &next
}

// CreateProject appends a project with a generated id. Tasks supplied with the
// project (the one-shot "project with task list" form) get ids and default status.
func CreateProject(s *models.AppState, p models.Project) *models.AppState {
	p.ID = ids.New(ids.Project)
	tasks := make([]*models.Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		if t == nil {
			continue
		}
		tasks = append(tasks, newTask(*t))
	}
	p.Tasks = tasks

	projects := make([]*models.Project, 0, len(s.Projects)+1)
	projects = append(projects, s.Projects...)
	projects = append(projects, &p)
	return &models.AppState{Users: s.Users, Projects: projects}
}

// UpdateProject merges patch into the project.
func UpdateProject(s *models.AppState, projectID string, patch models.ProjectPatch) *models.AppState {
	return mapProject(s, projectID, func(p *models.Project) *models.Project {
		next := patch.Apply(*p)
		return &next
	})
}

// DeleteProject removes the project and, with it, all of its tasks.
func DeleteProject(s *models.AppState, projectID string) *models.AppState {
	for i, p := range s.Projects {
		if p.ID != projectID {
			continue
		}
		projects := make([]*models.Project, 0, len(s.Projects)-1)
		projects = append(projects, s.Projects[:i]...)
		projects = append(projects, s.Projects[i+1:]...)
		return &models.AppState{Users: s.Users, Projects: projects}
	}
	return s
}

// CreateTask appends a task to the project. Status defaults to "Started".
func CreateTask(s *models.AppState, projectID string, t models.Task) *models.AppState {
	return mapProject(s, projectID, func(p *models.Project) *models.Project {
		tasks := make([]*models.Task, 0, len(p.Tasks)+1)
		tasks = append(tasks, p.Tasks...)
		tasks = append(tasks, newTask(t))
		next := *p
		next.Tasks = tasks
		return &next
	})
}

// UpdateTask merges patch into the task.
func UpdateTask(s *models.AppState, projectID, taskID string, patch models.TaskPatch) *models.AppState {
	return mapTask(s, projectID, taskID, func(t *models.Task) *models.Task {
		next := patch.Apply(*t)
		return &next
	})
}

// DeleteTask removes the task from its project.
func DeleteTask(s *models.AppState, projectID, taskID string) *models.AppState {
	return mapProject(s, projectID, func(p *models.Project) *models.Project {
		for i, t := range p.Tasks {
			if t.ID != taskID {
				continue
			}
			tasks := make([]*models.Task, 0, len(p.Tasks)-1)
			tasks = append(tasks, p.Tasks[:i]...)
			tasks = append(tasks, p.Tasks[i+1:]...)
			next := *p
			next.Tasks = tasks
			return &next
		}
		return p
	})
}

// LogTime appends a time entry to the task's log.
func LogTime(s *models.AppState, projectID, taskID string, minutes int, note string) *models.AppState {
	return mapTask(s, projectID, taskID, func(t *models.Task) *models.Task {
		log := make([]models.TimeEntry, 0, len(t.TimeLog)+1)
		log = append(log, t.TimeLog...)
		log = append(log, models.TimeEntry{ID: ids.New(ids.TimeEntry), Minutes: minutes, Note: note})
		next := *t
		next.TimeLog = log
		return &next
	})
}

func newTask(t models.Task) *models.Task {
	t.ID = ids.New(ids.Task)
	// An empty log is stored as absent, so keep it nil to survive a reload.
	if len(t.TimeLog) == 0 {
		t.TimeLog = nil
	}
	if t.Status == "" {
		t.Status = models.StatusStarted
	}
	return &t
}

// mapProject replaces the matching project with fn's result. If no project
// matches, or fn hands back the same pointer, s is returned untouched.
func mapProject(s *models.AppState, projectID string, fn func(*models.Project) *models.Project) *models.AppState {
	for i, p := range s.Projects {
		if p.ID != projectID {
			continue
		}
		next := fn(p)
		if next == p {
			return s
		}
		projects := append([]*models.Project(nil), s.Projects...)
		projects[i] = next
		return &models.AppState{Users: s.Users, Projects: projects}
	}
	return s
}

// mapTask replaces the matching task inside the matching project.
func mapTask(s *models.AppState, projectID, taskID string, fn func(*models.Task) *models.Task) *models.AppState {
	return mapProject(s, projectID, func(p *models.Project) *models.Project {
		for i, t := range p.Tasks {
			if t.ID != taskID {
				continue
			}
			tasks := append([]*models.Task(nil), p.Tasks...)
			tasks[i] = fn(t)
			next := *p
			next.Tasks = tasks
			return &next
		}
		return p
	})
}
