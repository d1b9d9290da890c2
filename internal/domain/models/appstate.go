// internal/domain/models/appstate.go
package models

// AppState is the whole persisted workspace: the single root aggregate.
//
// Published states are immutable. Updates build a new AppState that reuses every
// untouched *User, *Project and *Task by pointer.
type AppState struct {
	Users    []*User    `json:"users"`
	Projects []*Project `json:"projects"`
}

// FindUser returns the user with id, or nil.
func (s *AppState) FindUser(id string) *User {
	for _, u := range s.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// FindProject returns the project with id, or nil.
func (s *AppState) FindProject(id string) *Project {
	for _, p := range s.Projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindTask returns the task taskID inside project projectID, or nil.
func (s *AppState) FindTask(projectID, taskID string) *Task {
	p := s.FindProject(projectID)
	if p == nil {
		return nil
	}
	for _, t := range p.Tasks {
		if t.ID == taskID {
			return t
		}
	}
	return nil
}
