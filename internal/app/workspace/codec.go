package workspace

import (
	"encoding/json"
	"fmt"

	"github.com/dalemusser/pmhub/internal/domain/models"
)

// Encode serializes the whole tree. The output is what gets written under the data key.
func Encode(s *models.AppState) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(b), nil
}

// Decode parses text written by Encode.
func Decode(text string) (*models.AppState, error) {
	var s models.AppState
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if s.Users == nil {
		s.Users = []*models.User{}
	}
	if s.Projects == nil {
		s.Projects = []*models.Project{}
	}
	for i, u := range s.Users {
		if u == nil {
			return nil, fmt.Errorf("decode state: users[%d] is null", i)
		}
	}
	for i, p := range s.Projects {
		if p == nil {
			return nil, fmt.Errorf("decode state: projects[%d] is null", i)
		}
		if p.Tasks == nil {
			p.Tasks = []*models.Task{}
		}
		for j, t := range p.Tasks {
			if t == nil {
				return nil, fmt.Errorf("decode state: projects[%d].tasks[%d] is null", i, j)
			}
		}
	}
	return &s, nil
}

// EncodeUser serializes the session user.
func EncodeUser(u *models.User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	return string(b), nil
}

// DecodeUser parses text written by EncodeUser. A user without an id is rejected.
func DecodeUser(text string) (*models.User, error) {
	var u models.User
	if err := json.Unmarshal([]byte(text), &u); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if u.ID == "" {
		return nil, fmt.Errorf("decode session: user has no id")
	}
	return &u, nil
}
