// internal/domain/models/project.go
package models

// Project groups tasks. Tasks is always non-nil and kept in insertion order.
type Project struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	OwnerID     string  `json:"ownerId,omitempty"`
	DueDate     string  `json:"dueDate,omitempty"` // YYYY-MM-DD, as entered
	Tasks       []*Task `json:"tasks"`
}

// ProjectPatch carries the fields to merge into a project. Nil fields are left as is.
type ProjectPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	OwnerID     *string `json:"ownerId,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ProjectPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.OwnerID == nil && p.DueDate == nil
}

// Apply returns a copy of pr with the patch merged in. The task slice is shared.
func (p ProjectPatch) Apply(pr Project) Project {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.OwnerID != nil {
		pr.OwnerID = *p.OwnerID
	}
	if p.DueDate != nil {
		pr.DueDate = *p.DueDate
	}
	return pr
}
