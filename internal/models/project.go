package models

import (
	"time"
)

// ProjectStatus is the lifecycle state of a project.
// The only transition is StatusInProgress -> StatusCompleted; nothing
// moves a project back.
type ProjectStatus string

const (
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
)

// Project represents a unit of work container owned by an admin.
// Assigned users live in a junction table with set semantics; the
// AssignedUserIDs slice is filled in by read paths that need it.
type Project struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	CreatedBy       string        `json:"created_by"`
	Status          ProjectStatus `json:"status"`
	AssignedUserIDs []string      `json:"assigned_users,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// NewProject creates a Project owned by creatorID. Status is always
// in-progress at creation.
func NewProject(name, description, creatorID string) *Project {
	now := time.Now()
	return &Project{
		Name:        name,
		Description: description,
		CreatedBy:   creatorID,
		Status:      ProjectInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsCompleted returns true once the project has been marked completed.
func (p *Project) IsCompleted() bool {
	return p.Status == ProjectCompleted
}

// ProjectDetail is a project with its references populated: the creator
// and each assigned user replaced by summary fields.
type ProjectDetail struct {
	Project
	Creator       *UserSummary   `json:"creator,omitempty"`
	AssignedUsers []*UserSummary `json:"assigned_users_detail,omitempty"`
}
