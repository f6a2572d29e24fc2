package models

import (
	"time"
)

// IssuePriority classifies how urgent an issue is.
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
)

// IssueStatus is the resolution state of an issue. Issues start open
// (set explicitly at creation, never inferred from absence) and can only
// move open -> resolved.
type IssueStatus string

const (
	IssueOpen     IssueStatus = "open"
	IssueResolved IssueStatus = "resolved"
)

// Issue represents a reported defect or task scoped to one project.
type Issue struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Priority    IssuePriority `json:"priority"`
	ProjectID   string        `json:"project_id"`
	CreatedBy   string        `json:"created_by"`
	AssignedTo  string        `json:"assigned_to,omitempty"` // empty = unassigned
	Status      IssueStatus   `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewIssue creates an Issue against projectID reported by creatorID.
func NewIssue(title, description string, priority IssuePriority, projectID, creatorID string) *Issue {
	now := time.Now()
	return &Issue{
		Title:       title,
		Description: description,
		Priority:    priority,
		ProjectID:   projectID,
		CreatedBy:   creatorID,
		Status:      IssueOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsResolved returns true once the issue has been resolved.
func (i *Issue) IsResolved() bool {
	return i.Status == IssueResolved
}

// ParsePriority converts a string to an IssuePriority.
func ParsePriority(s string) (IssuePriority, bool) {
	switch IssuePriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return IssuePriority(s), true
	}
	return "", false
}

// ParseIssueStatus converts a string to an IssueStatus.
func ParseIssueStatus(s string) (IssueStatus, bool) {
	switch IssueStatus(s) {
	case IssueOpen, IssueResolved:
		return IssueStatus(s), true
	}
	return "", false
}

// IssueWithAssignee is an issue with its assignedTo reference populated.
type IssueWithAssignee struct {
	Issue
	Assignee *UserSummary `json:"assignee,omitempty"`
}

// IssueWithProject is an issue with the owning project's name populated.
type IssueWithProject struct {
	Issue
	ProjectName string `json:"project_name"`
}
