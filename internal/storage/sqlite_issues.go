package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/good-yellow-bee/bugboard/internal/models"
)

type sqliteIssueRepo struct {
	db *sql.DB
}

func (r *sqliteIssueRepo) Create(ctx context.Context, issue *models.Issue) error {
	query := `
		INSERT INTO issues (id, title, description, priority, project_id, created_by, assigned_to, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		issue.ID, issue.Title, issue.Description, issue.Priority,
		issue.ProjectID, issue.CreatedBy, nullString(issue.AssignedTo),
		issue.Status, issue.CreatedAt, issue.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

func (r *sqliteIssueRepo) GetByID(ctx context.Context, id string) (*models.Issue, error) {
	query := `
		SELECT id, title, description, priority, project_id, created_by, assigned_to, status, created_at, updated_at
		FROM issues WHERE id = ?
	`
	issue := &models.Issue{}
	var description, assignedTo sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&issue.ID, &issue.Title, &description, &issue.Priority,
		&issue.ProjectID, &issue.CreatedBy, &assignedTo,
		&issue.Status, &issue.CreatedAt, &issue.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		//nolint:nilnil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get issue by id: %w", err)
	}
	issue.Description = description.String
	issue.AssignedTo = assignedTo.String
	return issue, nil
}

// ListByProject returns a project's issues with the assignedTo reference
// populated in the same query.
func (r *sqliteIssueRepo) ListByProject(ctx context.Context, projectID string) ([]*models.IssueWithAssignee, error) {
	query := `
		SELECT i.id, i.title, i.description, i.priority, i.project_id, i.created_by,
		       i.assigned_to, i.status, i.created_at, i.updated_at,
		       u.id, u.name, u.email, u.role
		FROM issues i
		LEFT JOIN users u ON u.id = i.assigned_to
		WHERE i.project_id = ?
		ORDER BY i.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list issues by project: %w", err)
	}
	defer rows.Close()

	var issues []*models.IssueWithAssignee
	for rows.Next() {
		item := &models.IssueWithAssignee{}
		var description, assignedTo sql.NullString
		var uID, uName, uEmail, uRole sql.NullString
		err := rows.Scan(
			&item.ID, &item.Title, &description, &item.Priority,
			&item.ProjectID, &item.CreatedBy, &assignedTo,
			&item.Status, &item.CreatedAt, &item.UpdatedAt,
			&uID, &uName, &uEmail, &uRole,
		)
		if err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		item.Description = description.String
		item.AssignedTo = assignedTo.String
		if uID.Valid {
			item.Assignee = &models.UserSummary{
				ID:    uID.String,
				Name:  uName.String,
				Email: uEmail.String,
				Role:  models.Role(uRole.String),
			}
		}
		issues = append(issues, item)
	}
	return issues, rows.Err()
}

// ListByAssignee returns the issues assigned to a user with the owning
// project's name populated.
func (r *sqliteIssueRepo) ListByAssignee(ctx context.Context, userID string) ([]*models.IssueWithProject, error) {
	query := `
		SELECT i.id, i.title, i.description, i.priority, i.project_id, i.created_by,
		       i.assigned_to, i.status, i.created_at, i.updated_at,
		       p.name
		FROM issues i
		INNER JOIN projects p ON p.id = i.project_id
		WHERE i.assigned_to = ?
		ORDER BY i.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list issues by assignee: %w", err)
	}
	defer rows.Close()

	var issues []*models.IssueWithProject
	for rows.Next() {
		item := &models.IssueWithProject{}
		var description, assignedTo sql.NullString
		err := rows.Scan(
			&item.ID, &item.Title, &description, &item.Priority,
			&item.ProjectID, &item.CreatedBy, &assignedTo,
			&item.Status, &item.CreatedAt, &item.UpdatedAt,
			&item.ProjectName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		item.Description = description.String
		item.AssignedTo = assignedTo.String
		issues = append(issues, item)
	}
	return issues, rows.Err()
}

func (r *sqliteIssueRepo) Assign(ctx context.Context, issueID, userID string, updatedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE issues SET assigned_to = ?, updated_at = ? WHERE id = ?",
		userID, updatedAt, issueID,
	)
	if err != nil {
		return fmt.Errorf("assign issue: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("issue not found: %s", issueID)
	}
	return nil
}

func (r *sqliteIssueRepo) SetStatus(ctx context.Context, issueID string, status models.IssueStatus, updatedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE issues SET status = ?, updated_at = ? WHERE id = ?",
		status, updatedAt, issueID,
	)
	if err != nil {
		return fmt.Errorf("set issue status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("issue not found: %s", issueID)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
