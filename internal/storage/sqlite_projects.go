package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/good-yellow-bee/bugboard/internal/models"
)

type sqliteProjectRepo struct {
	db *sql.DB
}

func (r *sqliteProjectRepo) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, name, description, created_by, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		project.ID, project.Name, project.Description, project.CreatedBy,
		project.Status, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *sqliteProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT id, name, description, created_by, status, created_at, updated_at
		FROM projects WHERE id = ?
	`
	project := &models.Project{}
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID, &project.Name, &description, &project.CreatedBy,
		&project.Status, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		//nolint:nilnil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project by id: %w", err)
	}
	project.Description = description.String
	return project, nil
}

func (r *sqliteProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	query := `
		SELECT id, name, description, created_by, status, created_at, updated_at
		FROM projects ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	return r.scanProjects(rows)
}

func (r *sqliteProjectRepo) ListByCreator(ctx context.Context, creatorID string) ([]*models.Project, error) {
	query := `
		SELECT id, name, description, created_by, status, created_at, updated_at
		FROM projects WHERE created_by = ? ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list projects by creator: %w", err)
	}
	defer rows.Close()

	return r.scanProjects(rows)
}

func (r *sqliteProjectRepo) ListForUser(ctx context.Context, userID string) ([]*models.Project, error) {
	query := `
		SELECT p.id, p.name, p.description, p.created_by, p.status, p.created_at, p.updated_at
		FROM projects p
		INNER JOIN project_users pu ON pu.project_id = p.id
		WHERE pu.user_id = ?
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects for user: %w", err)
	}
	defer rows.Close()

	return r.scanProjects(rows)
}

// AssignUsers adds each user id to the project's assigned set and touches
// the project's updated_at. INSERT OR IGNORE against the composite primary
// key makes the operation idempotent and commutative, so concurrent
// assignments of overlapping sets are safe.
func (r *sqliteProjectRepo) AssignUsers(ctx context.Context, projectID string, userIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assign users: %w", err)
	}

	for _, userID := range userIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO project_users (project_id, user_id) VALUES (?, ?)",
			projectID, userID,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("add user %s to project: %w", userID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE projects SET updated_at = ? WHERE id = ?",
		time.Now(), projectID,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("touch project: %w", err)
	}

	return tx.Commit()
}

func (r *sqliteProjectRepo) GetAssignedUsers(ctx context.Context, projectID string) ([]*models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.created_at, u.updated_at
		FROM users u
		INNER JOIN project_users pu ON pu.user_id = u.id
		WHERE pu.project_id = ?
		ORDER BY u.name
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("get assigned users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (r *sqliteProjectRepo) GetAssignedUserIDs(ctx context.Context, projectID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id FROM project_users WHERE project_id = ?", projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("get assigned user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan assigned user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *sqliteProjectRepo) SetStatus(ctx context.Context, id string, status models.ProjectStatus, updatedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE projects SET status = ?, updated_at = ? WHERE id = ?",
		status, updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("set project status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project not found: %s", id)
	}
	return nil
}

func (r *sqliteProjectRepo) scanProjects(rows *sql.Rows) ([]*models.Project, error) {
	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		var description sql.NullString
		err := rows.Scan(
			&project.ID, &project.Name, &description, &project.CreatedBy,
			&project.Status, &project.CreatedAt, &project.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		project.Description = description.String
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
