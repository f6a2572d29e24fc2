// Package storage provides database storage interfaces and implementations.
package storage

import (
	"context"
	"time"

	"github.com/good-yellow-bee/bugboard/internal/models"
)

// Storage is the main interface for database operations.
type Storage interface {
	// Open initializes the database connection.
	Open() error
	// Close closes the database connection.
	Close() error
	// Migrate runs database migrations.
	Migrate() error
	// EnsureAdminUser creates a bootstrap admin if no users exist.
	EnsureAdminUser(email, password string) error

	// Repository accessors
	Users() UserRepository
	Projects() ProjectRepository
	Issues() IssueRepository
}

// UserRepository defines operations for user management.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	// ListAvailable returns developer/tester accounts with no project
	// membership, derived by reverse lookup against project_users.
	ListAvailable(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// ProjectRepository defines operations for project management.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*models.Project, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Project, error)
	// AssignUsers adds each user id to the project's assigned set.
	// Duplicates are silently ignored (set-union) and the project's
	// updated_at is touched in the same transaction.
	AssignUsers(ctx context.Context, projectID string, userIDs []string) error
	GetAssignedUsers(ctx context.Context, projectID string) ([]*models.User, error)
	GetAssignedUserIDs(ctx context.Context, projectID string) ([]string, error)
	SetStatus(ctx context.Context, id string, status models.ProjectStatus, updatedAt time.Time) error
}

// IssueRepository defines operations for issue management.
type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	GetByID(ctx context.Context, id string) (*models.Issue, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.IssueWithAssignee, error)
	ListByAssignee(ctx context.Context, userID string) ([]*models.IssueWithProject, error)
	Assign(ctx context.Context, issueID, userID string, updatedAt time.Time) error
	SetStatus(ctx context.Context, issueID string, status models.IssueStatus, updatedAt time.Time) error
}
