package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	// Pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/good-yellow-bee/bugboard/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	path string
	db   *sql.DB

	users    *sqliteUserRepo
	projects *sqliteProjectRepo
	issues   *sqliteIssueRepo
}

// NewSQLiteStorage creates a new SQLite storage.
func NewSQLiteStorage(path string) *SQLiteStorage {
	return &SQLiteStorage{path: path}
}

// Open initializes the database connection.
func (s *SQLiteStorage) Open() error {
	ctx := context.Background()

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0) // Keep connection alive

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	// Enable foreign keys and WAL mode
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	s.db = db

	// Initialize repositories
	s.users = &sqliteUserRepo{db: db}
	s.projects = &sqliteProjectRepo{db: db}
	s.issues = &sqliteIssueRepo{db: db}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying database connection for health checks.
func (s *SQLiteStorage) DB() *sql.DB {
	return s.db
}

// Migrate runs database migrations.
func (s *SQLiteStorage) Migrate() error {
	return runMigrations(s.db)
}

// EnsureAdminUser creates a bootstrap admin if no users exist.
// Credentials come from the caller (environment variables at startup);
// when either is empty the bootstrap is skipped.
func (s *SQLiteStorage) EnsureAdminUser(email, password string) error {
	ctx := context.Background()

	count, err := s.Users().Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	if email == "" || password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	now := time.Now()
	admin := &models.User{
		ID:           uuid.New().String(),
		Name:         "admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users().Create(ctx, admin); err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	return nil
}

// Users returns the user repository.
func (s *SQLiteStorage) Users() UserRepository {
	return s.users
}

// Projects returns the project repository.
func (s *SQLiteStorage) Projects() ProjectRepository {
	return s.projects
}

// Issues returns the issue repository.
func (s *SQLiteStorage) Issues() IssueRepository {
	return s.issues
}
