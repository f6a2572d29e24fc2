package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a database migration.
type Migration struct {
	Version int
	Name    string
	Up      string
}

// migrations holds all database migrations in order.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up: `
			-- Users table
			CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'tester',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);

			-- Projects table
			CREATE TABLE IF NOT EXISTS projects (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT,
				created_by TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'in-progress',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				FOREIGN KEY (created_by) REFERENCES users(id)
			);

			-- Project-User junction table. The composite primary key is
			-- what gives assignment its set semantics.
			CREATE TABLE IF NOT EXISTS project_users (
				project_id TEXT NOT NULL,
				user_id TEXT NOT NULL,
				PRIMARY KEY (project_id, user_id),
				FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			);

			-- Issues table
			CREATE TABLE IF NOT EXISTS issues (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				description TEXT,
				priority TEXT NOT NULL,
				project_id TEXT NOT NULL,
				created_by TEXT NOT NULL,
				assigned_to TEXT,
				status TEXT NOT NULL DEFAULT 'open',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
				FOREIGN KEY (created_by) REFERENCES users(id),
				FOREIGN KEY (assigned_to) REFERENCES users(id)
			);

			-- Indexes
			CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
			CREATE INDEX IF NOT EXISTS idx_projects_creator ON projects(created_by);
			CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project_id);
			CREATE INDEX IF NOT EXISTS idx_issues_assignee ON issues(assigned_to);
		`,
	},
}

// runMigrations applies all pending migrations.
func runMigrations(db *sql.DB) error {
	// Create migrations table if not exists
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	// Apply pending migrations
	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}

		// Run migration in transaction
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction for migration %d: %w", m.Version, err)
		}

		_, err = tx.Exec(m.Up)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d (%s): %w", m.Version, m.Name, err)
		}

		_, err = tx.Exec(
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Name, time.Now(),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}
