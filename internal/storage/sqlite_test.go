package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/good-yellow-bee/bugboard/internal/models"
)

func setupTestDB(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()

	// Create temp directory for test database
	tmpDir, err := os.MkdirTemp("", "bugboard-test-*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")

	store := NewSQLiteStorage(dbPath)
	if err := store.Open(); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("open database: %v", err)
	}

	if err := store.Migrate(); err != nil {
		store.Close()
		os.RemoveAll(tmpDir)
		t.Fatalf("migrate database: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func makeUser(t *testing.T, store *SQLiteStorage, name, email string, role models.Role) *models.User {
	t.Helper()
	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: "hashed-password",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func makeProject(t *testing.T, store *SQLiteStorage, name, creatorID string) *models.Project {
	t.Helper()
	project := models.NewProject(name, "test project", creatorID)
	project.ID = uuid.New().String()
	if err := store.Projects().Create(context.Background(), project); err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return project
}

func makeIssue(t *testing.T, store *SQLiteStorage, title, projectID, creatorID string) *models.Issue {
	t.Helper()
	issue := models.NewIssue(title, "test issue", models.PriorityMedium, projectID, creatorID)
	issue.ID = uuid.New().String()
	if err := store.Issues().Create(context.Background(), issue); err != nil {
		t.Fatalf("create issue %s: %v", title, err)
	}
	return issue
}

func TestSQLiteStorage_Migrate(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Verify tables exist by querying them
	tables := []string{"users", "projects", "project_users", "issues", "schema_migrations"}
	for _, table := range tables {
		var count int
		err := store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
		if err != nil {
			t.Errorf("table %s should exist: %v", table, err)
		}
	}

	// Migrations must be idempotent
	if err := store.Migrate(); err != nil {
		t.Errorf("second migrate should be a no-op: %v", err)
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := makeUser(t, store, "Alice", "alice@example.com", models.RoleDeveloper)

	got, err := store.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got == nil {
		t.Fatal("user should be found by id")
	}
	if got.Email != "alice@example.com" || got.Role != models.RoleDeveloper {
		t.Errorf("got %+v, want email/role preserved", got)
	}

	got, err = store.Users().GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Errorf("get by email = %+v, want id %s", got, user.ID)
	}

	// Missing rows come back as nil without an error
	got, err = store.Users().GetByID(ctx, "missing")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if got != nil {
		t.Errorf("missing user = %+v, want nil", got)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	makeUser(t, store, "Alice", "alice@example.com", models.RoleDeveloper)

	dup := models.NewUser("Alice Again", "alice@example.com", models.RoleTester)
	dup.ID = uuid.New().String()
	dup.PasswordHash = "hash"
	if err := store.Users().Create(context.Background(), dup); err == nil {
		t.Error("duplicate email should be rejected")
	}
}

func TestUserRepository_ListAvailable(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	admin := makeUser(t, store, "Admin", "admin@example.com", models.RoleAdmin)
	dev := makeUser(t, store, "Dev", "dev@example.com", models.RoleDeveloper)
	qa := makeUser(t, store, "QA", "qa@example.com", models.RoleTester)

	// Everyone but the admin is available before any assignment
	available, err := store.Users().ListAvailable(ctx)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 2 {
		t.Fatalf("available = %d, want 2", len(available))
	}

	// Assigning the developer removes them from the available pool
	project := makeProject(t, store, "Payments", admin.ID)
	if err := store.Projects().AssignUsers(ctx, project.ID, []string{dev.ID}); err != nil {
		t.Fatalf("assign users: %v", err)
	}

	available, err = store.Users().ListAvailable(ctx)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 1 {
		t.Fatalf("available = %d, want 1", len(available))
	}
	if available[0].ID != qa.ID {
		t.Errorf("available user = %s, want %s", available[0].ID, qa.ID)
	}
}

func TestProjectRepository_AssignUsersSetUnion(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	admin := makeUser(t, store, "Admin", "admin@example.com", models.RoleAdmin)
	dev := makeUser(t, store, "Dev", "dev@example.com", models.RoleDeveloper)
	qa := makeUser(t, store, "QA", "qa@example.com", models.RoleTester)
	project := makeProject(t, store, "Payments", admin.ID)

	if err := store.Projects().AssignUsers(ctx, project.ID, []string{dev.ID}); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	// Re-assigning an existing member plus a new one must not duplicate
	if err := store.Projects().AssignUsers(ctx, project.ID, []string{dev.ID, qa.ID}); err != nil {
		t.Fatalf("second assign: %v", err)
	}

	ids, err := store.Projects().GetAssignedUserIDs(ctx, project.ID)
	if err != nil {
		t.Fatalf("get assigned ids: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("assigned ids = %v, want exactly 2 members", ids)
	}

	users, err := store.Projects().GetAssignedUsers(ctx, project.ID)
	if err != nil {
		t.Fatalf("get assigned users: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("assigned users = %d, want 2", len(users))
	}
}

func TestProjectRepository_ListForUser(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	admin := makeUser(t, store, "Admin", "admin@example.com", models.RoleAdmin)
	dev := makeUser(t, store, "Dev", "dev@example.com", models.RoleDeveloper)

	assigned := makeProject(t, store, "Payments", admin.ID)
	makeProject(t, store, "Search", admin.ID)

	if err := store.Projects().AssignUsers(ctx, assigned.ID, []string{dev.ID}); err != nil {
		t.Fatalf("assign users: %v", err)
	}

	projects, err := store.Projects().ListForUser(ctx, dev.ID)
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("projects = %d, want 1", len(projects))
	}
	if projects[0].ID != assigned.ID {
		t.Errorf("project = %s, want %s", projects[0].ID, assigned.ID)
	}

	byCreator, err := store.Projects().ListByCreator(ctx, admin.ID)
	if err != nil {
		t.Fatalf("list by creator: %v", err)
	}
	if len(byCreator) != 2 {
		t.Errorf("creator projects = %d, want 2", len(byCreator))
	}
}

func TestProjectRepository_SetStatus(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	admin := makeUser(t, store, "Admin", "admin@example.com", models.RoleAdmin)
	project := makeProject(t, store, "Payments", admin.ID)

	completedAt := time.Now().Add(time.Minute)
	if err := store.Projects().SetStatus(ctx, project.ID, models.ProjectCompleted, completedAt); err != nil {
		t.Fatalf("set status: %v", err)
	}

	got, err := store.Projects().GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if got.Status != models.ProjectCompleted {
		t.Errorf("status = %q, want %q", got.Status, models.ProjectCompleted)
	}

	if err := store.Projects().SetStatus(ctx, "missing", models.ProjectCompleted, completedAt); err == nil {
		t.Error("setting status on a missing project should fail")
	}
}

func TestIssueRepository_Lifecycle(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	admin := makeUser(t, store, "Admin", "admin@example.com", models.RoleAdmin)
	dev := makeUser(t, store, "Dev", "dev@example.com", models.RoleDeveloper)
	project := makeProject(t, store, "Payments", admin.ID)

	issue := makeIssue(t, store, "Login broken", project.ID, dev.ID)

	got, err := store.Issues().GetByID(ctx, issue.ID)
	if err != nil {
		t.Fatalf("get issue: %v", err)
	}
	if got == nil {
		t.Fatal("issue should be found")
	}
	if got.Status != models.IssueOpen {
		t.Errorf("status = %q, want %q", got.Status, models.IssueOpen)
	}
	if got.AssignedTo != "" {
		t.Errorf("new issue should be unassigned, got %q", got.AssignedTo)
	}

	// Assign and verify the populated projection
	if err := store.Issues().Assign(ctx, issue.ID, dev.ID, time.Now()); err != nil {
		t.Fatalf("assign issue: %v", err)
	}

	byProject, err := store.Issues().ListByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("list by project: %v", err)
	}
	if len(byProject) != 1 {
		t.Fatalf("issues = %d, want 1", len(byProject))
	}
	if byProject[0].Assignee == nil || byProject[0].Assignee.Name != "Dev" {
		t.Errorf("assignee = %+v, want populated summary for Dev", byProject[0].Assignee)
	}

	byAssignee, err := store.Issues().ListByAssignee(ctx, dev.ID)
	if err != nil {
		t.Fatalf("list by assignee: %v", err)
	}
	if len(byAssignee) != 1 {
		t.Fatalf("assigned issues = %d, want 1", len(byAssignee))
	}
	if byAssignee[0].ProjectName != "Payments" {
		t.Errorf("project name = %q, want 'Payments'", byAssignee[0].ProjectName)
	}

	// Resolve and verify updated_at moves forward
	resolvedAt := issue.CreatedAt.Add(time.Hour)
	if err := store.Issues().SetStatus(ctx, issue.ID, models.IssueResolved, resolvedAt); err != nil {
		t.Fatalf("set status: %v", err)
	}

	got, err = store.Issues().GetByID(ctx, issue.ID)
	if err != nil {
		t.Fatalf("get issue: %v", err)
	}
	if got.Status != models.IssueResolved {
		t.Errorf("status = %q, want %q", got.Status, models.IssueResolved)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("updated_at %v should be after created_at %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestIssueRepository_CreateRequiresProject(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	dev := makeUser(t, store, "Dev", "dev@example.com", models.RoleDeveloper)

	issue := models.NewIssue("Orphan", "", models.PriorityLow, "missing-project", dev.ID)
	issue.ID = uuid.New().String()
	if err := store.Issues().Create(context.Background(), issue); err == nil {
		t.Error("issue against a missing project should violate the FK")
	}
}

func TestEnsureAdminUser(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Empty credentials skip the bootstrap
	if err := store.EnsureAdminUser("", ""); err != nil {
		t.Fatalf("ensure admin with empty creds: %v", err)
	}
	count, _ := store.Users().Count(ctx)
	if count != 0 {
		t.Fatalf("users = %d, want 0", count)
	}

	if err := store.EnsureAdminUser("admin@example.com", "bootstrap1"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}

	admin, err := store.Users().GetByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if admin == nil || admin.Role != models.RoleAdmin {
		t.Fatalf("admin = %+v, want admin role", admin)
	}
	if admin.PasswordHash == "bootstrap1" {
		t.Error("bootstrap password must be stored hashed")
	}

	// Second call is a no-op once users exist
	if err := store.EnsureAdminUser("other@example.com", "bootstrap1"); err != nil {
		t.Fatalf("second ensure admin: %v", err)
	}
	count, _ = store.Users().Count(ctx)
	if count != 1 {
		t.Errorf("users = %d, want 1", count)
	}
}
