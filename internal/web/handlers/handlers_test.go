package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/good-yellow-bee/bugboard/internal/models"
	"github.com/good-yellow-bee/bugboard/internal/storage"
	"github.com/good-yellow-bee/bugboard/internal/web/session"
)

// Mock repositories
type mockUserRepository struct {
	users []*models.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.users = append(m.users, user)
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	return m.users, nil
}

func (m *mockUserRepository) ListAvailable(ctx context.Context) ([]*models.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

type mockProjectRepository struct {
	projects []*models.Project
}

func (m *mockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	m.projects = append(m.projects, project)
	return nil
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	for _, p := range m.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	return m.projects, nil
}

func (m *mockProjectRepository) ListByCreator(ctx context.Context, creatorID string) ([]*models.Project, error) {
	var out []*models.Project
	for _, p := range m.projects {
		if p.CreatedBy == creatorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProjectRepository) ListForUser(ctx context.Context, userID string) ([]*models.Project, error) {
	return nil, nil
}

func (m *mockProjectRepository) AssignUsers(ctx context.Context, projectID string, userIDs []string) error {
	return nil
}

func (m *mockProjectRepository) GetAssignedUsers(ctx context.Context, projectID string) ([]*models.User, error) {
	return nil, nil
}

func (m *mockProjectRepository) GetAssignedUserIDs(ctx context.Context, projectID string) ([]string, error) {
	return nil, nil
}

func (m *mockProjectRepository) SetStatus(ctx context.Context, id string, status models.ProjectStatus, updatedAt time.Time) error {
	return nil
}

type mockIssueRepository struct {
	issues []*models.Issue
}

func (m *mockIssueRepository) Create(ctx context.Context, issue *models.Issue) error {
	m.issues = append(m.issues, issue)
	return nil
}

func (m *mockIssueRepository) GetByID(ctx context.Context, id string) (*models.Issue, error) {
	for _, i := range m.issues {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, nil
}

func (m *mockIssueRepository) ListByProject(ctx context.Context, projectID string) ([]*models.IssueWithAssignee, error) {
	return nil, nil
}

func (m *mockIssueRepository) ListByAssignee(ctx context.Context, userID string) ([]*models.IssueWithProject, error) {
	return nil, nil
}

func (m *mockIssueRepository) Assign(ctx context.Context, issueID, userID string, updatedAt time.Time) error {
	return nil
}

func (m *mockIssueRepository) SetStatus(ctx context.Context, issueID string, status models.IssueStatus, updatedAt time.Time) error {
	return nil
}

type mockStorage struct {
	userRepo    *mockUserRepository
	projectRepo *mockProjectRepository
	issueRepo   *mockIssueRepository
}

func (m *mockStorage) Open() error                              { return nil }
func (m *mockStorage) Close() error                             { return nil }
func (m *mockStorage) Migrate() error                           { return nil }
func (m *mockStorage) EnsureAdminUser(email, password string) error { return nil }
func (m *mockStorage) Users() storage.UserRepository            { return m.userRepo }
func (m *mockStorage) Projects() storage.ProjectRepository      { return m.projectRepo }
func (m *mockStorage) Issues() storage.IssueRepository          { return m.issueRepo }

func newTestHandler(t *testing.T) (*Handler, *mockUserRepository, *session.Store) {
	t.Helper()
	userRepo := &mockUserRepository{}
	store := &mockStorage{
		userRepo:    userRepo,
		projectRepo: &mockProjectRepository{},
		issueRepo:   &mockIssueRepository{},
	}
	sessions := session.NewStore(time.Hour)
	t.Cleanup(sessions.Close)
	return NewHandler(store, sessions), userRepo, sessions
}

func seedUser(t *testing.T, repo *mockUserRepository, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           "user-" + email,
		Name:         "Seeded",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	repo.users = append(repo.users, user)
	return user
}

func loginForm(email, password string) *http.Request {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleLogin_CreatesSession(t *testing.T) {
	handler, repo, sessions := newTestHandler(t)
	seedUser(t, repo, "dev@example.com", "password1", models.RoleDeveloper)

	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, loginForm("dev@example.com", "password1"))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("redirect = %q, want '/dashboard'", loc)
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_id" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie should be set")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	sess, ok := sessions.Get(sessionCookie.Value)
	if !ok {
		t.Fatal("session should exist in the store")
	}
	if sess.Role != "developer" {
		t.Errorf("session role = %q, want 'developer'", sess.Role)
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	handler, repo, _ := newTestHandler(t)
	seedUser(t, repo, "dev@example.com", "password1", models.RoleDeveloper)

	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, loginForm("dev@example.com", "wrongpass1"))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_id" && c.Value != "" {
			t.Error("no session cookie should be issued on failure")
		}
	}
}

func TestHandleLogin_MixedCaseEmail(t *testing.T) {
	handler, repo, sessions := newTestHandler(t)
	seedUser(t, repo, "dev@example.com", "password1", models.RoleDeveloper)

	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, loginForm("  Dev@Example.COM ", "password1"))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_id" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie should be set")
	}
	if _, ok := sessions.Get(sessionCookie.Value); !ok {
		t.Error("session should exist in the store")
	}
}

func TestHandleLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	handler, repo, _ := newTestHandler(t)
	seedUser(t, repo, "dev@example.com", "password1", models.RoleDeveloper)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.HandleLogin(rec, loginForm("dev@example.com", "wrongpass1"))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want %d", i+1, rec.Code, http.StatusUnauthorized)
		}
	}

	// Correct password is rejected while the account is locked
	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, loginForm("dev@example.com", "password1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}

func TestHandleLogout_DeletesSession(t *testing.T) {
	handler, _, sessions := newTestHandler(t)

	sess, err := sessions.Create("user-1", "Alice", "developer")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	req := httptest.NewRequest("POST", "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sess.ID})
	rec := httptest.NewRecorder()

	handler.HandleLogout(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if _, ok := sessions.Get(sess.ID); ok {
		t.Error("session should be deleted on logout")
	}
}

func TestHandleSignup_DuplicateEmail(t *testing.T) {
	handler, repo, _ := newTestHandler(t)
	seedUser(t, repo, "dev@example.com", "password1", models.RoleDeveloper)

	form := url.Values{}
	form.Set("name", "Dev Again")
	form.Set("email", "dev@example.com")
	form.Set("password", "password1")
	form.Set("role", "developer")
	req := httptest.NewRequest("POST", "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handler.HandleSignup(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if len(repo.users) != 1 {
		t.Errorf("users = %d, want 1", len(repo.users))
	}
}

func TestHandleSignup_NormalizesEmail(t *testing.T) {
	handler, repo, _ := newTestHandler(t)

	form := url.Values{}
	form.Set("name", "  Bob ")
	form.Set("email", " Bob@Example.com ")
	form.Set("password", "password1")
	form.Set("role", "tester")
	req := httptest.NewRequest("POST", "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handler.HandleSignup(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if len(repo.users) != 1 {
		t.Fatalf("users = %d, want 1", len(repo.users))
	}
	if repo.users[0].Email != "bob@example.com" {
		t.Errorf("email = %q, want 'bob@example.com'", repo.users[0].Email)
	}
	if repo.users[0].Name != "Bob" {
		t.Errorf("name = %q, want 'Bob'", repo.users[0].Name)
	}
}

func TestShowDashboard_RendersForAdmin(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	sess := &session.Session{ID: "s1", UserID: "admin-1", Name: "Admin", Role: "admin"}
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req = req.WithContext(context.WithValue(req.Context(), SessionContextKey, sess))
	rec := httptest.NewRecorder()

	handler.ShowDashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "New Project") {
		t.Error("admin dashboard should show the project creation form")
	}
}

func TestShowDashboard_NoSessionRedirects(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	rec := httptest.NewRecorder()

	handler.ShowDashboard(rec, req)

	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want '/login'", loc)
	}
}
