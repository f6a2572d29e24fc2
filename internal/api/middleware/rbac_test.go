package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/good-yellow-bee/bugboard/internal/models"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []models.Role
		role       models.Role
		wantStatus int
	}{
		{"admin allowed", []models.Role{models.RoleAdmin}, models.RoleAdmin, http.StatusOK},
		{"developer rejected from admin route", []models.Role{models.RoleAdmin}, models.RoleDeveloper, http.StatusForbidden},
		{"tester rejected from admin route", []models.Role{models.RoleAdmin}, models.RoleTester, http.StatusForbidden},
		{"developer allowed on member route", []models.Role{models.RoleDeveloper, models.RoleTester}, models.RoleDeveloper, http.StatusOK},
		{"admin not implicitly allowed on member route", []models.Role{models.RoleDeveloper, models.RoleTester}, models.RoleAdmin, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/", nil)
			req = req.WithContext(WithIdentity(req.Context(), "user-1", "user", tt.role))
			rec := httptest.NewRecorder()

			RequireRole(tt.allowed...)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRole_NoIdentity(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	RequireAdmin(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
