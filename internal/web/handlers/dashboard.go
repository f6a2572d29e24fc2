package handlers

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"github.com/good-yellow-bee/bugboard/internal/dashboard"
	"github.com/good-yellow-bee/bugboard/internal/models"
	"github.com/good-yellow-bee/bugboard/internal/web/session"
)

type dashboardView struct {
	Session        *session.Session
	IsAdmin        bool
	Active         []*models.Project
	Completed      []*models.Project
	AvailableUsers []*models.User
	MyIssues       []*models.IssueWithProject
	CSRFField      template.HTML
}

func (h *Handler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r)
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	ctx := r.Context()
	view := dashboardView{
		Session:   sess,
		IsAdmin:   sess.Role == "admin",
		CSRFField: csrf.TemplateField(r),
	}

	if view.IsAdmin {
		projects, err := h.storage.Projects().ListByCreator(ctx, sess.UserID)
		if err != nil {
			log.Printf("dashboard error: list projects: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		view.Active, view.Completed = dashboard.SplitByCompletion(projects)

		available, err := h.storage.Users().ListAvailable(ctx)
		if err != nil {
			log.Printf("dashboard error: list available users: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		view.AvailableUsers = available
	} else {
		projects, err := h.storage.Projects().ListForUser(ctx, sess.UserID)
		if err != nil {
			log.Printf("dashboard error: list projects: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		view.Active, view.Completed = dashboard.SplitByCompletion(projects)

		issues, err := h.storage.Issues().ListByAssignee(ctx, sess.UserID)
		if err != nil {
			log.Printf("dashboard error: list issues: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		view.MyIssues = issues
	}

	h.render(w, "dashboard.tmpl", view)
}

type dashboardStats struct {
	Trend      []dashboard.TrendPoint   `json:"trend"`
	ByPriority dashboard.PriorityCounts `json:"by_priority"`
	ByRole     dashboard.RoleCounts     `json:"by_role"`
}

// GetDashboardStats feeds the dashboard charts. Admins see aggregates
// over the issues in their projects plus the user role breakdown;
// members see aggregates over the issues assigned to them.
func (h *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r)
	if sess == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx := r.Context()
	var issues []*models.Issue

	if sess.Role == "admin" {
		projects, err := h.storage.Projects().ListByCreator(ctx, sess.UserID)
		if err != nil {
			log.Printf("stats error: list projects: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		for _, p := range projects {
			projectIssues, err := h.storage.Issues().ListByProject(ctx, p.ID)
			if err != nil {
				log.Printf("stats error: list issues for %s: %v", p.ID, err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			for _, issue := range projectIssues {
				issues = append(issues, &issue.Issue)
			}
		}
	} else {
		assigned, err := h.storage.Issues().ListByAssignee(ctx, sess.UserID)
		if err != nil {
			log.Printf("stats error: list issues: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		for _, issue := range assigned {
			issues = append(issues, &issue.Issue)
		}
	}

	stats := dashboardStats{
		Trend:      dashboard.IssueTrend(issues, 14, time.Now()),
		ByPriority: dashboard.CountByPriority(issues),
	}

	if sess.Role == "admin" {
		users, err := h.storage.Users().List(ctx)
		if err != nil {
			log.Printf("stats error: list users: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		stats.ByRole = dashboard.CountByRole(users)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		log.Printf("stats error: encode: %v", err)
	}
}
