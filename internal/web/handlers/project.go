package handlers

import (
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"

	"github.com/good-yellow-bee/bugboard/internal/dashboard"
	"github.com/good-yellow-bee/bugboard/internal/metrics"
	"github.com/good-yellow-bee/bugboard/internal/models"
	"github.com/good-yellow-bee/bugboard/internal/web/session"
)

type projectView struct {
	Session        *session.Session
	IsAdmin        bool
	IsMember       bool
	Project        *models.Project
	Creator        *models.User
	Members        []*models.User
	OpenIssues     []*models.IssueWithAssignee
	ResolvedIssues []*models.IssueWithAssignee
	AvailableUsers []*models.User
	CSRFField      template.HTML
}

func (h *Handler) ShowProject(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r)
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	ctx := r.Context()
	projectID := chi.URLParam(r, "id")

	project, err := h.storage.Projects().GetByID(ctx, projectID)
	if err != nil {
		log.Printf("project page error: get project: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if project == nil {
		http.NotFound(w, r)
		return
	}

	members, err := h.storage.Projects().GetAssignedUsers(ctx, projectID)
	if err != nil {
		log.Printf("project page error: get members: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	issues, err := h.storage.Issues().ListByProject(ctx, projectID)
	if err != nil {
		log.Printf("project page error: list issues: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	open, resolved := dashboard.PartitionByStatus(issues)

	view := projectView{
		Session:        sess,
		IsAdmin:        sess.Role == "admin",
		Project:        project,
		Members:        members,
		OpenIssues:     open,
		ResolvedIssues: resolved,
		CSRFField:      csrf.TemplateField(r),
	}

	for _, m := range members {
		if m.ID == sess.UserID {
			view.IsMember = true
			break
		}
	}

	if creator, err := h.storage.Users().GetByID(ctx, project.CreatedBy); err == nil {
		view.Creator = creator
	}

	if view.IsAdmin {
		available, err := h.storage.Users().ListAvailable(ctx)
		if err != nil {
			log.Printf("project page error: list available users: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		view.AvailableUsers = available
	}

	h.render(w, "project.tmpl", view)
}

func (h *Handler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r)
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		http.Error(w, "Project name is required", http.StatusBadRequest)
		return
	}

	project := models.NewProject(name, r.FormValue("description"), sess.UserID)
	project.ID = uuid.New().String()
	if err := h.storage.Projects().Create(r.Context(), project); err != nil {
		log.Printf("create project error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *Handler) HandleAssignUsers(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	projectID := chi.URLParam(r, "id")
	userIDs := r.Form["user_ids"]

	project, err := h.storage.Projects().GetByID(ctx, projectID)
	if err != nil || project == nil {
		http.NotFound(w, r)
		return
	}
	if len(userIDs) == 0 {
		http.Redirect(w, r, "/projects/"+projectID, http.StatusFound)
		return
	}

	for _, id := range userIDs {
		user, err := h.storage.Users().GetByID(ctx, id)
		if err != nil || user == nil {
			http.Error(w, "Unknown user", http.StatusBadRequest)
			return
		}
	}

	if err := h.storage.Projects().AssignUsers(ctx, projectID, userIDs); err != nil {
		log.Printf("assign users error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/projects/"+projectID, http.StatusFound)
}

func (h *Handler) HandleMarkCompleted(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := chi.URLParam(r, "id")

	project, err := h.storage.Projects().GetByID(ctx, projectID)
	if err != nil || project == nil {
		http.NotFound(w, r)
		return
	}

	if err := h.storage.Projects().SetStatus(ctx, projectID, models.ProjectCompleted, time.Now()); err != nil {
		log.Printf("mark completed error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/projects/"+projectID, http.StatusFound)
}

func (h *Handler) HandleCreateIssue(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r)
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	projectID := chi.URLParam(r, "id")

	project, err := h.storage.Projects().GetByID(ctx, projectID)
	if err != nil || project == nil {
		http.NotFound(w, r)
		return
	}

	title := r.FormValue("title")
	if title == "" {
		http.Error(w, "Issue title is required", http.StatusBadRequest)
		return
	}

	priority, ok := models.ParsePriority(r.FormValue("priority"))
	if !ok {
		http.Error(w, "Choose a valid priority", http.StatusBadRequest)
		return
	}

	issue := models.NewIssue(title, r.FormValue("description"), priority, projectID, sess.UserID)
	issue.ID = uuid.New().String()
	if err := h.storage.Issues().Create(ctx, issue); err != nil {
		log.Printf("create issue error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	metrics.IssuesCreatedTotal.WithLabelValues(string(issue.Priority)).Inc()

	http.Redirect(w, r, "/projects/"+projectID, http.StatusFound)
}

func (h *Handler) HandleResolveIssue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	projectID := chi.URLParam(r, "id")
	issueID := r.FormValue("issue_id")

	issue, err := h.storage.Issues().GetByID(ctx, issueID)
	if err != nil || issue == nil {
		http.NotFound(w, r)
		return
	}

	if !issue.IsResolved() {
		if err := h.storage.Issues().SetStatus(ctx, issueID, models.IssueResolved, time.Now()); err != nil {
			log.Printf("resolve issue error: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		metrics.IssuesResolvedTotal.Inc()
	}

	http.Redirect(w, r, "/projects/"+projectID, http.StatusFound)
}

func (h *Handler) HandleAssignIssue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	projectID := chi.URLParam(r, "id")
	issueID := r.FormValue("issue_id")
	userID := r.FormValue("user_id")

	issue, err := h.storage.Issues().GetByID(ctx, issueID)
	if err != nil || issue == nil {
		http.NotFound(w, r)
		return
	}

	user, err := h.storage.Users().GetByID(ctx, userID)
	if err != nil || user == nil {
		http.Error(w, "Unknown user", http.StatusBadRequest)
		return
	}

	if err := h.storage.Issues().Assign(ctx, issueID, userID, time.Now()); err != nil {
		log.Printf("assign issue error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/projects/"+projectID, http.StatusFound)
}
