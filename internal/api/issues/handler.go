// Package issues implements the issue REST endpoints.
package issues

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/good-yellow-bee/bugboard/internal/api/middleware"
	"github.com/good-yellow-bee/bugboard/internal/metrics"
	"github.com/good-yellow-bee/bugboard/internal/models"
	"github.com/good-yellow-bee/bugboard/internal/storage"
)

// Response helpers (same pattern as projects)
type errorResponse struct {
	Error errorBody `json:"error"`
}
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
type dataResponse struct {
	Data any `json:"data"`
}

const (
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeValidationFailed = "VALIDATION_FAILED"
	errCodeNotFound         = "NOT_FOUND"
	errCodeInternalError    = "INTERNAL_ERROR"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}})
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dataResponse{Data: data})
}

func jsonCreated(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dataResponse{Data: data})
}

// Request types
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	ProjectID   string `json:"project_id"`
}

type AssignRequest struct {
	IssueID string `json:"issue_id"`
	UserID  string `json:"user_id"`
}

type StatusRequest struct {
	IssueID string `json:"issue_id"`
	Status  string `json:"status"`
}

// Response types
type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Message   string `json:"message"`
	UpdatedAt string `json:"updated_at"`
}

type Handler struct {
	storage storage.Storage
}

func NewHandler(store storage.Storage) *Handler {
	return &Handler{storage: store}
}

// Create creates a new issue against an existing project. The issue is
// stored with an explicit open status.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	if err := ValidateTitle(req.Title); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}
	priority, ok := models.ParsePriority(req.Priority)
	if !ok {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "priority must be low, medium, or high")
		return
	}
	if req.ProjectID == "" {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "project_id is required")
		return
	}

	ctx := r.Context()

	// The referenced project must exist at creation time.
	project, err := h.storage.Projects().GetByID(ctx, strings.TrimSpace(req.ProjectID))
	if err != nil {
		log.Printf("create issue error: get project: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if project == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "project not found")
		return
	}

	issue := models.NewIssue(
		strings.TrimSpace(req.Title),
		strings.TrimSpace(req.Description),
		priority,
		project.ID,
		middleware.GetUserID(ctx),
	)
	issue.ID = uuid.New().String()

	if err := h.storage.Issues().Create(ctx, issue); err != nil {
		log.Printf("create issue error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("issue created: %s (%s) in project %s", issue.Title, issue.ID, project.ID)
	metrics.IssuesCreatedTotal.WithLabelValues(string(priority)).Inc()
	jsonCreated(w, issue)
}

// Assign sets the issue's single assignee.
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}
	if req.IssueID == "" || req.UserID == "" {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "issue_id and user_id are required")
		return
	}

	ctx := r.Context()

	issue, err := h.storage.Issues().GetByID(ctx, req.IssueID)
	if err != nil {
		log.Printf("assign issue error: get issue: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if issue == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "issue not found")
		return
	}

	user, err := h.storage.Users().GetByID(ctx, strings.TrimSpace(req.UserID))
	if err != nil {
		log.Printf("assign issue error: get user: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "user not found")
		return
	}

	if err := h.storage.Issues().Assign(ctx, issue.ID, user.ID, time.Now()); err != nil {
		log.Printf("assign issue error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("issue %s assigned to %s", issue.ID, user.ID)
	jsonOK(w, &MessageResponse{Message: "issue assigned successfully"})
}

// UpdateStatus sets the issue's resolution status. The open -> resolved
// transition is one-way; requests that would revert it are rejected.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}
	if req.IssueID == "" {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "issue_id is required")
		return
	}
	status, ok := models.ParseIssueStatus(req.Status)
	if !ok {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "status must be open or resolved")
		return
	}

	ctx := r.Context()

	issue, err := h.storage.Issues().GetByID(ctx, req.IssueID)
	if err != nil {
		log.Printf("update issue status error: get issue: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if issue == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "issue not found")
		return
	}

	if issue.Status == models.IssueResolved && status == models.IssueOpen {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "resolved issues cannot be reopened")
		return
	}

	updatedAt := time.Now()
	if err := h.storage.Issues().SetStatus(ctx, issue.ID, status, updatedAt); err != nil {
		log.Printf("update issue status error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	if status == models.IssueResolved && issue.Status != models.IssueResolved {
		metrics.IssuesResolvedTotal.Inc()
	}

	log.Printf("issue %s status set to %s", issue.ID, status)
	jsonOK(w, &StatusResponse{
		Message:   "status updated",
		UpdatedAt: updatedAt.Format(time.RFC3339),
	})
}

// ListByProject returns all issues for a project with assignedTo populated.
func (h *Handler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")
	if projectID == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "project id required")
		return
	}

	issues, err := h.storage.Issues().ListByProject(r.Context(), projectID)
	if err != nil {
		log.Printf("list issues error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if issues == nil {
		issues = []*models.IssueWithAssignee{}
	}
	jsonOK(w, issues)
}

// MyIssues returns the issues assigned to the caller with the owning
// project's name populated.
func (h *Handler) MyIssues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	issues, err := h.storage.Issues().ListByAssignee(ctx, middleware.GetUserID(ctx))
	if err != nil {
		log.Printf("my issues error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if issues == nil {
		issues = []*models.IssueWithProject{}
	}
	jsonOK(w, issues)
}
