// Package projects implements the project REST endpoints.
package projects

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/good-yellow-bee/bugboard/internal/api/middleware"
	"github.com/good-yellow-bee/bugboard/internal/models"
	"github.com/good-yellow-bee/bugboard/internal/storage"
)

// Response helpers (same pattern as auth)
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
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AssignRequest struct {
	ProjectID string   `json:"project_id"`
	UserIDs   []string `json:"user_ids"`
}

type assignUsersRequest struct {
	UserIDs []string `json:"user_ids"`
}

// Response types
type ProjectResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	CreatedBy     string   `json:"created_by"`
	Status        string   `json:"status"`
	AssignedUsers []string `json:"assigned_users"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type ProjectDetailResponse struct {
	ProjectResponse
	Creator             *models.UserSummary   `json:"creator,omitempty"`
	AssignedUsersDetail []*models.UserSummary `json:"assigned_users_detail"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	storage storage.Storage
}

func NewHandler(store storage.Storage) *Handler {
	return &Handler{storage: store}
}

// Create creates a new project owned by the caller (admin only).
// Status is always in-progress at creation.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	if err := ValidateName(req.Name); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	ctx := r.Context()

	project := models.NewProject(
		strings.TrimSpace(req.Name),
		strings.TrimSpace(req.Description),
		middleware.GetUserID(ctx),
	)
	project.ID = uuid.New().String()

	if err := h.storage.Projects().Create(ctx, project); err != nil {
		log.Printf("create project error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("project created: %s (%s)", project.Name, project.ID)
	jsonCreated(w, projectToResponse(project, nil))
}

// Assign adds users to a project's assigned set (admin only).
// Body carries both the project id and the user ids.
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}
	h.assignUsers(w, r, req.ProjectID, req.UserIDs)
}

// AssignToProject adds users to the project named in the URL (admin only).
func (h *Handler) AssignToProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	var req assignUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}
	h.assignUsers(w, r, projectID, req.UserIDs)
}

// assignUsers is the shared assignment path. Duplicate assignments are
// silently ignored by the set-union write.
func (h *Handler) assignUsers(w http.ResponseWriter, r *http.Request, projectID string, userIDs []string) {
	if projectID == "" {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "project_id is required")
		return
	}
	if len(userIDs) == 0 {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "user_ids is required")
		return
	}
	for i, id := range userIDs {
		userIDs[i] = strings.TrimSpace(id)
	}

	ctx := r.Context()

	// Ensure project exists
	project, err := h.storage.Projects().GetByID(ctx, projectID)
	if err != nil {
		log.Printf("assign users error: get project: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if project == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "project not found")
		return
	}

	// Ensure every user exists before touching the assignment set
	for _, userID := range userIDs {
		user, err := h.storage.Users().GetByID(ctx, userID)
		if err != nil {
			log.Printf("assign users error: get user: %v", err)
			jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
			return
		}
		if user == nil {
			jsonError(w, http.StatusNotFound, errCodeNotFound, "user not found: "+userID)
			return
		}
	}

	if err := h.storage.Projects().AssignUsers(ctx, projectID, userIDs); err != nil {
		log.Printf("assign users error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("users assigned to project %s: %v", projectID, userIDs)
	jsonOK(w, &MessageResponse{Message: "users assigned successfully"})
}

// ListAll returns every project in a lightweight projection. Non-admin
// dashboards use it to filter projects containing their own id.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projects, err := h.storage.Projects().List(ctx)
	if err != nil {
		log.Printf("list projects error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	resp := make([]*ProjectResponse, 0, len(projects))
	for _, p := range projects {
		ids, err := h.storage.Projects().GetAssignedUserIDs(ctx, p.ID)
		if err != nil {
			log.Printf("list projects error: assigned ids: %v", err)
			jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
			return
		}
		resp = append(resp, projectToResponse(p, ids))
	}
	jsonOK(w, resp)
}

// MyProjects returns all projects created by the caller with assigned-user
// summaries populated (admin only).
func (h *Handler) MyProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projects, err := h.storage.Projects().ListByCreator(ctx, middleware.GetUserID(ctx))
	if err != nil {
		log.Printf("my projects error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	resp := make([]*ProjectDetailResponse, 0, len(projects))
	for _, p := range projects {
		users, err := h.storage.Projects().GetAssignedUsers(ctx, p.ID)
		if err != nil {
			log.Printf("my projects error: assigned users: %v", err)
			jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
			return
		}
		resp = append(resp, projectToDetailResponse(p, nil, users))
	}
	jsonOK(w, resp)
}

// AvailableUsers returns developer/tester accounts with no project
// membership (admin only). Availability is derived by reverse lookup
// against the assignment table rather than a field on the user.
func (h *Handler) AvailableUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.storage.Users().ListAvailable(r.Context())
	if err != nil {
		log.Printf("available users error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	resp := make([]*models.UserSummary, 0, len(users))
	for _, u := range users {
		resp = append(resp, u.Summary())
	}
	jsonOK(w, resp)
}

// GetByID returns one project with creator and assigned users populated.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "project id required")
		return
	}

	ctx := r.Context()
	project, err := h.storage.Projects().GetByID(ctx, id)
	if err != nil {
		log.Printf("get project error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if project == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "project not found")
		return
	}

	users, err := h.storage.Projects().GetAssignedUsers(ctx, id)
	if err != nil {
		log.Printf("get project error: assigned users: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	var creator *models.UserSummary
	if u, err := h.storage.Users().GetByID(ctx, project.CreatedBy); err != nil {
		log.Printf("get project error: creator: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	} else if u != nil {
		creator = u.Summary()
	}

	jsonOK(w, projectToDetailResponse(project, creator, users))
}

// MarkCompleted performs the one-way in-progress -> completed transition.
func (h *Handler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "project id required")
		return
	}

	ctx := r.Context()
	project, err := h.storage.Projects().GetByID(ctx, id)
	if err != nil {
		log.Printf("mark completed error: get project: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if project == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "project not found")
		return
	}

	if err := h.storage.Projects().SetStatus(ctx, id, models.ProjectCompleted, time.Now()); err != nil {
		log.Printf("mark completed error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("project marked completed: %s (%s)", project.Name, project.ID)
	jsonOK(w, &MessageResponse{Message: "project marked as completed"})
}

func projectToResponse(p *models.Project, assignedIDs []string) *ProjectResponse {
	if assignedIDs == nil {
		assignedIDs = []string{}
	}
	return &ProjectResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		CreatedBy:     p.CreatedBy,
		Status:        string(p.Status),
		AssignedUsers: assignedIDs,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
}

func projectToDetailResponse(p *models.Project, creator *models.UserSummary, users []*models.User) *ProjectDetailResponse {
	ids := make([]string, 0, len(users))
	summaries := make([]*models.UserSummary, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
		summaries = append(summaries, u.Summary())
	}
	return &ProjectDetailResponse{
		ProjectResponse:     *projectToResponse(p, ids),
		Creator:             creator,
		AssignedUsersDetail: summaries,
	}
}
