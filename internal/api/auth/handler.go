package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/good-yellow-bee/bugboard/internal/metrics"
	"github.com/good-yellow-bee/bugboard/internal/models"
	"github.com/good-yellow-bee/bugboard/internal/storage"
)

// Handler handles authentication endpoints.
type Handler struct {
	storage        storage.Storage
	jwtService     *JWTService
	lockoutTracker *LockoutTracker
}

// NewHandler creates a new auth handler.
func NewHandler(store storage.Storage, jwt *JWTService, lockout *LockoutTracker) *Handler {
	return &Handler{
		storage:        store,
		jwtService:     jwt,
		lockoutTracker: lockout,
	}
}

// Response helpers (local to avoid import cycle with api package)

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

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}}); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dataResponse{Data: data}); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

func jsonCreated(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(dataResponse{Data: data}); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// Error codes and messages
const (
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeValidationFailed = "VALIDATION_FAILED"
	errCodeUnauthorized     = "UNAUTHORIZED"
	errCodeConflict         = "CONFLICT"
	errCodeAccountLocked    = "ACCOUNT_LOCKED"
	errCodeInternalError    = "INTERNAL_ERROR"
)

// RegisterRequest is the request body for signup.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token     string              `json:"token"`
	TokenType string              `json:"token_type"`
	ExpiresIn int                 `json:"expires_in"`
	User      *models.UserSummary `json:"user"`
}

// Register handles user signup.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "name is required")
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "a valid email is required")
		return
	}
	if err := ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "role must be admin, developer, or tester")
		return
	}

	ctx := r.Context()

	// Check email uniqueness
	existing, err := h.storage.Users().GetByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("register error: check email: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if existing != nil {
		jsonError(w, http.StatusConflict, errCodeConflict, "email already registered")
		return
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("register error: hash password: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	user := models.NewUser(req.Name, req.Email, role)
	user.ID = uuid.New().String()
	user.PasswordHash = string(hash)

	if err := h.storage.Users().Create(ctx, user); err != nil {
		log.Printf("register error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("user registered: %s (%s)", user.Email, user.ID)
	jsonCreated(w, user.Summary())
}

// Login handles user login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "email and password required")
		return
	}

	// Check lockout
	if h.lockoutTracker.IsLocked(req.Email) {
		remaining := h.lockoutTracker.RemainingLockoutTime(req.Email)
		log.Printf("login blocked: account %s locked for %v", req.Email, remaining)
		metrics.LoginsTotal.WithLabelValues("locked").Inc()
		jsonError(w, http.StatusTooManyRequests, errCodeAccountLocked, "account temporarily locked due to too many failed attempts")
		return
	}

	// Get user
	ctx := r.Context()
	user, err := h.storage.Users().GetByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("login error: get user: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if user == nil {
		h.lockoutTracker.RecordFailure(req.Email)
		log.Printf("login failed: user %s not found", req.Email)
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		jsonError(w, http.StatusUnauthorized, errCodeUnauthorized, "invalid credentials")
		return
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.lockoutTracker.RecordFailure(req.Email)
		log.Printf("login failed: invalid password for user %s", req.Email)
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		jsonError(w, http.StatusUnauthorized, errCodeUnauthorized, "invalid credentials")
		return
	}

	// Clear lockout on success
	h.lockoutTracker.ClearFailures(req.Email)

	// Generate access token
	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		log.Printf("login error: generate token: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("login success: user %s", req.Email)
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	jsonOK(w, &LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: h.jwtService.TTLSeconds(),
		User:      user.Summary(),
	})
}
