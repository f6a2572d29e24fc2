package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"golang.org/x/crypto/bcrypt"

	"github.com/good-yellow-bee/bugboard/internal/api/auth"
	"github.com/good-yellow-bee/bugboard/internal/models"
)

type authPageView struct {
	Error     string
	CSRFField template.HTML
}

func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	// Check if already logged in
	if cookie, err := r.Cookie("session_id"); err == nil {
		if _, ok := h.sessions.Get(cookie.Value); ok {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
	}
	h.render(w, "login.tmpl", authPageView{CSRFField: csrf.TemplateField(r)})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")

	if email == "" || password == "" {
		h.renderLoginError(w, r, http.StatusBadRequest, "Email and password are required")
		return
	}

	if h.lockout.IsLocked(email) {
		h.renderLoginError(w, r, http.StatusTooManyRequests, "Too many failed attempts. Try again later.")
		return
	}

	ctx := r.Context()
	user, err := h.storage.Users().GetByEmail(ctx, email)
	if err != nil || user == nil {
		h.lockout.RecordFailure(email)
		h.renderLoginError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		h.lockout.RecordFailure(email)
		h.renderLoginError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.lockout.ClearFailures(email)

	// Invalidate any existing session to prevent session fixation
	if cookie, err := r.Cookie("session_id"); err == nil {
		h.sessions.Delete(cookie.Value)
	}

	// Session init is the single entry point into authenticated state.
	sess, err := h.sessions.Create(user.ID, user.Name, string(user.Role))
	if err != nil {
		h.renderLoginError(w, r, http.StatusInternalServerError, "Failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *Handler) ShowSignup(w http.ResponseWriter, r *http.Request) {
	h.render(w, "signup.tmpl", authPageView{CSRFField: csrf.TemplateField(r)})
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderSignupError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")
	role, ok := models.ParseRole(r.FormValue("role"))

	if name == "" || email == "" {
		h.renderSignupError(w, r, http.StatusBadRequest, "Name and email are required")
		return
	}
	if !ok {
		h.renderSignupError(w, r, http.StatusBadRequest, "Choose a valid role")
		return
	}
	if err := auth.ValidatePassword(password); err != nil {
		h.renderSignupError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	existing, err := h.storage.Users().GetByEmail(ctx, email)
	if err != nil {
		log.Printf("signup error: check email: %v", err)
		h.renderSignupError(w, r, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if existing != nil {
		h.renderSignupError(w, r, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("signup error: hash password: %v", err)
		h.renderSignupError(w, r, http.StatusInternalServerError, "Something went wrong")
		return
	}

	user := models.NewUser(name, email, role)
	user.ID = uuid.New().String()
	user.PasswordHash = string(hash)

	if err := h.storage.Users().Create(ctx, user); err != nil {
		log.Printf("signup error: %v", err)
		h.renderSignupError(w, r, http.StatusInternalServerError, "Something went wrong")
		return
	}

	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	// Session teardown is the single exit from authenticated state.
	if cookie, err := r.Cookie("session_id"); err == nil {
		h.sessions.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   "session_id",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) renderLoginError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.WriteHeader(status)
	h.render(w, "login.tmpl", authPageView{Error: msg, CSRFField: csrf.TemplateField(r)})
}

func (h *Handler) renderSignupError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.WriteHeader(status)
	h.render(w, "signup.tmpl", authPageView{Error: msg, CSRFField: csrf.TemplateField(r)})
}
