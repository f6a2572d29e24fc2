// Package handlers implements the server-rendered web UI pages.
package handlers

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/good-yellow-bee/bugboard/internal/api/auth"
	"github.com/good-yellow-bee/bugboard/internal/storage"
	"github.com/good-yellow-bee/bugboard/internal/web/session"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Handler struct {
	storage   storage.Storage
	sessions  *session.Store
	lockout   *auth.LockoutTracker
	templates *template.Template
}

func NewHandler(store storage.Storage, sessions *session.Store) *Handler {
	if sessions == nil {
		sessions = session.NewStore(24 * time.Hour)
	}
	return &Handler{
		storage:   store,
		sessions:  sessions,
		lockout:   auth.NewLockoutTracker(5, 30*time.Minute),
		templates: template.Must(template.ParseFS(templateFS, "templates/*.tmpl")),
	}
}

// Sessions returns the session store for router integration.
func (h *Handler) Sessions() *session.Store {
	return h.sessions
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

// Helper to get session from context
type contextKey string

const SessionContextKey contextKey = "session"

func GetSession(r *http.Request) *session.Session {
	if s, ok := r.Context().Value(SessionContextKey).(*session.Session); ok {
		return s
	}
	return nil
}
