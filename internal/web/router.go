package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"github.com/good-yellow-bee/bugboard/internal/web/middleware"
)

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	csrfMiddleware := csrf.Protect(
		s.csrfKey,
		csrf.Secure(s.useSecureCookies),
		csrf.Path("/"),
	)
	r.Use(csrfMiddleware)

	// Public routes
	r.Get("/login", s.handler.ShowLogin)
	r.Post("/login", s.handler.HandleLogin)
	r.Get("/signup", s.handler.ShowSignup)
	r.Post("/signup", s.handler.HandleSignup)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(s.sessions))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
		})
		r.Get("/dashboard", s.handler.ShowDashboard)
		r.Get("/dashboard/stats", s.handler.GetDashboardStats)
		r.Post("/logout", s.handler.HandleLogout)

		r.Get("/projects/{id}", s.handler.ShowProject)
		r.Post("/projects/{id}/issues", s.handler.HandleCreateIssue)
		r.Post("/projects/{id}/issues/resolve", s.handler.HandleResolveIssue)

		// Admin-only management actions
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/projects", s.handler.HandleCreateProject)
			r.Post("/projects/{id}/assign", s.handler.HandleAssignUsers)
			r.Post("/projects/{id}/complete", s.handler.HandleMarkCompleted)
			r.Post("/projects/{id}/issues/assign", s.handler.HandleAssignIssue)
		})
	})

	return r
}
