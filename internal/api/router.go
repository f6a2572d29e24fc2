package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/good-yellow-bee/bugboard/internal/api/auth"
	"github.com/good-yellow-bee/bugboard/internal/api/issues"
	"github.com/good-yellow-bee/bugboard/internal/api/middleware"
	"github.com/good-yellow-bee/bugboard/internal/api/projects"
	"github.com/good-yellow-bee/bugboard/internal/models"
)

// setupRouter creates and configures the chi router with all routes.
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Create JWT service
	jwtService := auth.NewJWTService(s.config.JWTSecret, s.config.AccessTokenTTL)

	// Create lockout tracker
	lockoutTracker := auth.NewLockoutTracker(s.config.LockoutThreshold, s.config.LockoutDuration)

	// Global middleware
	r.Use(middleware.RequestLogger(s.config.Verbose))
	r.Use(middleware.PrometheusMiddleware)
	r.Use(middleware.Recoverer)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// JSON fallbacks for unmatched API paths
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			JSONError(w, ErrNotFound)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			JSONError(w, ErrMethodNotAllowed)
		})

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			authHandler := auth.NewHandler(s.storage, jwtService, lockoutTracker)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Project routes (protected)
		r.Route("/projects", func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtService))

			projectHandler := projects.NewHandler(s.storage)

			// Any authenticated role
			r.Get("/all", projectHandler.ListAll)
			r.Get("/{id}", projectHandler.GetByID)

			// Admin-only endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Post("/create", projectHandler.Create)
				r.Put("/assign", projectHandler.Assign)
				r.Put("/assign-users/{projectId}", projectHandler.AssignToProject)
				r.Get("/my-projects", projectHandler.MyProjects)
				r.Get("/available-users", projectHandler.AvailableUsers)
				r.Put("/mark-completed/{id}", projectHandler.MarkCompleted)
			})
		})

		// Issue routes (protected, no role gate)
		r.Route("/issues", func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtService))

			issueHandler := issues.NewHandler(s.storage)
			r.Post("/create", issueHandler.Create)
			r.Put("/assign", issueHandler.Assign)
			r.Put("/status", issueHandler.UpdateStatus)
			r.Get("/project/{projectId}", issueHandler.ListByProject)
			r.Get("/my-issues", issueHandler.MyIssues)
		})
	})

	// Prometheus metrics (public)
	r.Handle("/metrics", promhttp.Handler())

	// Health check (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		OK(w, map[string]string{"status": "ok"})
	})

	// Server-rendered web UI
	if s.web != nil {
		r.Mount("/", s.web)
	}

	return r
}
