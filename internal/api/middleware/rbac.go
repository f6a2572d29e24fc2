package middleware

import (
	"net/http"

	"github.com/good-yellow-bee/bugboard/internal/models"
)

// RequireRole returns middleware that rejects the request with a forbidden
// response unless the resolved identity's role is in the allow-list.
func RequireRole(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetRole(r.Context())
			if userRole == "" {
				jsonForbidden(w)
				return
			}

			for _, role := range allowedRoles {
				if userRole == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			jsonForbidden(w)
		})
	}
}

// RequireAdmin is shorthand for RequireRole(RoleAdmin).
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin)(next)
}
