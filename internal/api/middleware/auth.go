// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/good-yellow-bee/bugboard/internal/api/auth"
	"github.com/good-yellow-bee/bugboard/internal/models"
)

// Context keys for storing user information.
type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userNameKey contextKey = "user_name"
	roleKey     contextKey = "role"
	claimsKey   contextKey = "claims"
)

// jsonUnauthorized writes an unauthorized error response.
func jsonUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "UNAUTHORIZED",
			"message": "invalid or expired token",
		},
	})
}

// jsonForbidden writes a forbidden error response.
func jsonForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "FORBIDDEN",
			"message": "access denied",
		},
	})
}

// JWTAuth returns middleware that validates JWT bearer tokens and attaches
// the resolved identity to the request context. Failures short-circuit
// before the controller runs.
func JWTAuth(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				jsonUnauthorized(w)
				return
			}

			// Parse Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				jsonUnauthorized(w)
				return
			}

			tokenString := parts[1]

			// Validate token
			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				log.Printf("JWT auth failed for %s: %v", r.RemoteAddr, err)
				jsonUnauthorized(w)
				return
			}

			// Add claims to context
			ctx := r.Context()
			ctx = context.WithValue(ctx, userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, userNameKey, claims.Name)
			ctx = context.WithValue(ctx, roleKey, claims.Role)
			ctx = context.WithValue(ctx, claimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the user ID from context.
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(userIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserName returns the user's display name from context.
func GetUserName(ctx context.Context) string {
	if v := ctx.Value(userNameKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetRole returns the user role from context.
func GetRole(ctx context.Context) models.Role {
	if v := ctx.Value(roleKey); v != nil {
		if r, ok := v.(models.Role); ok {
			return r
		}
	}
	return ""
}

// GetClaims returns the JWT claims from context.
func GetClaims(ctx context.Context) *auth.Claims {
	if v := ctx.Value(claimsKey); v != nil {
		if c, ok := v.(*auth.Claims); ok {
			return c
		}
	}
	return nil
}

// WithIdentity attaches a resolved identity directly to the context.
// Used by tests and by the web layer when a session already carries
// the identity.
func WithIdentity(ctx context.Context, userID, name string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, userNameKey, name)
	ctx = context.WithValue(ctx, roleKey, role)
	return ctx
}
