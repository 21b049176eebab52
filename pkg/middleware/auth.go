package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKeyType string

const (
	userIDKey  contextKeyType = "user_id"
	isAdminKey contextKeyType = "is_admin"
)

// Claims represents the identity extracted by the auth middleware.
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// TokenValidator validates a bearer token and resolves it to claims. The
// resolution step (token subject to user record) is injected by the caller.
type TokenValidator func(ctx context.Context, token string) (*Claims, error)

// Auth middleware extracts the bearer credential, validates it, and injects
// the resolved identity into the request context. It is a pure gate: no side
// effects beyond context attachment.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, "not authorized, no token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeAuthError(w, "not authorized, no token")
				return
			}

			claims, err := validate(r.Context(), parts[1])
			if err != nil {
				writeAuthError(w, "not authorized, token failed")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, isAdminKey, claims.IsAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin checks that the authenticated user carries the admin
// capability. Like the missing-token case it answers 401, not 403.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdminFromContext(r.Context()) {
				writeAuthJSON(w, "NOT_AUTHORIZED", "not authorized as an admin")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// IsAdminFromContext reports whether the authenticated user is an administrator.
func IsAdminFromContext(ctx context.Context) bool {
	if admin, ok := ctx.Value(isAdminKey).(bool); ok {
		return admin
	}
	return false
}

func writeAuthError(w http.ResponseWriter, message string) {
	writeAuthJSON(w, "NOT_AUTHENTICATED", message)
}

func writeAuthJSON(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
