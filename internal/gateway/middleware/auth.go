package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/wayfarerhq/wayfarer-backend/internal/modules/auth/infrastructure/jwt"
	"github.com/wayfarerhq/wayfarer-backend/internal/shared/utils"
)

type contextKey string

const (
	ContextKeyUserID contextKey = "user_id"
)

type AuthMiddleware struct {
	jwtSecret string
}

// NewAuthMiddleware creates and returns a new instance of AuthMiddleware.
// It initializes the middleware with the provided JWT secret key used for
// token validation.
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// RequireAuth enforces authentication on HTTP requests. It reads the Bearer
// token from the Authorization header, falling back to the token query
// parameter (first non-empty source wins), validates it against the stored
// secret and injects the authenticated user's ID into the request context.
// Failures get a 401 with a structured body.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractToken(r)
		if tokenStr == "" {
			utils.WriteError(w, http.StatusUnauthorized, "missing or invalid authorization", nil)
			return
		}

		claims, err := jwt.ValidateToken(tokenStr, m.jwtSecret)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FlexibleAuth attempts to authenticate but proceeds even without a token.
// A valid token injects the user ID into the context; anything else passes
// the request through as anonymous.
func (m *AuthMiddleware) FlexibleAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := jwt.ValidateToken(tokenStr, m.jwtSecret)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return r.URL.Query().Get("token")
}
