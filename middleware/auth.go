// Package middleware holds the HTTP middleware chain.
//
// A middleware wraps an http.Handler and runs before it:
//
//	Request → AuthMiddleware → ServerScopeMiddleware → Handler → Response
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/akinalp/mqvi-modbot/handlers"
	"github.com/akinalp/mqvi-modbot/pkg"
	"github.com/akinalp/mqvi-modbot/services"
)

// AuthMiddleware, requires a valid platform access token.
type AuthMiddleware struct {
	authService services.AuthService
}

// NewAuthMiddleware, creates the auth middleware.
func NewAuthMiddleware(authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Require, validates "Authorization: Bearer <token>" and puts the claims on
// the context under handlers.ClaimsContextKey.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := m.authService.ValidateAccessToken(tokenString)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), handlers.ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
