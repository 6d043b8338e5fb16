package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/akinalp/mqvi-modbot/handlers"
	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
	"github.com/akinalp/mqvi-modbot/platform"
)

// ServerScopeMiddleware, for routes under /api/servers/{serverId}/.
// The actor must be a member of the server on the platform.
// Must run after AuthMiddleware.
type ServerScopeMiddleware struct {
	platform platform.Client
}

// NewServerScopeMiddleware, creates the middleware.
func NewServerScopeMiddleware(platformClient platform.Client) *ServerScopeMiddleware {
	return &ServerScopeMiddleware{platform: platformClient}
}

// Require, checks membership and puts the server id on the context under
// handlers.ServerIDContextKey.
func (m *ServerScopeMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(handlers.ClaimsContextKey).(*models.TokenClaims)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		serverID := r.PathValue("serverId")
		if serverID == "" {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "serverId is required")
			return
		}

		if _, err := m.platform.MemberRoleIDs(r.Context(), serverID, claims.UserID); err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				pkg.ErrorWithMessage(w, http.StatusForbidden, "you are not a member of this server")
				return
			}
			log.Printf("[middleware] membership check failed: server=%s user=%s: %v", serverID, claims.UserID, err)
			pkg.ErrorWithMessage(w, http.StatusInternalServerError, "failed to check server membership")
			return
		}

		ctx := context.WithValue(r.Context(), handlers.ServerIDContextKey, serverID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
