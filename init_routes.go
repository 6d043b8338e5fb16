// Package main: HTTP route registration.
//
// Middleware chain helpers:
//   - auth: platform token
//   - authServer: auth + server membership
package main

import (
	"net/http"

	"github.com/akinalp/mqvi-modbot/middleware"
	"github.com/akinalp/mqvi-modbot/platform"
	"github.com/akinalp/mqvi-modbot/services"
)

func initRoutes(mux *http.ServeMux, h *Handlers, authService services.AuthService, platformClient platform.Client) {
	authMw := middleware.NewAuthMiddleware(authService)
	serverMw := middleware.NewServerScopeMiddleware(platformClient)

	authServer := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(serverMw.Require(handler))
	}

	mux.HandleFunc("GET /api/health", h.Health.Check)

	mux.Handle("POST /api/servers/{serverId}/interactions", authServer(h.Interaction.Handle))

	// token comes in the query string, see ws.Handler
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)
}
