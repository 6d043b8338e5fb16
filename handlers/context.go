// Package handlers holds the HTTP handlers of the add-on.
//
// Handlers stay thin: parse the request, call a service, write the response
// with pkg.JSON / pkg.Error. Rules live in services.
package handlers

// contextKey, a private type so context keys can't collide with other packages.
type contextKey string

// ClaimsContextKey, the validated *models.TokenClaims. Set by AuthMiddleware.
const ClaimsContextKey contextKey = "claims"

// ServerIDContextKey, the {serverId} of a server-scoped route.
// Set by ServerScopeMiddleware after the membership check.
const ServerIDContextKey contextKey = "server_id"
