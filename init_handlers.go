// Package main: handler wiring.
package main

import (
	"github.com/akinalp/mqvi-modbot/handlers"
	"github.com/akinalp/mqvi-modbot/ws"
)

// Handlers, every HTTP handler.
type Handlers struct {
	Health      *handlers.HealthHandler
	Interaction *handlers.InteractionHandler
	WS          *ws.Handler
}

func initHandlers(svcs *Services, hub *ws.Hub, driver string) *Handlers {
	return &Handlers{
		Health:      handlers.NewHealthHandler(driver),
		Interaction: handlers.NewInteractionHandler(svcs.GuildConfig, svcs.Infraction, svcs.Promotion),
		WS:          ws.NewHandler(hub, svcs.Auth, svcs.Permission),
	}
}
