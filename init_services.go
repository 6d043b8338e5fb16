// Package main: service wiring.
package main

import (
	"log"

	"github.com/akinalp/mqvi-modbot/config"
	"github.com/akinalp/mqvi-modbot/pkg/caseid"
	"github.com/akinalp/mqvi-modbot/pkg/email"
	"github.com/akinalp/mqvi-modbot/platform"
	"github.com/akinalp/mqvi-modbot/services"
	"github.com/akinalp/mqvi-modbot/ws"
)

// Services, every service instance.
type Services struct {
	Auth        services.AuthService
	Permission  services.PermissionService
	GuildConfig services.GuildConfigService
	Infraction  services.InfractionService
	Promotion   services.PromotionService
}

// initServices, builds the services. Order follows the dependency graph:
// platform client → permission gate → dispatcher → command services.
func initServices(cfg *config.Config, repos *Repositories, platformClient platform.Client, hub *ws.Hub) *Services {
	// nil interface (not a typed nil) when audit mail is off
	var mailer email.AuditMailer
	if cfg.Audit.Enabled() {
		mailer = email.NewResendMailer(cfg.Audit.ResendAPIKey, cfg.Audit.FromEmail, cfg.Audit.ToEmails)
		log.Printf("[main] audit mail enabled (%d recipients)", len(cfg.Audit.ToEmails))
	}

	permission := services.NewPermissionService(repos.GuildConfig, platformClient)
	dispatcher := services.NewDispatcher(platformClient, hub, mailer)

	return &Services{
		Auth:        services.NewAuthService(cfg.JWT.Secret),
		Permission:  permission,
		GuildConfig: services.NewGuildConfigService(repos.GuildConfig, permission),
		Infraction:  services.NewInfractionService(repos.Infraction, permission, dispatcher, caseid.New),
		Promotion:   services.NewPromotionService(repos.Promotion, permission, platformClient, dispatcher, caseid.New),
	}
}
