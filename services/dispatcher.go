// Package services, Dispatcher: delivers moderation notices.
//
// Destinations of one notice:
//   - action channel (when targeted and configured)
//   - log channel (when targeted and configured)
//   - live feed subscribers of the server (always)
//   - audit mail (log-targeted notices, when a mailer is configured)
//
// Every delivery is best-effort. A failed send is logged and skipped; Notify
// never returns an error and never retries, so a broken channel can't undo
// or fail the command that produced the notice.
package services

import (
	"context"
	"log"

	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg/email"
	"github.com/akinalp/mqvi-modbot/platform"
	"github.com/akinalp/mqvi-modbot/ws"
)

// Dispatcher, notice delivery.
type Dispatcher interface {
	Notify(ctx context.Context, cfg *models.GuildConfig, targets models.NoticeTarget, notice *models.Notice)
}

type dispatcher struct {
	platform platform.Client
	hub      ws.EventPublisher
	mailer   email.AuditMailer // nil when audit mail is disabled
}

// NewDispatcher, creates the dispatcher. mailer may be nil.
func NewDispatcher(platformClient platform.Client, hub ws.EventPublisher, mailer email.AuditMailer) Dispatcher {
	return &dispatcher{
		platform: platformClient,
		hub:      hub,
		mailer:   mailer,
	}
}

func (d *dispatcher) Notify(ctx context.Context, cfg *models.GuildConfig, targets models.NoticeTarget, notice *models.Notice) {
	content := notice.Render()

	if targets.Has(models.TargetAction) && cfg.ActionChannelID != nil {
		d.send(ctx, cfg.ServerID, *cfg.ActionChannelID, "action", notice, content)
	}
	if targets.Has(models.TargetLog) && cfg.LogChannelID != nil {
		d.send(ctx, cfg.ServerID, *cfg.LogChannelID, "log", notice, content)
	}

	d.hub.BroadcastToServer(cfg.ServerID, ws.Event{
		Op:   string(notice.Kind),
		Data: notice,
	})

	if targets.Has(models.TargetLog) && d.mailer != nil {
		if err := d.mailer.SendAuditNotice(ctx, cfg.ServerID, notice); err != nil {
			log.Printf("[dispatcher] audit mail failed: server=%s kind=%s: %v", cfg.ServerID, notice.Kind, err)
		}
	}
}

func (d *dispatcher) send(ctx context.Context, serverID, channelID, dest string, notice *models.Notice, content string) {
	if err := d.platform.SendMessage(ctx, serverID, channelID, content); err != nil {
		log.Printf("[dispatcher] %s notice dropped: server=%s channel=%s kind=%s: %v",
			dest, serverID, channelID, notice.Kind, err)
	}
}
