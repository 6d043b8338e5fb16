package repository

import (
	"context"

	"github.com/akinalp/mqvi-modbot/models"
)

// GuildConfigRepository, persistence of per-server moderation settings.
// Every operation is scoped by serverID.
type GuildConfigRepository interface {
	// GetOrCreate, returns the server's config, creating an empty one on first use.
	// Repeated calls without a write in between return equal values.
	GetOrCreate(ctx context.Context, serverID string) (*models.GuildConfig, error)

	// ─── Write (owner-only commands) ───
	SetStaffRole(ctx context.Context, serverID, roleID string) error
	SetActionChannel(ctx context.Context, serverID, channelID string) error
	SetLogChannel(ctx context.Context, serverID, channelID string) error

	// SetPromotableRoles, replaces the whole ordered list atomically.
	SetPromotableRoles(ctx context.Context, serverID string, roleIDs []string) error
}
