// Package models, GuildConfig: per-server moderation configuration.
//
// GuildConfig is created lazily the first time any command runs in a server
// and is never deleted. Only the server owner can change it.
package models

import "time"

// MaxPromotableRoles, the number of role slots createpromotionreq exposes (role1..role6).
const MaxPromotableRoles = 6

// GuildConfig, moderation settings of a single server.
//
// Pointer fields are optional: nil means "not configured".
//   - StaffRoleID nil → nobody passes the staff gate
//   - ActionChannelID / LogChannelID nil → that notice is skipped
type GuildConfig struct {
	ServerID          string    `json:"server_id" bson:"server_id"`
	StaffRoleID       *string   `json:"staff_role_id" bson:"staff_role_id,omitempty"`
	ActionChannelID   *string   `json:"action_channel_id" bson:"action_channel_id,omitempty"`
	LogChannelID      *string   `json:"log_channel_id" bson:"log_channel_id,omitempty"`
	PromotableRoleIDs []string  `json:"promotable_role_ids" bson:"promotable_role_ids"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// IsPromotable, reports whether roleID is one of the configured promotion targets.
func (c *GuildConfig) IsPromotable(roleID string) bool {
	for _, id := range c.PromotableRoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// NormalizeRoleIDs, drops empty entries and duplicates while keeping option order.
//
// createpromotionreq sends role1..role6 where only role1 is required;
// absent options arrive as empty strings and must not be stored.
func NormalizeRoleIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
