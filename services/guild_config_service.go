// Package services, GuildConfigService: owner-only server configuration.
//
// addrole / setchannel / setlogs / createpromotionreq all land here.
// Every setter runs the owner gate first and writes nothing on rejection.
package services

import (
	"context"
	"fmt"

	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
	"github.com/akinalp/mqvi-modbot/repository"
)

// GuildConfigService, configuration reads and owner-only writes.
type GuildConfigService interface {
	// Get, returns the server's config, creating an empty one on first use.
	Get(ctx context.Context, serverID string) (*models.GuildConfig, error)

	SetStaffRole(ctx context.Context, serverID, actorID, roleID string) error
	SetActionChannel(ctx context.Context, serverID, actorID, channelID string) error
	SetLogChannel(ctx context.Context, serverID, actorID, channelID string) error

	// SetPromotableRoles, replaces the promotion targets with the given roles
	// (empty and duplicate entries dropped, order kept). Returns the stored list.
	SetPromotableRoles(ctx context.Context, serverID, actorID string, roleIDs []string) ([]string, error)
}

type guildConfigService struct {
	configRepo repository.GuildConfigRepository
	perms      PermissionService
}

// NewGuildConfigService, creates the config service.
func NewGuildConfigService(configRepo repository.GuildConfigRepository, perms PermissionService) GuildConfigService {
	return &guildConfigService{
		configRepo: configRepo,
		perms:      perms,
	}
}

func (s *guildConfigService) Get(ctx context.Context, serverID string) (*models.GuildConfig, error) {
	return s.configRepo.GetOrCreate(ctx, serverID)
}

func (s *guildConfigService) SetStaffRole(ctx context.Context, serverID, actorID, roleID string) error {
	if err := s.prepare(ctx, serverID, actorID, "role", roleID); err != nil {
		return err
	}
	return s.configRepo.SetStaffRole(ctx, serverID, roleID)
}

func (s *guildConfigService) SetActionChannel(ctx context.Context, serverID, actorID, channelID string) error {
	if err := s.prepare(ctx, serverID, actorID, "channel", channelID); err != nil {
		return err
	}
	return s.configRepo.SetActionChannel(ctx, serverID, channelID)
}

func (s *guildConfigService) SetLogChannel(ctx context.Context, serverID, actorID, channelID string) error {
	if err := s.prepare(ctx, serverID, actorID, "channel", channelID); err != nil {
		return err
	}
	return s.configRepo.SetLogChannel(ctx, serverID, channelID)
}

func (s *guildConfigService) SetPromotableRoles(ctx context.Context, serverID, actorID string, roleIDs []string) ([]string, error) {
	if err := s.perms.RequireOwner(ctx, serverID, actorID); err != nil {
		return nil, err
	}

	roles := models.NormalizeRoleIDs(roleIDs)
	if len(roles) == 0 {
		return nil, fmt.Errorf("%w: at least one role is required", pkg.ErrBadRequest)
	}
	if len(roles) > models.MaxPromotableRoles {
		return nil, fmt.Errorf("%w: at most %d roles", pkg.ErrBadRequest, models.MaxPromotableRoles)
	}

	if err := s.configRepo.SetPromotableRoles(ctx, serverID, roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// prepare, owner gate + non-empty check shared by the single-value setters.
func (s *guildConfigService) prepare(ctx context.Context, serverID, actorID, option, value string) error {
	if err := s.perms.RequireOwner(ctx, serverID, actorID); err != nil {
		return err
	}
	if value == "" {
		return fmt.Errorf("%w: %s is required", pkg.ErrBadRequest, option)
	}
	return nil
}
