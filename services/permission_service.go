// Package services, PermissionService: the owner gate and the staff gate.
//
// Two independent gates:
//   - Owner gate: the four configuration commands. Only the server owner passes.
//     Not role based; a staff role does not help.
//   - Staff gate: moderation commands. Passes when a staff role is configured
//     AND the actor currently holds it on the platform.
//
// The owner is NOT implicitly staff. An owner who wants to moderate gives
// themselves the staff role like everybody else.
//
// Both checks hit the platform on every call. Nothing is cached, so a role
// removed on the platform takes effect on the very next command.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
	"github.com/akinalp/mqvi-modbot/platform"
	"github.com/akinalp/mqvi-modbot/repository"
)

// PermissionService, gate checks for commands and feed subscriptions.
type PermissionService interface {
	// RequireOwner, nil when userID owns serverID, ErrOwnerOnly otherwise.
	RequireOwner(ctx context.Context, serverID, userID string) error

	// HasStaffPermission, false when cfg has no staff role; otherwise a live
	// role-membership check.
	HasStaffPermission(ctx context.Context, userID string, cfg *models.GuildConfig) (bool, error)

	// RequireStaff, loads (or creates) the server config and runs the staff
	// gate. Returns the config so the caller doesn't load it twice.
	RequireStaff(ctx context.Context, serverID, userID string) (*models.GuildConfig, error)

	// CanSubscribe, feed access: staff or owner.
	CanSubscribe(ctx context.Context, serverID, userID string) (bool, error)
}

type permissionService struct {
	configRepo repository.GuildConfigRepository
	platform   platform.Client
}

// NewPermissionService, creates the gate service.
func NewPermissionService(configRepo repository.GuildConfigRepository, platformClient platform.Client) PermissionService {
	return &permissionService{
		configRepo: configRepo,
		platform:   platformClient,
	}
}

func (s *permissionService) RequireOwner(ctx context.Context, serverID, userID string) error {
	ok, err := s.isOwner(ctx, serverID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOwnerOnly
	}
	return nil
}

func (s *permissionService) HasStaffPermission(ctx context.Context, userID string, cfg *models.GuildConfig) (bool, error) {
	if cfg.StaffRoleID == nil || *cfg.StaffRoleID == "" {
		return false, nil
	}

	held, err := s.platform.HasRole(ctx, cfg.ServerID, userID, *cfg.StaffRoleID)
	if err != nil {
		// Not a member of the server → certainly not staff.
		if errors.Is(err, pkg.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check staff role: %w", stripSentinel(err))
	}
	return held, nil
}

func (s *permissionService) RequireStaff(ctx context.Context, serverID, userID string) (*models.GuildConfig, error) {
	cfg, err := s.configRepo.GetOrCreate(ctx, serverID)
	if err != nil {
		return nil, err
	}

	ok, err := s.HasStaffPermission(ctx, userID, cfg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotStaff
	}
	return cfg, nil
}

func (s *permissionService) CanSubscribe(ctx context.Context, serverID, userID string) (bool, error) {
	owner, err := s.isOwner(ctx, serverID, userID)
	if err != nil {
		return false, err
	}
	if owner {
		return true, nil
	}

	cfg, err := s.configRepo.GetOrCreate(ctx, serverID)
	if err != nil {
		return false, err
	}
	return s.HasStaffPermission(ctx, userID, cfg)
}

func (s *permissionService) isOwner(ctx context.Context, serverID, userID string) (bool, error) {
	server, err := s.platform.GetServer(ctx, serverID)
	if err != nil {
		// unknown server: nobody owns it
		if errors.Is(err, pkg.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get server owner: %w", stripSentinel(err))
	}
	return server.IsOwner(userID), nil
}

// stripSentinel, drops the pkg error class from a platform error.
// A platform 401/403 is a bot-token problem: it must fail the request, never
// reach the actor as a "No permission." reply.
func stripSentinel(err error) error {
	return errors.New(err.Error())
}
