// Package services, PromotionService: grants promotable roles and records them.
//
// Promote flow:
//  1. Staff gate
//  2. Role must be one of the server's promotable roles
//  3. Role granted on the platform
//  4. Promotion record created
//  5. Notice to action + log
//
// A rejection at 1 or 2 grants nothing and records nothing.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
	"github.com/akinalp/mqvi-modbot/pkg/caseid"
	"github.com/akinalp/mqvi-modbot/platform"
	"github.com/akinalp/mqvi-modbot/repository"
)

// PromotionService, promotion commands.
type PromotionService interface {
	Promote(ctx context.Context, serverID, actorID, subjectUserID, roleID string) (*models.Promotion, error)
	GetByCaseID(ctx context.Context, serverID, actorID, caseID string) (*models.Promotion, error)
	ListBySubject(ctx context.Context, serverID, actorID, userID string) ([]models.Promotion, error)
}

type promotionService struct {
	promotionRepo repository.PromotionRepository
	perms         PermissionService
	platform      platform.Client
	dispatcher    Dispatcher
	newCaseID     caseid.Generator
}

// NewPromotionService, creates the promotion service.
func NewPromotionService(
	promotionRepo repository.PromotionRepository,
	perms PermissionService,
	platformClient platform.Client,
	dispatcher Dispatcher,
	newCaseID caseid.Generator,
) PromotionService {
	return &promotionService{
		promotionRepo: promotionRepo,
		perms:         perms,
		platform:      platformClient,
		dispatcher:    dispatcher,
		newCaseID:     newCaseID,
	}
}

func (s *promotionService) Promote(ctx context.Context, serverID, actorID, subjectUserID, roleID string) (*models.Promotion, error) {
	cfg, err := s.perms.RequireStaff(ctx, serverID, actorID)
	if err != nil {
		return nil, err
	}

	if subjectUserID == "" || roleID == "" {
		return nil, fmt.Errorf("%w: user and role are required", pkg.ErrBadRequest)
	}
	if !cfg.IsPromotable(roleID) {
		return nil, ErrRoleNotPromotable
	}

	if err := s.platform.GrantRole(ctx, serverID, subjectUserID, roleID); err != nil {
		switch {
		case errors.Is(err, platform.ErrRoleNotFound):
			return nil, fmt.Errorf("%w: role no longer exists on this server", pkg.ErrBadRequest)
		case errors.Is(err, pkg.ErrNotFound):
			return nil, fmt.Errorf("%w: user is not a member of this server", pkg.ErrBadRequest)
		}
		return nil, fmt.Errorf("failed to grant role: %w", stripSentinel(err))
	}

	caseID, err := s.newCaseID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate case id: %w", err)
	}

	p := &models.Promotion{
		ID:             uuid.New().String(),
		CaseID:         caseID,
		ServerID:       serverID,
		SubjectUserID:  subjectUserID,
		RoleID:         roleID,
		PromoterUserID: actorID,
		Active:         true,
		CreatedAt:      time.Now().UTC(),
	}

	// The role is already granted at this point; a failed insert leaves it in
	// place and fails the request.
	if err := s.promotionRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	s.dispatcher.Notify(ctx, cfg, models.TargetAction|models.TargetLog, promotionIssuedNotice(p))

	return p, nil
}

func (s *promotionService) GetByCaseID(ctx context.Context, serverID, actorID, caseID string) (*models.Promotion, error) {
	if _, err := s.perms.RequireStaff(ctx, serverID, actorID); err != nil {
		return nil, err
	}

	caseID, err := normalizeCaseID(caseID)
	if err != nil {
		return nil, err
	}

	p, err := s.promotionRepo.GetByCaseID(ctx, serverID, caseID)
	if err != nil {
		return nil, caseLookupError(err)
	}
	return p, nil
}

// ListBySubject, newest first, at most LookupLimit records.
func (s *promotionService) ListBySubject(ctx context.Context, serverID, actorID, userID string) ([]models.Promotion, error) {
	if _, err := s.perms.RequireStaff(ctx, serverID, actorID); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", pkg.ErrBadRequest)
	}

	promotions, err := s.promotionRepo.ListBySubject(ctx, serverID, userID, LookupLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promotions, nil
}
