// Package services, InfractionService: issue, revoke and look up infractions.
//
// Lifecycle:
//
//	Issue  → record created Active=true → notice to action + log
//	Revoke → Active=true → false (once) → notice to log only
//
// All operations are staff-gated. Revocation is terminal.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
	"github.com/akinalp/mqvi-modbot/pkg/caseid"
	"github.com/akinalp/mqvi-modbot/repository"
)

// LookupLimit, max records returned by a "list" lookup.
const LookupLimit = 10

// InfractionService, infraction commands.
type InfractionService interface {
	Issue(ctx context.Context, serverID, actorID string, req *models.IssueInfractionRequest) (*models.Infraction, error)

	// Revoke, unknown, malformed or already inactive case ids → ErrInvalidCase.
	Revoke(ctx context.Context, serverID, actorID, caseID string) (*models.Infraction, error)

	GetByCaseID(ctx context.Context, serverID, actorID, caseID string) (*models.Infraction, error)
	ListBySubject(ctx context.Context, serverID, actorID, userID string) ([]models.Infraction, error)
}

type infractionService struct {
	infractionRepo repository.InfractionRepository
	perms          PermissionService
	dispatcher     Dispatcher
	newCaseID      caseid.Generator
}

// NewInfractionService, creates the infraction service.
// newCaseID is caseid.New in production.
func NewInfractionService(
	infractionRepo repository.InfractionRepository,
	perms PermissionService,
	dispatcher Dispatcher,
	newCaseID caseid.Generator,
) InfractionService {
	return &infractionService{
		infractionRepo: infractionRepo,
		perms:          perms,
		dispatcher:     dispatcher,
		newCaseID:      newCaseID,
	}
}

func (s *infractionService) Issue(ctx context.Context, serverID, actorID string, req *models.IssueInfractionRequest) (*models.Infraction, error) {
	cfg, err := s.perms.RequireStaff(ctx, serverID, actorID)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", pkg.ErrBadRequest, err)
	}

	caseID, err := s.newCaseID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate case id: %w", err)
	}

	inf := &models.Infraction{
		ID:            uuid.New().String(),
		CaseID:        caseID,
		ServerID:      serverID,
		SubjectUserID: req.SubjectUserID,
		IssuerUserID:  actorID,
		Reason:        req.Reason,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}

	// A case id collision comes back as pkg.ErrAlreadyExists. It is not a
	// rejection and not retried: the request fails.
	if err := s.infractionRepo.Create(ctx, inf); err != nil {
		return nil, fmt.Errorf("failed to create infraction: %w", err)
	}

	s.dispatcher.Notify(ctx, cfg, models.TargetAction|models.TargetLog, infractionIssuedNotice(inf))

	return inf, nil
}

func (s *infractionService) Revoke(ctx context.Context, serverID, actorID, caseID string) (*models.Infraction, error) {
	cfg, err := s.perms.RequireStaff(ctx, serverID, actorID)
	if err != nil {
		return nil, err
	}

	caseID, err = normalizeCaseID(caseID)
	if err != nil {
		return nil, err
	}

	inf, err := s.infractionRepo.Revoke(ctx, serverID, caseID, actorID, time.Now().UTC())
	if err != nil {
		return nil, caseLookupError(err)
	}

	s.dispatcher.Notify(ctx, cfg, models.TargetLog, infractionRevokedNotice(inf))

	return inf, nil
}

func (s *infractionService) GetByCaseID(ctx context.Context, serverID, actorID, caseID string) (*models.Infraction, error) {
	if _, err := s.perms.RequireStaff(ctx, serverID, actorID); err != nil {
		return nil, err
	}

	caseID, err := normalizeCaseID(caseID)
	if err != nil {
		return nil, err
	}

	inf, err := s.infractionRepo.GetByCaseID(ctx, serverID, caseID)
	if err != nil {
		return nil, caseLookupError(err)
	}
	return inf, nil
}

func (s *infractionService) ListBySubject(ctx context.Context, serverID, actorID, userID string) ([]models.Infraction, error) {
	if _, err := s.perms.RequireStaff(ctx, serverID, actorID); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", pkg.ErrBadRequest)
	}

	infractions, err := s.infractionRepo.ListBySubject(ctx, serverID, userID, LookupLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list infractions: %w", err)
	}
	return infractions, nil
}

// normalizeCaseID, trims and lowercases user input; malformed ids can't exist
// in the store, so they are rejected without a query.
func normalizeCaseID(raw string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(raw))
	if !caseid.Valid(id) {
		return "", ErrInvalidCase
	}
	return id, nil
}

// caseLookupError, store "not found" → ErrInvalidCase; anything else passes through.
func caseLookupError(err error) error {
	if errors.Is(err, pkg.ErrNotFound) {
		return ErrInvalidCase
	}
	return err
}
