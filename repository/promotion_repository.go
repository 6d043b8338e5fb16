package repository

import (
	"context"

	"github.com/akinalp/mqvi-modbot/models"
)

// PromotionRepository, persistence of promotion records.
type PromotionRepository interface {
	// Create, a duplicate case id returns pkg.ErrAlreadyExists.
	Create(ctx context.Context, p *models.Promotion) error

	// GetByCaseID, returns pkg.ErrNotFound when unknown in serverID.
	GetByCaseID(ctx context.Context, serverID, caseID string) (*models.Promotion, error)

	// ListBySubject, newest first, at most limit rows.
	ListBySubject(ctx context.Context, serverID, userID string, limit int) ([]models.Promotion, error)
}
