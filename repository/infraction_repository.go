package repository

import (
	"context"
	"time"

	"github.com/akinalp/mqvi-modbot/models"
)

// InfractionRepository, persistence of infraction records.
type InfractionRepository interface {
	// Create, inserts a new record. A duplicate case id returns pkg.ErrAlreadyExists
	// and never overwrites the existing record.
	Create(ctx context.Context, inf *models.Infraction) error

	// GetByCaseID, returns pkg.ErrNotFound when the case id is unknown in serverID.
	GetByCaseID(ctx context.Context, serverID, caseID string) (*models.Infraction, error)

	// ListBySubject, newest first, at most limit rows.
	ListBySubject(ctx context.Context, serverID, userID string, limit int) ([]models.Infraction, error)

	// Revoke, flips an ACTIVE record to inactive in a single conditional update
	// and returns the updated record. Unknown or already inactive → pkg.ErrNotFound.
	// Two concurrent revokes of the same case cannot both succeed.
	Revoke(ctx context.Context, serverID, caseID, revokedBy string, at time.Time) (*models.Infraction, error)
}
