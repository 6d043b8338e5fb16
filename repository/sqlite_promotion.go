package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
)

const promotionColumns = `id, case_id, server_id, subject_user_id, role_id, promoter_user_id,
	active, created_at, revoked_at, revoked_by`

type sqlitePromotionRepo struct {
	db *sql.DB
}

// NewSQLitePromotionRepo, SQLite implementation of PromotionRepository.
func NewSQLitePromotionRepo(db *sql.DB) PromotionRepository {
	return &sqlitePromotionRepo{db: db}
}

func (r *sqlitePromotionRepo) Create(ctx context.Context, p *models.Promotion) error {
	query := `
		INSERT INTO promotions (id, case_id, server_id, subject_user_id, role_id, promoter_user_id, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.CaseID, p.ServerID, p.SubjectUserID, p.RoleID, p.PromoterUserID,
		p.Active, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: promotion case id %s", pkg.ErrAlreadyExists, p.CaseID)
		}
		return fmt.Errorf("failed to create promotion: %w", err)
	}

	return nil
}

func (r *sqlitePromotionRepo) GetByCaseID(ctx context.Context, serverID, caseID string) (*models.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE server_id = ? AND case_id = ?`

	p, err := scanPromotion(r.db.QueryRowContext(ctx, query, serverID, caseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get promotion by case id: %w", err)
	}

	return p, nil
}

func (r *sqlitePromotionRepo) ListBySubject(ctx context.Context, serverID, userID string, limit int) ([]models.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions
		WHERE server_id = ? AND subject_user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, serverID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	defer rows.Close()

	var promotions []models.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan promotion row: %w", err)
		}
		promotions = append(promotions, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating promotion rows: %w", err)
	}

	return promotions, nil
}

func scanPromotion(row rowScanner) (*models.Promotion, error) {
	var p models.Promotion
	var revokedAt sql.NullTime
	var revokedBy sql.NullString

	if err := row.Scan(
		&p.ID, &p.CaseID, &p.ServerID, &p.SubjectUserID, &p.RoleID, &p.PromoterUserID,
		&p.Active, &p.CreatedAt, &revokedAt, &revokedBy,
	); err != nil {
		return nil, err
	}

	if revokedAt.Valid {
		t := revokedAt.Time
		p.RevokedAt = &t
	}
	p.RevokedBy = nullableString(revokedBy)

	return &p, nil
}
