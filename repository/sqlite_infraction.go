package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
)

const infractionColumns = `id, case_id, server_id, subject_user_id, issuer_user_id, reason,
	active, created_at, revoked_at, revoked_by`

type sqliteInfractionRepo struct {
	db *sql.DB
}

// NewSQLiteInfractionRepo, SQLite implementation of InfractionRepository.
func NewSQLiteInfractionRepo(db *sql.DB) InfractionRepository {
	return &sqliteInfractionRepo{db: db}
}

func (r *sqliteInfractionRepo) Create(ctx context.Context, inf *models.Infraction) error {
	query := `
		INSERT INTO infractions (id, case_id, server_id, subject_user_id, issuer_user_id, reason, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		inf.ID, inf.CaseID, inf.ServerID, inf.SubjectUserID, inf.IssuerUserID,
		inf.Reason, inf.Active, inf.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: infraction case id %s", pkg.ErrAlreadyExists, inf.CaseID)
		}
		return fmt.Errorf("failed to create infraction: %w", err)
	}

	return nil
}

func (r *sqliteInfractionRepo) GetByCaseID(ctx context.Context, serverID, caseID string) (*models.Infraction, error) {
	query := `SELECT ` + infractionColumns + ` FROM infractions WHERE server_id = ? AND case_id = ?`

	inf, err := scanInfraction(r.db.QueryRowContext(ctx, query, serverID, caseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get infraction by case id: %w", err)
	}

	return inf, nil
}

func (r *sqliteInfractionRepo) ListBySubject(ctx context.Context, serverID, userID string, limit int) ([]models.Infraction, error) {
	query := `SELECT ` + infractionColumns + ` FROM infractions
		WHERE server_id = ? AND subject_user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, serverID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list infractions: %w", err)
	}
	defer rows.Close()

	var infractions []models.Infraction
	for rows.Next() {
		inf, err := scanInfraction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan infraction row: %w", err)
		}
		infractions = append(infractions, *inf)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating infraction rows: %w", err)
	}

	return infractions, nil
}

// Revoke, the WHERE active = 1 guard makes the transition happen at most once.
func (r *sqliteInfractionRepo) Revoke(ctx context.Context, serverID, caseID, revokedBy string, at time.Time) (*models.Infraction, error) {
	query := `
		UPDATE infractions SET active = 0, revoked_at = ?, revoked_by = ?
		WHERE server_id = ? AND case_id = ? AND active = 1
		RETURNING ` + infractionColumns

	inf, err := scanInfraction(r.db.QueryRowContext(ctx, query, at, revokedBy, serverID, caseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to revoke infraction: %w", err)
	}

	return inf, nil
}

func scanInfraction(row rowScanner) (*models.Infraction, error) {
	var inf models.Infraction
	var revokedAt sql.NullTime
	var revokedBy sql.NullString

	if err := row.Scan(
		&inf.ID, &inf.CaseID, &inf.ServerID, &inf.SubjectUserID, &inf.IssuerUserID, &inf.Reason,
		&inf.Active, &inf.CreatedAt, &revokedAt, &revokedBy,
	); err != nil {
		return nil, err
	}

	if revokedAt.Valid {
		t := revokedAt.Time
		inf.RevokedAt = &t
	}
	inf.RevokedBy = nullableString(revokedBy)

	return &inf, nil
}
