package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/akinalp/mqvi-modbot/database"
	"github.com/akinalp/mqvi-modbot/models"
)

// Columns of guild_configs that single-value setters may write.
const (
	colStaffRole     = "staff_role_id"
	colActionChannel = "action_channel_id"
	colLogChannel    = "log_channel_id"
)

type sqliteGuildConfigRepo struct {
	db *sql.DB
}

// NewSQLiteGuildConfigRepo, SQLite implementation of GuildConfigRepository.
func NewSQLiteGuildConfigRepo(db *sql.DB) GuildConfigRepository {
	return &sqliteGuildConfigRepo{db: db}
}

func (r *sqliteGuildConfigRepo) GetOrCreate(ctx context.Context, serverID string) (*models.GuildConfig, error) {
	now := time.Now().UTC()

	// ON CONFLICT DO NOTHING: two first-time commands racing on the same server
	// both end up reading the single row.
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO guild_configs (server_id, created_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(server_id) DO NOTHING`,
		serverID, now, now,
	); err != nil {
		return nil, fmt.Errorf("failed to create guild config: %w", err)
	}

	cfg := &models.GuildConfig{ServerID: serverID}
	var staffRole, actionChannel, logChannel sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT staff_role_id, action_channel_id, log_channel_id, created_at, updated_at
		FROM guild_configs WHERE server_id = ?`,
		serverID,
	).Scan(&staffRole, &actionChannel, &logChannel, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}

	cfg.StaffRoleID = nullableString(staffRole)
	cfg.ActionChannelID = nullableString(actionChannel)
	cfg.LogChannelID = nullableString(logChannel)

	roles, err := r.promotableRoles(ctx, r.db, serverID)
	if err != nil {
		return nil, err
	}
	cfg.PromotableRoleIDs = roles

	return cfg, nil
}

func (r *sqliteGuildConfigRepo) SetStaffRole(ctx context.Context, serverID, roleID string) error {
	return r.setColumn(ctx, serverID, colStaffRole, roleID)
}

func (r *sqliteGuildConfigRepo) SetActionChannel(ctx context.Context, serverID, channelID string) error {
	return r.setColumn(ctx, serverID, colActionChannel, channelID)
}

func (r *sqliteGuildConfigRepo) SetLogChannel(ctx context.Context, serverID, channelID string) error {
	return r.setColumn(ctx, serverID, colLogChannel, channelID)
}

// SetPromotableRoles, DELETE + INSERT in one transaction so readers never see
// a half-written list.
func (r *sqliteGuildConfigRepo) SetPromotableRoles(ctx context.Context, serverID string, roleIDs []string) error {
	now := time.Now().UTC()

	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO guild_configs (server_id, created_at, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(server_id) DO UPDATE SET updated_at = excluded.updated_at`,
			serverID, now, now,
		); err != nil {
			return fmt.Errorf("failed to upsert guild config: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM guild_config_promotion_roles WHERE server_id = ?`, serverID,
		); err != nil {
			return fmt.Errorf("failed to clear promotion roles: %w", err)
		}

		for pos, roleID := range roleIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO guild_config_promotion_roles (server_id, position, role_id)
				VALUES (?, ?, ?)`,
				serverID, pos, roleID,
			); err != nil {
				return fmt.Errorf("failed to insert promotion role: %w", err)
			}
		}

		return nil
	})
}

// setColumn, upserts a single optional column. column is always one of the
// col* constants above, never user input.
func (r *sqliteGuildConfigRepo) setColumn(ctx context.Context, serverID, column, value string) error {
	now := time.Now().UTC()

	query := fmt.Sprintf(`
		INSERT INTO guild_configs (server_id, %[1]s, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(server_id) DO UPDATE SET %[1]s = excluded.%[1]s, updated_at = excluded.updated_at`,
		column)

	if _, err := r.db.ExecContext(ctx, query, serverID, value, now, now); err != nil {
		return fmt.Errorf("failed to set %s: %w", column, err)
	}

	return nil
}

func (r *sqliteGuildConfigRepo) promotableRoles(ctx context.Context, q database.TxQuerier, serverID string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT role_id FROM guild_config_promotion_roles
		WHERE server_id = ? ORDER BY position`,
		serverID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get promotion roles: %w", err)
	}
	defer rows.Close()

	roles := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan promotion role: %w", err)
		}
		roles = append(roles, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating promotion roles: %w", err)
	}

	return roles, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
