package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
)

var _ domain.PreferenceStore = (*PostgresPreferenceRepository)(nil)

type PostgresPreferenceRepository struct {
	db *sqlx.DB
}

func NewPostgresPreferenceRepository(db *sqlx.DB) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

func (r *PostgresPreferenceRepository) Get(ctx context.Context, userID, key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM preferences WHERE user_id = $1 AND key = $2`

	if err := r.db.GetContext(ctx, &value, query, userID, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, true, nil
}

func (r *PostgresPreferenceRepository) Set(ctx context.Context, userID, key, value string) error {
	query := `
		INSERT INTO preferences (user_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, userID, key, value); err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}
