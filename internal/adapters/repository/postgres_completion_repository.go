package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
)

var _ domain.CompletionRepository = (*PostgresCompletionRepository)(nil)

type PostgresCompletionRepository struct {
	db *sqlx.DB
}

func NewPostgresCompletionRepository(db *sqlx.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{db: db}
}

func (r *PostgresCompletionRepository) Create(ctx context.Context, c *domain.Completion) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := c.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO completions (id, habit_id, user_id, day, created_at)
		VALUES (:id, :habit_id, :user_id, :day, :created_at)
		ON CONFLICT (habit_id, day) DO NOTHING`

	_, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return errors.New("referenced habit or user does not exist")
		}
		return fmt.Errorf("failed to insert completion: %w", err)
	}
	return nil
}

func (r *PostgresCompletionRepository) DeleteForDay(ctx context.Context, habitID string, day time.Time) error {
	query := `DELETE FROM completions WHERE habit_id = $1 AND day = $2`

	if _, err := r.db.ExecContext(ctx, query, habitID, domain.CalendarDay(day)); err != nil {
		return fmt.Errorf("failed to delete completion: %w", err)
	}
	return nil
}

func (r *PostgresCompletionRepository) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}

	query := `
		SELECT id, habit_id, user_id, day, created_at FROM completions
		WHERE user_id = $1
		  AND day >= $2
		  AND day <= $3
		ORDER BY day ASC`

	err := r.db.SelectContext(ctx, &completions, query, userID, domain.CalendarDay(from), domain.CalendarDay(to))
	if err != nil {
		return nil, err
	}
	return completions, nil
}
