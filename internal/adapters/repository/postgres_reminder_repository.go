package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
)

var _ domain.ReminderRepository = (*PostgresReminderRepository)(nil)

const reminderColumns = `habit_id, user_id, habit_name, emoji, reminder_time, timezone,
		next_fire_at, last_fired_at, created_at, updated_at`

type PostgresReminderRepository struct {
	db *sqlx.DB
}

func NewPostgresReminderRepository(db *sqlx.DB) *PostgresReminderRepository {
	return &PostgresReminderRepository{db: db}
}

// Upsert keeps one row per habit; re-scheduling replaces the previous trigger.
func (r *PostgresReminderRepository) Upsert(ctx context.Context, rem *domain.Reminder) error {
	now := time.Now().UTC()
	if rem.CreatedAt.IsZero() {
		rem.CreatedAt = now
	}
	rem.UpdatedAt = now

	query := `
		INSERT INTO reminders (` + reminderColumns + `)
		VALUES (
			:habit_id, :user_id, :habit_name, :emoji, :reminder_time, :timezone,
			:next_fire_at, :last_fired_at, :created_at, :updated_at
		)
		ON CONFLICT (habit_id) DO UPDATE SET
			habit_name = EXCLUDED.habit_name,
			emoji = EXCLUDED.emoji,
			reminder_time = EXCLUDED.reminder_time,
			timezone = EXCLUDED.timezone,
			next_fire_at = EXCLUDED.next_fire_at,
			last_fired_at = EXCLUDED.last_fired_at,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, rem); err != nil {
		return fmt.Errorf("failed to upsert reminder: %w", err)
	}
	return nil
}

func (r *PostgresReminderRepository) Get(ctx context.Context, habitID string) (*domain.Reminder, error) {
	var rem domain.Reminder
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE habit_id = $1`

	if err := r.db.GetContext(ctx, &rem, query, habitID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReminderNotFound
		}
		return nil, err
	}
	return &rem, nil
}

func (r *PostgresReminderRepository) Delete(ctx context.Context, habitID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE habit_id = $1`, habitID); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

func (r *PostgresReminderRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete reminders: %w", err)
	}
	return nil
}

func (r *PostgresReminderRepository) MarkFired(ctx context.Context, habitID string, prev, firedAt, next time.Time) (bool, error) {
	query := `
		UPDATE reminders
		SET next_fire_at = $3, last_fired_at = $4, updated_at = NOW()
		WHERE habit_id = $1 AND next_fire_at = $2`

	res, err := r.db.ExecContext(ctx, query, habitID, prev.UTC(), next.UTC(), firedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to mark reminder fired: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *PostgresReminderRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Reminder, error) {
	reminders := []*domain.Reminder{}

	query := `
		SELECT ` + reminderColumns + ` FROM reminders
		WHERE next_fire_at <= $1
		ORDER BY next_fire_at ASC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &reminders, query, now.UTC(), limit); err != nil {
		return nil, err
	}
	return reminders, nil
}
