package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var _ domain.HabitRepository = (*PostgresHabitRepository)(nil)

const habitColumns = `id, user_id, name, emoji, category, frequency, reminder_time, notes,
            streak, completed_today, version, created_at, updated_at, deleted_at`

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

// scanRow decodes a habit row. completed_today is stored as the text flag
// "0"/"1"; anything else is rejected rather than guessed.
func (r *PostgresHabitRepository) scanRow(row scannable) (*domain.Habit, error) {
	var h domain.Habit
	var completedFlag string

	err := row.Scan(
		&h.ID, &h.UserID, &h.Name, &h.Emoji, &h.Category, &h.Frequency, &h.ReminderTime, &h.Notes,
		&h.Streak, &completedFlag, &h.Version, &h.CreatedAt, &h.UpdatedAt, &h.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	h.CompletedToday, err = domain.ParseCompletionFlag(completedFlag)
	if err != nil {
		return nil, fmt.Errorf("habit %s: %w", h.ID, err)
	}

	return &h, nil
}

func (r *PostgresHabitRepository) scanRows(rows *sql.Rows) ([]*domain.Habit, error) {
	defer rows.Close()

	var habits []*domain.Habit
	for rows.Next() {
		h, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
        INSERT INTO habits (
            id, user_id, name, emoji, category, frequency, reminder_time, notes,
            streak, completed_today, version, deleted_at, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8,
            $9, $10, 1, NULL, $11, $12
        )`

	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.UserID, h.Name, h.Emoji, h.Category, h.Frequency, h.ReminderTime, h.Notes,
		h.Streak, domain.FormatCompletionFlag(h.CompletedToday),
		h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	h.Version = 1
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1 AND deleted_at IS NULL`

	h, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return h, nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	query := `
        SELECT ` + habitColumns + ` FROM habits
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY created_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return r.scanRows(rows)
}

func (r *PostgresHabitRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Habit, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
        SELECT ` + habitColumns + ` FROM habits
        WHERE id = ANY($1) AND deleted_at IS NULL
        ORDER BY created_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return r.scanRows(rows)
}

// Update writes every mutable column when the stored version matches and bumps
// the version. A miss is reported as ErrHabitNotFound or ErrHabitConflict.
func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	query := `
        UPDATE habits SET
            name=$1, emoji=$2, category=$3, frequency=$4, reminder_time=$5, notes=$6,
            streak=$7, completed_today=$8,
            updated_at=NOW(), version = version + 1
        WHERE id=$9 AND version=$10 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		h.Name, h.Emoji, h.Category, h.Frequency, h.ReminderTime, h.Notes,
		h.Streak, domain.FormatCompletionFlag(h.CompletedToday),
		h.ID, h.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time

	err := row.Scan(&newVersion, &newUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existsQuery := `SELECT count(*) FROM habits WHERE id = $1 AND deleted_at IS NULL`
			var count int
			if checkErr := r.db.QueryRowContext(ctx, existsQuery, h.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}

			if count == 0 {
				return domain.ErrHabitNotFound
			}
			return domain.ErrHabitConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	h.Version = newVersion
	h.UpdatedAt = newUpdatedAt

	return nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	query := `
        UPDATE habits
        SET deleted_at = NOW(), updated_at = NOW(), version = version + 1
        WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}
