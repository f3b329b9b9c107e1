package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrHabitConflict = errors.New("habit version conflict")
)

type HabitRepository interface {
	// Create persists a new habit in the storage.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves an active habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves the user's habits, newest first.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// ListByIDs retrieves the active habits among the given ids.
	ListByIDs(ctx context.Context, ids []string) ([]*Habit, error)

	// Update writes the habit back. Implementations reject stale versions with ErrHabitConflict.
	Update(ctx context.Context, habit *Habit) error

	// Delete soft-deletes a habit.
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type CompletionRepository interface {
	// Create records a completion. A second record for the same habit and day is ignored.
	Create(ctx context.Context, c *Completion) error

	// DeleteForDay removes the habit's completion on the given day, if any.
	DeleteForDay(ctx context.Context, habitID string, day time.Time) error

	// ListByUserIDAndDateRange returns completions with from <= day <= to.
	ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*Completion, error)
}

type ReminderRepository interface {
	// Upsert creates or replaces the reminder keyed by habit id.
	Upsert(ctx context.Context, r *Reminder) error

	Get(ctx context.Context, habitID string) (*Reminder, error)

	// Delete removes the habit's reminder. Missing reminders are not an error.
	Delete(ctx context.Context, habitID string) error

	DeleteByUserID(ctx context.Context, userID string) error

	// MarkFired records a firing and moves next_fire_at from prev to next. It
	// never inserts: a reminder deleted or rescheduled since it was listed is
	// left alone and false is returned.
	MarkFired(ctx context.Context, habitID string, prev, firedAt, next time.Time) (bool, error)

	// ListDue returns up to limit reminders with next_fire_at <= now, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*Reminder, error)
}

type PushSubscriptionRepository interface {
	Save(ctx context.Context, sub *PushSubscription) error
	Delete(ctx context.Context, userID, endpoint string) error
	DeleteByEndpoint(ctx context.Context, endpoint string) error
	ListByUserID(ctx context.Context, userID string) ([]*PushSubscription, error)
}
