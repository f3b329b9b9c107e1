package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCompletion  = errors.New("invalid completion data")
	ErrCompletionNotFound = errors.New("completion not found")
)

const DayLayout = "2006-01-02"

// Completion records that a habit was marked done on a calendar day.
// It feeds analytics only; the habit's streak counter is not derived from it.
type Completion struct {
	ID        string    `json:"id" db:"id"`
	HabitID   string    `json:"habit_id" db:"habit_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Day       time.Time `json:"day" db:"day"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewCompletion(habitID, userID string, day time.Time) *Completion {
	return &Completion{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		UserID:    userID,
		Day:       CalendarDay(day),
		CreatedAt: time.Now().UTC(),
	}
}

func (c *Completion) Validate() error {
	if strings.TrimSpace(c.HabitID) == "" || strings.TrimSpace(c.UserID) == "" {
		return ErrInvalidCompletion
	}
	if c.Day.IsZero() {
		return ErrInvalidCompletion
	}
	return nil
}

// CalendarDay keeps the wall-clock date of t and drops everything else,
// returning midnight UTC of that date.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
