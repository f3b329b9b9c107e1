package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty        = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong      = errors.New("habit name is too long (max 100 chars)")
	ErrHabitNotesTooLong     = errors.New("habit notes are too long (max 500 chars)")
	ErrHabitInvalidUserID    = errors.New("invalid user id")
	ErrInvalidCategory       = errors.New("invalid habit category")
	ErrInvalidFrequency      = errors.New("invalid frequency (must be daily, weekly, weekdays, weekends or custom)")
	ErrInvalidReminder       = errors.New("invalid reminder format (must be HH:MM 24h)")
	ErrInvalidCompletionFlag = errors.New("invalid completion flag (must be \"0\" or \"1\")")
	ErrInvalidStreak         = errors.New("streak cannot be negative")
)

var reminderRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

const (
	FrequencyDaily    = "daily"
	FrequencyWeekly   = "weekly"
	FrequencyWeekdays = "weekdays"
	FrequencyWeekends = "weekends"
	FrequencyCustom   = "custom"

	DefaultEmoji        = "🎯"
	DefaultCategory     = "Personal"
	DefaultReminderTime = "09:00"

	MaxNameLen  = 100
	MaxNotesLen = 500
)

var Categories = []string{
	"Health", "Fitness", "Study", "Work", "Personal", "Social", "Finance", "Hobbies",
	"Mental Health", "Learning",
}

var Frequencies = []string{
	FrequencyDaily, FrequencyWeekly, FrequencyWeekdays, FrequencyWeekends, FrequencyCustom,
}

type Habit struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	Emoji          string     `json:"emoji"`
	Category       string     `json:"category"`
	Frequency      string     `json:"frequency"`
	ReminderTime   string     `json:"reminder_time"`
	Notes          string     `json:"notes,omitempty"`
	Streak         int        `json:"streak"`
	CompletedToday bool       `json:"completed_today"`
	Version        int        `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// HabitFields carries the user-editable part of a habit.
type HabitFields struct {
	Name         string `json:"name"`
	Emoji        string `json:"emoji"`
	Category     string `json:"category"`
	Frequency    string `json:"frequency"`
	ReminderTime string `json:"reminder_time"`
	Notes        string `json:"notes,omitempty"`
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func IsValidFrequency(freq string) bool {
	for _, f := range Frequencies {
		if f == freq {
			return true
		}
	}
	return false
}

func IsValidReminder(reminder string) bool {
	return reminderRegex.MatchString(reminder)
}

// NormalizeCategory maps free-form labels (AI output, legacy rows) onto the
// enumerated set, falling back to DefaultCategory.
func NormalizeCategory(category string) string {
	trimmed := strings.TrimSpace(category)
	for _, c := range Categories {
		if strings.EqualFold(c, trimmed) {
			return c
		}
	}
	return DefaultCategory
}

func (f HabitFields) normalize() (HabitFields, error) {
	out := HabitFields{
		Name:         strings.TrimSpace(f.Name),
		Emoji:        strings.TrimSpace(f.Emoji),
		Category:     strings.TrimSpace(f.Category),
		Frequency:    strings.TrimSpace(f.Frequency),
		ReminderTime: strings.TrimSpace(f.ReminderTime),
		Notes:        strings.TrimSpace(f.Notes),
	}

	if out.Name == "" {
		return out, ErrHabitNameEmpty
	}
	if utf8.RuneCountInString(out.Name) > MaxNameLen {
		return out, ErrHabitNameTooLong
	}
	if utf8.RuneCountInString(out.Notes) > MaxNotesLen {
		return out, ErrHabitNotesTooLong
	}

	if out.Emoji == "" {
		out.Emoji = DefaultEmoji
	}
	if out.Category == "" {
		out.Category = DefaultCategory
	}
	if !IsValidCategory(out.Category) {
		return out, ErrInvalidCategory
	}
	if out.Frequency == "" {
		out.Frequency = FrequencyDaily
	}
	if !IsValidFrequency(out.Frequency) {
		return out, ErrInvalidFrequency
	}
	if out.ReminderTime == "" {
		out.ReminderTime = DefaultReminderTime
	}
	if !IsValidReminder(out.ReminderTime) {
		return out, ErrInvalidReminder
	}

	return out, nil
}

func NewHabit(userID string, fields HabitFields) (*Habit, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrHabitInvalidUserID
	}

	clean, err := fields.normalize()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Habit{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           clean.Name,
		Emoji:          clean.Emoji,
		Category:       clean.Category,
		Frequency:      clean.Frequency,
		ReminderTime:   clean.ReminderTime,
		Notes:          clean.Notes,
		Streak:         0,
		CompletedToday: false,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (h *Habit) Update(fields HabitFields) error {
	clean, err := fields.normalize()
	if err != nil {
		return err
	}

	h.Name = clean.Name
	h.Emoji = clean.Emoji
	h.Category = clean.Category
	h.Frequency = clean.Frequency
	h.ReminderTime = clean.ReminderTime
	h.Notes = clean.Notes
	h.UpdatedAt = time.Now().UTC()

	return nil
}

func (h *Habit) Fields() HabitFields {
	return HabitFields{
		Name:         h.Name,
		Emoji:        h.Emoji,
		Category:     h.Category,
		Frequency:    h.Frequency,
		ReminderTime: h.ReminderTime,
		Notes:        h.Notes,
	}
}

// NextCompletion returns the flag and streak a toggle would produce.
// Completing adds one to the streak, uncompleting removes one, floored at zero.
func NextCompletion(completed bool, streak int) (bool, int) {
	if completed {
		if streak-1 < 0 {
			return false, 0
		}
		return false, streak - 1
	}
	return true, streak + 1
}

// Toggle flips the completion flag and moves the streak with it.
func (h *Habit) Toggle() {
	h.CompletedToday, h.Streak = NextCompletion(h.CompletedToday, h.Streak)
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) Clone() *Habit {
	c := *h
	if h.DeletedAt != nil {
		d := *h.DeletedAt
		c.DeletedAt = &d
	}
	return &c
}

// ParseCompletionFlag decodes the "0"/"1" encoding the habits collection uses
// for completedToday. Anything else is a data-integrity error.
func ParseCompletionFlag(raw string) (bool, error) {
	switch raw {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, ErrInvalidCompletionFlag
	}
}

func FormatCompletionFlag(completed bool) string {
	if completed {
		return "1"
	}
	return "0"
}
