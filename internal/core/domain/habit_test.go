package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHabit(t *testing.T) {
	t.Run("Success: Creates valid habit with defaults", func(t *testing.T) {
		h, err := domain.NewHabit("u1", domain.HabitFields{Name: "  Drink Water  "})

		require.NoError(t, err)
		assert.Equal(t, "Drink Water", h.Name)
		assert.Equal(t, "u1", h.UserID)
		assert.NotEmpty(t, h.ID)

		assert.Equal(t, domain.DefaultEmoji, h.Emoji)
		assert.Equal(t, domain.DefaultCategory, h.Category)
		assert.Equal(t, domain.FrequencyDaily, h.Frequency)
		assert.Equal(t, domain.DefaultReminderTime, h.ReminderTime)

		assert.Equal(t, 0, h.Streak)
		assert.False(t, h.CompletedToday)
		assert.Equal(t, 1, h.Version, "New habits start at version 1")
		assert.Nil(t, h.DeletedAt)
		assert.WithinDuration(t, time.Now().UTC(), h.CreatedAt, 2*time.Second)
	})

	t.Run("Error: Empty Name", func(t *testing.T) {
		_, err := domain.NewHabit("u1", domain.HabitFields{Name: "   "})
		assert.Equal(t, domain.ErrHabitNameEmpty, err)
	})

	t.Run("Error: Invalid UserID", func(t *testing.T) {
		_, err := domain.NewHabit("", domain.HabitFields{Name: "Read"})
		assert.Equal(t, domain.ErrHabitInvalidUserID, err)
	})
}

func TestHabit_Validation(t *testing.T) {
	tests := []struct {
		name    string
		fields  domain.HabitFields
		wantErr error
	}{
		{"Valid full habit", domain.HabitFields{Name: "Run", Emoji: "🏃", Category: "Fitness", Frequency: "weekdays", ReminderTime: "06:30"}, nil},
		{"Name too long", domain.HabitFields{Name: strings.Repeat("a", domain.MaxNameLen+1)}, domain.ErrHabitNameTooLong},
		{"Name at limit (multibyte)", domain.HabitFields{Name: strings.Repeat("é", domain.MaxNameLen)}, nil},
		{"Notes too long", domain.HabitFields{Name: "Run", Notes: strings.Repeat("n", domain.MaxNotesLen+1)}, domain.ErrHabitNotesTooLong},
		{"Unknown category", domain.HabitFields{Name: "Run", Category: "Gardening"}, domain.ErrInvalidCategory},
		{"Unknown frequency", domain.HabitFields{Name: "Run", Frequency: "hourly"}, domain.ErrInvalidFrequency},
		{"Reminder out of range", domain.HabitFields{Name: "Run", ReminderTime: "24:00"}, domain.ErrInvalidReminder},
		{"Reminder missing zero padding", domain.HabitFields{Name: "Run", ReminderTime: "9:00"}, domain.ErrInvalidReminder},
		{"Every frequency accepted: weekly", domain.HabitFields{Name: "Run", Frequency: "weekly"}, nil},
		{"Every frequency accepted: weekends", domain.HabitFields{Name: "Run", Frequency: "weekends"}, nil},
		{"Every frequency accepted: custom", domain.HabitFields{Name: "Run", Frequency: "custom"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewHabit("u1", tt.fields)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHabit_Update(t *testing.T) {
	h, err := domain.NewHabit("u1", domain.HabitFields{Name: "Read"})
	require.NoError(t, err)
	h.Streak = 4
	h.CompletedToday = true
	before := h.UpdatedAt

	time.Sleep(time.Millisecond)

	err = h.Update(domain.HabitFields{Name: "Read 20 pages", Category: "Study", ReminderTime: "21:15"})
	require.NoError(t, err)

	assert.Equal(t, "Read 20 pages", h.Name)
	assert.Equal(t, "Study", h.Category)
	assert.Equal(t, "21:15", h.ReminderTime)
	assert.Equal(t, 4, h.Streak, "Editing must not touch the streak")
	assert.True(t, h.CompletedToday, "Editing must not touch the completion flag")
	assert.True(t, h.UpdatedAt.After(before))

	t.Run("Error: invalid update leaves habit untouched", func(t *testing.T) {
		err := h.Update(domain.HabitFields{Name: ""})
		assert.Equal(t, domain.ErrHabitNameEmpty, err)
		assert.Equal(t, "Read 20 pages", h.Name)
	})
}

func TestHabit_Toggle(t *testing.T) {
	t.Run("Completing increments streak", func(t *testing.T) {
		for _, s := range []int{0, 1, 7, 99} {
			h := &domain.Habit{Streak: s, CompletedToday: false}
			h.Toggle()
			assert.True(t, h.CompletedToday)
			assert.Equal(t, s+1, h.Streak)
		}
	})

	t.Run("Uncompleting decrements streak floored at zero", func(t *testing.T) {
		for _, s := range []int{0, 1, 2, 50} {
			h := &domain.Habit{Streak: s, CompletedToday: true}
			h.Toggle()
			assert.False(t, h.CompletedToday)
			assert.Equal(t, max(0, s-1), h.Streak)
		}
	})

	t.Run("Double toggle round-trips", func(t *testing.T) {
		for _, completed := range []bool{false, true} {
			for _, s := range []int{1, 3, 10} {
				h := &domain.Habit{Streak: s, CompletedToday: completed}
				h.Toggle()
				h.Toggle()
				assert.Equal(t, completed, h.CompletedToday)
				assert.Equal(t, s, h.Streak)
			}
		}
	})
}

func TestCompletionFlag(t *testing.T) {
	done, err := domain.ParseCompletionFlag("1")
	assert.NoError(t, err)
	assert.True(t, done)

	done, err = domain.ParseCompletionFlag("0")
	assert.NoError(t, err)
	assert.False(t, done)

	for _, raw := range []string{"", "2", "true", "01", " 1"} {
		_, err := domain.ParseCompletionFlag(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidCompletionFlag, "raw=%q", raw)
	}

	assert.Equal(t, "1", domain.FormatCompletionFlag(true))
	assert.Equal(t, "0", domain.FormatCompletionFlag(false))
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "Mental Health", domain.NormalizeCategory("mental health"))
	assert.Equal(t, "Fitness", domain.NormalizeCategory(" Fitness "))
	assert.Equal(t, domain.DefaultCategory, domain.NormalizeCategory("Spirituality"))
}

func TestHabit_Clone(t *testing.T) {
	now := time.Now()
	h := &domain.Habit{ID: "h1", Name: "Run", DeletedAt: &now}
	c := h.Clone()

	c.Name = "Walk"
	*c.DeletedAt = now.Add(time.Hour)

	assert.Equal(t, "Run", h.Name)
	assert.Equal(t, now, *h.DeletedAt)
}
