package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func aiSuggestion(title string) domain.Suggestion {
	return domain.Suggestion{
		Title:       title,
		Description: title + " every day",
		Emoji:       "✨",
		Category:    "Health",
		Difficulty:  domain.DifficultyMedium,
		Benefits:    []string{"one", "two", "three"},
	}
}

func TestSuggestionService_Generate(t *testing.T) {
	ctx := context.Background()
	defaults := len(domain.DefaultSuggestions)

	t.Run("Success: AI results come first with ai- ids", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", ctx, mock.MatchedBy(func(p string) bool { return strings.Contains(p, "sleep better") }), mock.Anything).
			Return([]domain.Suggestion{aiSuggestion("Dim lights"), aiSuggestion("No screens")}, nil)

		svc := services.NewSuggestionService(gen, &fixedLimiter{allow: true}, nil)

		res, err := svc.Generate(ctx, "user-1", "sleep better")
		require.NoError(t, err)

		assert.Equal(t, services.SourceAI, res.Source)
		require.Len(t, res.Suggestions, defaults+2)
		assert.True(t, strings.HasPrefix(res.Suggestions[0].ID, "ai-"))
		assert.True(t, strings.HasSuffix(res.Suggestions[1].ID, "-1"))
		assert.Equal(t, "Dim lights", res.Suggestions[0].Title)
		assert.Equal(t, domain.DefaultSuggestions[0].Title, res.Suggestions[2].Title)
	})

	t.Run("Malformed AI entries are dropped", func(t *testing.T) {
		bad := aiSuggestion("Bad")
		bad.Benefits = nil

		gen := new(MockGenerator)
		gen.On("Generate", ctx, mock.Anything, mock.Anything).Return([]domain.Suggestion{bad, aiSuggestion("Good")}, nil)

		svc := services.NewSuggestionService(gen, nil, nil)

		res, err := svc.Generate(ctx, "user-1", "focus")
		require.NoError(t, err)
		require.Len(t, res.Suggestions, defaults+1)
		assert.Equal(t, "Good", res.Suggestions[0].Title)
	})

	t.Run("AI failure degrades to defaults", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		svc := services.NewSuggestionService(gen, &fixedLimiter{allow: true}, nil)

		res, err := svc.Generate(ctx, "user-1", "focus")
		require.NoError(t, err)
		assert.Equal(t, services.SourceDefault, res.Source)
		assert.Len(t, res.Suggestions, defaults)
	})

	t.Run("Quota exhausted skips the AI", func(t *testing.T) {
		gen := new(MockGenerator)
		limiter := &fixedLimiter{allow: false}
		svc := services.NewSuggestionService(gen, limiter, nil)

		res, err := svc.Generate(ctx, "user-1", "focus")
		require.NoError(t, err)
		assert.True(t, res.QuotaExceeded)
		assert.Equal(t, services.SourceDefault, res.Source)
		assert.Equal(t, 1, limiter.calls)
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("No generator configured", func(t *testing.T) {
		svc := services.NewSuggestionService(nil, nil, nil)

		res, err := svc.Generate(ctx, "user-1", "focus")
		require.NoError(t, err)
		assert.Equal(t, services.SourceDefault, res.Source)
	})

	t.Run("Fail: empty goals", func(t *testing.T) {
		svc := services.NewSuggestionService(nil, nil, nil)
		_, err := svc.Generate(ctx, "user-1", "   ")
		assert.ErrorIs(t, err, domain.ErrGoalsEmpty)
	})
}

func TestSuggestionService_Adopt(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepo()
	habits := services.NewHabitService(repo, nil, quietScheduler())
	svc := services.NewSuggestionService(nil, nil, habits)

	res, err := svc.Adopt(ctx, "user-1", aiSuggestion("Stretch"))
	require.NoError(t, err)
	assert.Equal(t, "Stretch", res.Habit.Name)
	assert.Equal(t, "Stretch every day", res.Habit.Notes)
	assert.Equal(t, domain.FrequencyDaily, res.Habit.Frequency)
	assert.Equal(t, "09:00", res.Habit.ReminderTime)

	res, err = svc.AdoptDefault(ctx, "user-1", "6")
	require.NoError(t, err)
	assert.Equal(t, "Cold Shower", res.Habit.Name)

	_, err = svc.AdoptDefault(ctx, "user-1", "42")
	assert.ErrorIs(t, err, domain.ErrSuggestionNotFound)

	_, err = svc.Adopt(ctx, "user-1", domain.Suggestion{})
	assert.ErrorIs(t, err, domain.ErrInvalidSuggestion)

	assert.Len(t, repo.store, 2)
}
