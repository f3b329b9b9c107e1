package repository

import (
	"context"
	"testing"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryHabitRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryHabitRepository()

	older, err := domain.NewHabit("u1", domain.HabitFields{Name: "Walk"})
	require.NoError(t, err)
	newer, err := domain.NewHabit("u1", domain.HabitFields{Name: "Read"})
	require.NoError(t, err)
	newer.CreatedAt = older.CreatedAt.Add(time.Second)

	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	t.Run("Newest First", func(t *testing.T) {
		list, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)

		other, err := repo.ListByUserID(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("Returned Habits Are Copies", func(t *testing.T) {
		h, err := repo.GetByID(ctx, older.ID)
		require.NoError(t, err)
		h.Name = "Mutated"

		again, err := repo.GetByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "Walk", again.Name)
	})

	t.Run("Version Check", func(t *testing.T) {
		a, _ := repo.GetByID(ctx, older.ID)
		b, _ := repo.GetByID(ctx, older.ID)

		a.Toggle()
		require.NoError(t, repo.Update(ctx, a))
		assert.Equal(t, 2, a.Version)

		b.Name = "Stale"
		assert.ErrorIs(t, repo.Update(ctx, b), domain.ErrHabitConflict)
	})

	t.Run("Soft Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, newer.ID))
		_, err := repo.GetByID(ctx, newer.ID)
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, newer.ID), domain.ErrHabitNotFound)

		list, err := repo.ListByIDs(ctx, []string{older.ID, newer.ID})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, older.ID, list[0].ID)
	})
}

func TestInMemoryUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()

	u1, err := domain.NewUser("id-1", "same@example.com", "", "")
	require.NoError(t, err)
	u2, err := domain.NewUser("id-2", "same@example.com", "", "")
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, u1))
	assert.ErrorIs(t, repo.Create(ctx, u2), domain.ErrEmailAlreadyExists)

	found, err := repo.GetByEmail(ctx, "same@example.com")
	require.NoError(t, err)
	assert.Equal(t, "id-1", found.ID)

	_, err = repo.GetByID(ctx, "id-2")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestInMemoryCompletionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryCompletionRepository()
	day := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, domain.NewCompletion("h1", "u1", day)))
	require.NoError(t, repo.Create(ctx, domain.NewCompletion("h1", "u1", day.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, domain.NewCompletion("h1", "u1", day.AddDate(0, 0, 1))))

	list, err := repo.ListByUserIDAndDateRange(ctx, "u1", day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repo.DeleteForDay(ctx, "h1", day))
	list, err = repo.ListByUserIDAndDateRange(ctx, "u1", day, day)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, repo.Create(ctx, &domain.Completion{HabitID: "h1"}), domain.ErrInvalidCompletion)
}

func TestInMemoryReminderRepository_ListDue(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryReminderRepository()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, offset := range []time.Duration{-2 * time.Minute, -time.Minute, time.Minute} {
		require.NoError(t, repo.Upsert(ctx, &domain.Reminder{
			HabitID:    []string{"a", "b", "c"}[i],
			UserID:     "u1",
			NextFireAt: now.Add(offset),
		}))
	}

	due, err := repo.ListDue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "a", due[0].HabitID)
	assert.Equal(t, "b", due[1].HabitID)

	limited, err := repo.ListDue(ctx, now, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, repo.DeleteByUserID(ctx, "u1"))
	due, err = repo.ListDue(ctx, now.Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestInMemoryReminderRepository_MarkFired(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryReminderRepository()
	prev := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	next := prev.AddDate(0, 0, 1)

	require.NoError(t, repo.Upsert(ctx, &domain.Reminder{HabitID: "a", UserID: "u1", NextFireAt: prev}))

	t.Run("Re-arms when unchanged", func(t *testing.T) {
		updated, err := repo.MarkFired(ctx, "a", prev, prev, next)
		require.NoError(t, err)
		assert.True(t, updated)

		stored, err := repo.Get(ctx, "a")
		require.NoError(t, err)
		assert.True(t, stored.NextFireAt.Equal(next))
		require.NotNil(t, stored.LastFiredAt)
	})

	t.Run("Stale schedule is ignored", func(t *testing.T) {
		updated, err := repo.MarkFired(ctx, "a", prev, prev, next.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.False(t, updated)
	})

	t.Run("Missing reminder is not recreated", func(t *testing.T) {
		updated, err := repo.MarkFired(ctx, "gone", prev, prev, next)
		require.NoError(t, err)
		assert.False(t, updated)

		_, err = repo.Get(ctx, "gone")
		assert.ErrorIs(t, err, domain.ErrReminderNotFound)
	})
}

func TestInMemoryPreferenceAndSubscriptions(t *testing.T) {
	ctx := context.Background()

	prefs := NewInMemoryPreferenceStore()
	_, ok, err := prefs.Get(ctx, "u1", domain.OnboardingSeenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, prefs.Set(ctx, "u1", domain.OnboardingSeenKey, domain.OnboardingSeenValue))
	v, ok, err := prefs.Get(ctx, "u1", domain.OnboardingSeenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.OnboardingSeenValue, v)

	subs := NewInMemoryPushSubscriptionRepository()
	require.NoError(t, subs.Save(ctx, &domain.PushSubscription{UserID: "u1", Endpoint: "e1", P256dh: "k", Auth: "a"}))
	require.NoError(t, subs.Save(ctx, &domain.PushSubscription{UserID: "u2", Endpoint: "e1", P256dh: "k", Auth: "a"}))

	require.NoError(t, subs.DeleteByEndpoint(ctx, "e1"))
	list, err := subs.ListByUserID(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, list)
}
