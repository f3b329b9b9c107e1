package cache

import (
	"context"
	"testing"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	live := domain.NewSession("u1", time.Hour)
	expired := domain.NewSession("u1", -time.Minute)
	require.NoError(t, store.Create(ctx, live))
	require.NoError(t, store.Create(ctx, expired))

	got, err := store.Get(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)

	_, err = store.Get(ctx, expired.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, store.Delete(ctx, live.ID))
	_, err = store.Get(ctx, live.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMemoryNavigationStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryNavigationStore()

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNavigationNotFound)

	nav := &domain.Navigation{Screen: domain.ScreenDashboard}
	require.NoError(t, store.Save(ctx, "s1", nav))
	nav.Screen = domain.ScreenProfile

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenDashboard, got.Screen, "stored state must not alias the caller's value")
}

func TestMemoryUsageLimiter(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemoryUsageLimiter(1)
	day := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return day }

	ok, _ := limiter.Allow(ctx, "u1")
	assert.True(t, ok)
	ok, _ = limiter.Allow(ctx, "u1")
	assert.False(t, ok)

	day = day.Add(2 * time.Hour)
	ok, _ = limiter.Allow(ctx, "u1")
	assert.True(t, ok)
}
