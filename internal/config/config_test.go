package config

import (
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Success: defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
		assert.Equal(t, 30*time.Second, cfg.ReminderPollInterval)
		assert.Equal(t, 10, cfg.AIDailyLimit)
		assert.False(t, cfg.PushEnabled())
	})

	t.Run("Success: overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("PORT", "9090")
		t.Setenv("JWT_TTL", "2h")
		t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
		t.Setenv("VAPID_PUBLIC_KEY", "pub")
		t.Setenv("VAPID_PRIVATE_KEY", "priv")
		t.Setenv("DB_USER", "u")
		t.Setenv("DB_PASSWORD", "p")
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("DB_NAME", "n")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
		assert.True(t, cfg.PushEnabled())
		assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=disable", cfg.DatabaseURL())
	})

	t.Run("Success: flags win over the environment", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("RATE_LIMIT", "5")

		var cfg Config
		parser, err := kong.New(&cfg)
		require.NoError(t, err)
		_, err = parser.Parse([]string{"--port=7070", "--jwt-secret=flag-secret"})
		require.NoError(t, err)
		require.NoError(t, cfg.Finalize())

		assert.Equal(t, "7070", cfg.Port)
		assert.Equal(t, "flag-secret", cfg.JWTSecret)
		assert.Equal(t, 5, cfg.RateLimit)
	})

	t.Run("Fail: missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("Fail: bad duration", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("REMINDER_POLL_INTERVAL", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "REMINDER_POLL_INTERVAL")
	})

	t.Run("Fail: bad integer", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("RATE_LIMIT", "lots")
		_, err := Load()
		assert.ErrorContains(t, err, "RATE_LIMIT")
	})

	t.Run("Fail: non-positive poll interval", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("REMINDER_POLL_INTERVAL", "0s")
		_, err := Load()
		assert.ErrorContains(t, err, "REMINDER_POLL_INTERVAL")
	})
}
