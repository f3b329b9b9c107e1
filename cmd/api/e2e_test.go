package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/trackloom/internal/adapters/cache"
	"github.com/comitanigiacomo/trackloom/internal/adapters/repository"
	"github.com/comitanigiacomo/trackloom/internal/config"
	"github.com/comitanigiacomo/trackloom/internal/core/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:                 "0",
		DBHost:               envOr("DB_HOST", "localhost"),
		DBPort:               envOr("DB_PORT", "5432"),
		DBUser:               envOr("DB_USER", "postgres"),
		DBPassword:           envOr("DB_PASSWORD", "postgres"),
		DBName:               envOr("DB_NAME", "trackloom_test"),
		RedisHost:            envOr("REDIS_HOST", "localhost"),
		RedisPort:            envOr("REDIS_PORT", "6379"),
		RedisDB:              3,
		JWTSecret:            "e2e-secret",
		JWTIssuer:            "trackloom",
		JWTTTL:               time.Hour,
		AllowedOrigins:       []string{"*"},
		ReminderPollInterval: time.Second,
		AIDailyLimit:         3,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type client struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func habitLifecycle(t *testing.T, a *app) {
	c := &client{t: t, router: a.router}
	email := "e2e-" + time.Now().Format("150405.000000") + "@example.com"

	t.Run("1. Register and log in", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/v1/auth/register", `{"email":"`+email+`","password":"password123"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = c.do(http.MethodPost, "/api/v1/auth/login", `{"email":"`+email+`","password":"password123"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		c.token = res.Token
	})

	var habitID string

	t.Run("2. Create Drink Water", func(t *testing.T) {
		require.NotEmpty(t, c.token, "login step failed")

		w := c.do(http.MethodPost, "/api/v1/habits", `{"name":"Drink Water","emoji":"💧","category":"Health"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var res struct {
			Habit domain.Habit `json:"habit"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 0, res.Habit.Streak)
		assert.False(t, res.Habit.CompletedToday)
		habitID = res.Habit.ID
	})

	t.Run("3. Toggle twice", func(t *testing.T) {
		require.NotEmpty(t, habitID, "create step failed")

		var h domain.Habit
		w := c.do(http.MethodPost, "/api/v1/habits/"+habitID+"/toggle", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &h))
		assert.True(t, h.CompletedToday)
		assert.Equal(t, 1, h.Streak)

		w = c.do(http.MethodGet, "/api/v1/habits", "")
		require.Equal(t, http.StatusOK, w.Code)
		var list []domain.Habit
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.True(t, list[0].CompletedToday)

		w = c.do(http.MethodPost, "/api/v1/habits/"+habitID+"/toggle", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &h))
		assert.False(t, h.CompletedToday)
		assert.Equal(t, 0, h.Streak)
	})

	t.Run("4. Update Habit", func(t *testing.T) {
		w := c.do(http.MethodPut, "/api/v1/habits/"+habitID, `{"name":"Drink more water"}`)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = c.do(http.MethodGet, "/api/v1/habits", "")
		assert.Contains(t, w.Body.String(), "Drink more water")
	})

	t.Run("5. Delete Habit", func(t *testing.T) {
		w := c.do(http.MethodDelete, "/api/v1/habits/"+habitID, "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = c.do(http.MethodGet, "/api/v1/habits", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), habitID)
	})

	t.Run("6. Validation Error", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/v1/habits", `{"emoji":"💧"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("7. Logout revokes the token", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/v1/auth/logout", "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = c.do(http.MethodGet, "/api/v1/habits", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestEndToEnd_Memory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	a := newApp(context.Background(), cfg, memoryStores(cfg), nil, nil)
	defer a.Close()

	habitLifecycle(t, a)
}

func TestEndToEnd_PostgresRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.RateLimit = 1000
	ctx := context.Background()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL())
	if err != nil {
		t.Skipf("Skipping e2e test: database unreachable: %v", err)
	}
	_, err = repository.Migrate(ctx, db)
	require.NoError(t, err)

	rdb, err := cache.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		db.Close()
		t.Skipf("Skipping e2e test: redis unreachable: %v", err)
	}

	a := newApp(ctx, cfg, durableStores(cfg, db, rdb), db, rdb)
	defer a.Close()

	habitLifecycle(t, a)
}
