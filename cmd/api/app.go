package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/trackloom/internal/adapters/ai"
	"github.com/comitanigiacomo/trackloom/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/trackloom/internal/adapters/handler/http"
	"github.com/comitanigiacomo/trackloom/internal/adapters/notify"
	"github.com/comitanigiacomo/trackloom/internal/adapters/repository"
	"github.com/comitanigiacomo/trackloom/internal/config"
	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/core/services"
	"github.com/comitanigiacomo/trackloom/internal/core/workers"
	"github.com/comitanigiacomo/trackloom/internal/logger"
)

const quotaPrefix = "ai"

type stores struct {
	habits        domain.HabitRepository
	users         domain.UserRepository
	completions   domain.CompletionRepository
	reminders     domain.ReminderRepository
	prefs         domain.PreferenceStore
	subscriptions domain.PushSubscriptionRepository
	sessions      domain.SessionStore
	navigation    domain.NavigationStore
	limiter       domain.UsageLimiter
}

type app struct {
	router *gin.Engine
	worker *workers.ReminderWorker
	db     *sqlx.DB
	rdb    *redis.Client
}

func (a *app) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			logger.Warn("redis close failed", "err", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logger.Warn("database close failed", "err", err)
		}
	}
}

func memoryStores(cfg *config.Config) stores {
	return stores{
		habits:        repository.NewInMemoryHabitRepository(),
		users:         repository.NewInMemoryUserRepository(),
		completions:   repository.NewInMemoryCompletionRepository(),
		reminders:     repository.NewInMemoryReminderRepository(),
		prefs:         repository.NewInMemoryPreferenceStore(),
		subscriptions: repository.NewInMemoryPushSubscriptionRepository(),
		sessions:      cache.NewMemorySessionStore(),
		navigation:    cache.NewMemoryNavigationStore(),
		limiter:       cache.NewMemoryUsageLimiter(cfg.AIDailyLimit),
	}
}

func durableStores(cfg *config.Config, db *sqlx.DB, rdb *redis.Client) stores {
	return stores{
		habits:        repository.NewCachedHabitRepository(repository.NewPostgresHabitRepository(db), rdb),
		users:         repository.NewPostgresUserRepository(db),
		completions:   repository.NewPostgresCompletionRepository(db),
		reminders:     repository.NewPostgresReminderRepository(db),
		prefs:         repository.NewPostgresPreferenceRepository(db),
		subscriptions: repository.NewPostgresPushSubscriptionRepository(db),
		sessions:      cache.NewRedisSessionStore(rdb),
		navigation:    cache.NewRedisNavigationStore(rdb, cfg.JWTTTL),
		limiter:       cache.NewRedisUsageLimiter(rdb, quotaPrefix, cfg.AIDailyLimit),
	}
}

// newApp wires every service on top of s. db and rdb may be nil in memory mode.
func newApp(ctx context.Context, cfg *config.Config, s stores, db *sqlx.DB, rdb *redis.Client) *app {
	var notifier domain.Notifier = notify.LogNotifier{}
	vapidKey := ""
	if cfg.PushEnabled() {
		notifier = notify.NewWebPushNotifier(s.subscriptions, notify.VAPIDConfig{
			PublicKey:  cfg.VAPIDPublicKey,
			PrivateKey: cfg.VAPIDPrivateKey,
			Subject:    cfg.VAPIDSubject,
		})
		vapidKey = cfg.VAPIDPublicKey
	} else {
		logger.Warn("VAPID keys not set, reminders are only logged")
	}

	var generator domain.SuggestionGenerator
	if cfg.AIEnabled() {
		bedrock, err := ai.NewBedrockGenerator(ctx, cfg.AWSRegion, cfg.AIModelID)
		if err != nil {
			logger.Error("AI disabled, could not load AWS config", "err", err)
		} else {
			generator = bedrock
		}
	}

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, s.sessions)
	authService := services.NewAuthService(s.users, s.sessions, tokenService, s.navigation)
	reminderService := services.NewReminderService(s.reminders, s.habits, s.users, s.prefs, s.subscriptions, vapidKey)
	habitService := services.NewHabitService(s.habits, s.completions, reminderService)
	statsService := services.NewStatsService(s.habits, s.completions, s.users)
	badgeService := services.NewBadgeService(s.habits)
	suggestionService := services.NewSuggestionService(generator, s.limiter, habitService)
	navigatorService := services.NewNavigatorService(s.navigation, s.prefs, habitService, statsService, badgeService, suggestionService)

	deps := adapterHTTP.RouterDependencies{
		AuthHandler:         adapterHTTP.NewAuthHandler(authService),
		HabitHandler:        adapterHTTP.NewHabitHandler(habitService),
		ScreenHandler:       adapterHTTP.NewScreenHandler(navigatorService),
		BadgeHandler:        adapterHTTP.NewBadgeHandler(badgeService),
		SuggestionHandler:   adapterHTTP.NewSuggestionHandler(suggestionService),
		NotificationHandler: adapterHTTP.NewNotificationHandler(reminderService),
		StatsHandler:        adapterHTTP.NewStatsHandler(statsService),
		Tokens:              tokenService,
		Redis:               rdb,
		AllowedOrigins:      cfg.AllowedOrigins,
		RateLimit:           cfg.RateLimit,
		StartTime:           time.Now(),
	}
	if db != nil {
		deps.DB = db
	}

	return &app{
		router: adapterHTTP.NewRouter(deps),
		worker: workers.NewReminderWorker(s.reminders, reminderService, notifier, cfg.ReminderPollInterval),
		db:     db,
		rdb:    rdb,
	}
}

func serve(cfg *config.Config, memory bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var a *app
	if memory {
		logger.Warn("running with in-memory storage, data is lost on exit")
		a = newApp(ctx, cfg, memoryStores(cfg), nil, nil)
	} else {
		logger.Info("connecting to database", "host", cfg.DBHost, "name", cfg.DBName)
		db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return err
		}

		if applied, err := repository.Migrate(ctx, db); err != nil {
			db.Close()
			return err
		} else if len(applied) > 0 {
			logger.Info("migrations applied", "files", applied)
		}

		rdb, err := cache.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			db.Close()
			return err
		}
		logger.Info("storage ready", "redis", cfg.RedisAddr())

		a = newApp(ctx, cfg, durableStores(cfg, db, rdb), db, rdb)
	}
	defer a.Close()

	gin.SetMode(gin.ReleaseMode)
	if logger.Logger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()
	a.worker.Start(workerCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("TrackLoom API running", "addr", "http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("stop signal received, shutting down")
	}

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
