package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/comitanigiacomo/trackloom/internal/adapters/handler/http/middleware"
	_ "github.com/comitanigiacomo/trackloom/internal/docs"
)

// Pinger is anything the health check can ping, such as *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterDependencies struct {
	AuthHandler         *AuthHandler
	HabitHandler        *HabitHandler
	ScreenHandler       *ScreenHandler
	BadgeHandler        *BadgeHandler
	SuggestionHandler   *SuggestionHandler
	NotificationHandler *NotificationHandler
	StatsHandler        *StatsHandler
	Tokens              middleware.TokenValidator
	DB                  Pinger
	Redis               *redis.Client
	AllowedOrigins      []string
	RateLimit           int
	StartTime           time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	if len(deps.AllowedOrigins) == 0 || (len(deps.AllowedOrigins) == 1 && deps.AllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = deps.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		dbStatus := "memory"
		if deps.DB != nil {
			dbStatus = "connected"
			if err := deps.DB.PingContext(c.Request.Context()); err != nil {
				dbStatus = "unreachable"
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(c.Request.Context()).Err() != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	// The limiter runs after auth on protected routes so it counts per user.
	public := apiV1.Group("")
	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	if deps.Redis != nil && deps.RateLimit > 0 {
		limiter := middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, 1*time.Minute)
		public.Use(limiter)
		protected.Use(limiter)
	}

	deps.AuthHandler.RegisterRoutes(public, protected)
	{
		deps.HabitHandler.RegisterRoutes(protected)
		deps.ScreenHandler.RegisterRoutes(protected)
		deps.BadgeHandler.RegisterRoutes(protected)
		deps.SuggestionHandler.RegisterRoutes(protected)
		deps.NotificationHandler.RegisterRoutes(protected)
		deps.StatsHandler.RegisterRoutes(protected)
	}

	return router
}
