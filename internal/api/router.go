package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/userhub/users-api/internal/api/handler"
	"github.com/userhub/users-api/internal/api/middleware"
	"github.com/userhub/users-api/internal/core/service"
	redisinfra "github.com/userhub/users-api/internal/infrastructure/db/redis"
	"github.com/userhub/users-api/internal/infrastructure/db/sqlite"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *gorm.DB, rdb *redis.Client, jwtSecret string, dev bool, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, dev)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("users"))

	// --- Dependencies ---
	userRepo := sqlite.NewUserRepository(db)
	limiter := redisinfra.NewLoginLimiter(rdb)
	userService := service.NewUserService(userRepo, limiter, jwtSecret, 24*time.Hour, log)
	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(userService)
	authMiddleware := middleware.Auth(jwtSecret)

	// --- User routes ---
	users := e.Group("/api/users")
	users.POST("/auth/login", authHandler.Login)
	users.GET("/me", authHandler.Me, authMiddleware)
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/search", userHandler.Search)
	users.GET("/statistics", userHandler.Statistics)
	users.GET("/username/:username", userHandler.GetByUsername)
	users.GET("/:id", userHandler.GetByID)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
	users.POST("/:id/restore", userHandler.Restore)
	users.POST("/:id/verify-email", userHandler.VerifyEmail)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
