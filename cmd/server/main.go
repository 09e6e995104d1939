package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/userhub/users-api/internal/api"
	"github.com/userhub/users-api/internal/infrastructure/config"
	redisinfra "github.com/userhub/users-api/internal/infrastructure/db/redis"
	"github.com/userhub/users-api/internal/infrastructure/db/sqlite"
	"github.com/userhub/users-api/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}

	cfg := config.Load()

	logg := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	db, err := sqlite.Open(sqlite.Config{
		Path:    cfg.SQLite.Path,
		LogMode: cfg.SQLite.LogMode,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("open database")
	}
	if err := sqlite.AutoMigrate(db); err != nil {
		logg.Fatal().Err(err).Msg("migrate database")
	}

	ctx := context.Background()
	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("connect redis")
	}
	defer func() { _ = rdb.Close() }()

	e := api.NewRouter(db, rdb, cfg.JWTSecret, cfg.IsDevelopment(), logg)

	go func() {
		logg.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logg.Fatal().Err(err).Msg("http server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("graceful shutdown error")
	}
}
