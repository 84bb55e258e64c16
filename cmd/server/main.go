package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sentry/internal/config"
	"sentry/internal/db"
	"sentry/internal/logger"
	"sentry/internal/router"
	"sentry/internal/utils"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	loaded := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("production")
		logger.Get().Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Init(cfg.Env)
	log := logger.Get()
	if len(loaded) == 0 {
		log.Info().Msg("no .env file found, using environment variables")
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Database
	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	if err := db.SeedProject(gdb, cfg.SeedProject); err != nil {
		log.Error().Err(err).Msg("failed to seed project")
	}

	cache, err := utils.NewCache(cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create cache")
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r := router.New(router.Deps{
		DB:           gdb,
		SessionName:  cfg.SessionName,
		SessionStore: store,
		Cache:        cache,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("bookmark server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
}
