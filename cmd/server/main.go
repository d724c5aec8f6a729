package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mb-platform/user-service/internal/api"
	"github.com/mb-platform/user-service/internal/infrastructure/db/mongo"
	"github.com/mb-platform/user-service/internal/infrastructure/db/redis"
	"github.com/mb-platform/user-service/internal/infrastructure/queue"
	"github.com/mb-platform/user-service/internal/pkg/config"
	"github.com/mb-platform/user-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title User Service API
// @version 1.0
// @description Minimal user-account microservice: registration, authentication and user CRUD.
// @BasePath /
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect mongodb client")
		}
	}()

	userRepo := mongo.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure mongodb indexes")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis client")
		}
	}()

	auditRepo := mongo.NewAuditRepository(db)
	dispatcher := queue.NewAuditDispatcher(cfg.Audit.Workers, auditRepo, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, cfg, log, dispatcher)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("server stopped")
}
