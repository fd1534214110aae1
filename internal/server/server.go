// Package server assembles the HTTP app from configuration: storage, Redis,
// services, bootstrap seeding and routes.
package server

import (
	"context"
	"fmt"

	"rwa-backend/bootstrap"
	"rwa-backend/internal/app"
	"rwa-backend/internal/config"
	"rwa-backend/internal/infrastructure/cache"
	"rwa-backend/internal/infrastructure/database"
	"rwa-backend/internal/interfaces/router"
	"rwa-backend/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Server is a ready-to-serve fiber app plus the resources it holds open.
type Server struct {
	App      *fiber.App
	Services *app.Services
}

// Build opens the database and Redis named by cfg, migrates, seeds the bootstrap
// account and mounts every route.
func Build(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}
	if err := (&database.Pinger{DB: db}).Ping(); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("database migrate: %w", err)
	}
	log.Info().Str("driver", cfg.DatabaseDriver).Msg("Database connected")

	rdb, err := cache.Open(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info().Msg("Redis connected")
	} else {
		log.Warn().Msg("REDIS_URL not set: sessions, event publishing and traffic stats are disabled")
	}

	opts := app.OptionsFrom(cfg)
	opts.Metrics = metrics.New()
	svcs := app.New(db, rdb, opts)
	if err := bootstrap.Run(ctx, svcs, cfg); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return &Server{App: router.CreateApp(cfg, svcs), Services: svcs}, nil
}

// Close releases the Redis client. The gorm pool is left to process exit.
func (s *Server) Close() error {
	if s.Services != nil && s.Services.Rdb != nil {
		return s.Services.Rdb.Close()
	}
	return nil
}
