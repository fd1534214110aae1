// Command lease-sweeper marks Active leases whose end time has passed as Expired.
// Run it from cron or any scheduler; each run sweeps until no candidates remain.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"rwa-backend/internal/app"
	"rwa-backend/internal/config"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/infrastructure/cache"
	"rwa-backend/internal/infrastructure/database"
	"rwa-backend/internal/pkg/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "list expired candidates without sweeping")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logging.Setup(cfg.LogLevel, cfg.Env)

	caller, ok := domain.ParseAccount(cfg.SweeperAccount)
	if !ok || caller.IsZero() {
		log.Fatal().Msg("SWEEPER_ACCOUNT (or BOOTSTRAP_ADMIN_ACCOUNT) must be a valid account")
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database open failed")
	}
	rdb, err := cache.Open(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis url invalid")
	}
	if rdb != nil {
		defer rdb.Close()
	}
	svcs := app.New(db, rdb, app.OptionsFrom(cfg))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	swept, err := app.SweepExpired(ctx, svcs.Leases, caller, cfg.SweepBatchSize, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Int("swept", swept).Msg("lease sweep failed")
	}
	log.Info().Int("swept", swept).Bool("dry_run", *dryRun).Msg("lease sweep finished")
}
