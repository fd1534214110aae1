// Package app assembles the ledger services over one database and one Redis client.
// The HTTP router, the bootstrap step and the lease sweeper all build from here.
package app

import (
	"rwa-backend/internal/application/access"
	"rwa-backend/internal/application/compliance"
	"rwa-backend/internal/application/events"
	"rwa-backend/internal/application/health"
	"rwa-backend/internal/application/identity"
	"rwa-backend/internal/application/leases"
	"rwa-backend/internal/application/ledger"
	"rwa-backend/internal/application/paytoken"
	"rwa-backend/internal/config"
	"rwa-backend/internal/pkg/clock"
	"rwa-backend/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the wired application layer.
type Services struct {
	DB  *gorm.DB
	Rdb *redis.Client

	Events     *events.Service
	Access     *access.Service
	Identity   *identity.Service
	Compliance *compliance.Service
	Ledger     *ledger.Service
	Payments   *paytoken.Service
	Leases     *leases.Service
	Stats      *health.GormLedgerStats
	Metrics    *metrics.Metrics
}

// Options carries the tunables read from config.
type Options struct {
	EventsChannel     string
	MaxBatchSize      int
	EnforceMaxBalance bool
	SweepBatchSize    int
	Clock             clock.Clock
	// Metrics is optional; nil disables counters and the /metrics route.
	Metrics *metrics.Metrics
}

// OptionsFrom copies the service tunables out of cfg.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		EventsChannel:     cfg.EventsChannel,
		MaxBatchSize:      cfg.MaxBatchSize,
		EnforceMaxBalance: cfg.EnforceMaxBalance,
		SweepBatchSize:    cfg.SweepBatchSize,
	}
}

// New wires every service. rdb may be nil, in which case events are persisted but not published.
func New(db *gorm.DB, rdb *redis.Client, opts Options) *Services {
	ev := &events.Service{DB: db, Metrics: opts.Metrics}
	if rdb != nil {
		ev.Publisher = &events.RedisPublisher{Rdb: rdb, Channel: opts.EventsChannel}
	}
	clk := opts.Clock

	ids := &identity.Service{DB: db, Events: ev, Clock: clk}
	gate := &compliance.Service{
		DB:                db,
		Identity:          ids,
		Events:            ev,
		Clock:             clk,
		EnforceMaxBalance: opts.EnforceMaxBalance,
		Metrics:           opts.Metrics,
	}
	ldg := &ledger.Service{DB: db, Gate: gate, Events: ev, Clock: clk, MaxBatchSize: opts.MaxBatchSize}
	pay := &paytoken.Service{DB: db, Events: ev, Clock: clk}

	return &Services{
		DB:         db,
		Rdb:        rdb,
		Events:     ev,
		Access:     &access.Service{DB: db, Events: ev, Clock: clk},
		Identity:   ids,
		Compliance: gate,
		Ledger:     ldg,
		Payments:   pay,
		Leases: &leases.Service{
			DB:           db,
			Ledger:       ldg,
			Payments:     pay,
			Events:       ev,
			Clock:        clk,
			MaxSweepSize: opts.SweepBatchSize,
		},
		Stats:   &health.GormLedgerStats{DB: db, Now: clk.Now},
		Metrics: opts.Metrics,
	}
}
