package config

import (
	"strings"

	"rwa-backend/internal/application/events"
	"rwa-backend/internal/pkg/constants"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	LogLevel            string
	DatabaseDriver      string // postgres or sqlite
	DatabaseURL         string
	RedisURL            string
	SessionSecret       string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	EventsChannel       string

	// BootstrapAdminAccount receives admin, agent and compliance_officer on startup.
	BootstrapAdminAccount string
	// Optional operator login created for the bootstrap account.
	BootstrapOperatorEmail    string
	BootstrapOperatorPassword string
	BootstrapOperatorName     string

	MaxBatchSize      int
	EnforceMaxBalance bool
	SweepBatchSize    int
	// SweeperAccount is the caller recorded by cmd/lease-sweeper; defaults to the bootstrap account.
	SweeperAccount string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("EVENTS_CHANNEL", events.DefaultChannel)
	v.SetDefault("MAX_BATCH_SIZE", constants.DefaultMaxBatchSize)
	v.SetDefault("ENFORCE_MAX_BALANCE", true)
	v.SetDefault("SWEEP_BATCH_SIZE", constants.DefaultSweepBatchSize)
	v.SetDefault("BOOTSTRAP_OPERATOR_NAME", "Bootstrap Operator")

	cfg := &Config{
		Env:                       v.GetString("APP_ENV"),
		Port:                      v.GetString("PORT"),
		LogLevel:                  v.GetString("LOG_LEVEL"),
		DatabaseDriver:            strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseURL:               v.GetString("DATABASE_URL"),
		RedisURL:                  v.GetString("REDIS_URL"),
		SessionSecret:             v.GetString("SESSION_SECRET"),
		FrontendURLEndsWith:       v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:               v.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:         v.GetBool("ALLOW_CROSS_SITE_DEV"),
		HealthAdminKey:            v.GetString("HEALTH_ADMIN_KEY"),
		EventsChannel:             v.GetString("EVENTS_CHANNEL"),
		BootstrapAdminAccount:     v.GetString("BOOTSTRAP_ADMIN_ACCOUNT"),
		BootstrapOperatorEmail:    v.GetString("BOOTSTRAP_OPERATOR_EMAIL"),
		BootstrapOperatorPassword: v.GetString("BOOTSTRAP_OPERATOR_PASSWORD"),
		BootstrapOperatorName:     v.GetString("BOOTSTRAP_OPERATOR_NAME"),
		MaxBatchSize:              v.GetInt("MAX_BATCH_SIZE"),
		EnforceMaxBalance:         v.GetBool("ENFORCE_MAX_BALANCE"),
		SweepBatchSize:            v.GetInt("SWEEP_BATCH_SIZE"),
		SweeperAccount:            v.GetString("SWEEPER_ACCOUNT"),
	}
	if cfg.SweeperAccount == "" {
		cfg.SweeperAccount = cfg.BootstrapAdminAccount
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
