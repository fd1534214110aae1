// Package bootstrap performs the one-time deployment seeding: the configured bootstrap
// account receives admin, agent and compliance_officer, and optionally an operator login.
// Running it again is harmless.
package bootstrap

import (
	"context"
	"errors"

	"rwa-backend/internal/app"
	"rwa-backend/internal/application/auth"
	"rwa-backend/internal/config"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/constants"

	"github.com/rs/zerolog/log"
)

// ErrInvalidBootstrapAccount is returned when BOOTSTRAP_ADMIN_ACCOUNT is set but malformed.
var ErrInvalidBootstrapAccount = errors.New("bootstrap: BOOTSTRAP_ADMIN_ACCOUNT is not a valid account address")

// Run seeds capabilities and the operator login described by cfg. An unset
// BOOTSTRAP_ADMIN_ACCOUNT skips the step.
func Run(ctx context.Context, svcs *app.Services, cfg *config.Config) error {
	if cfg.BootstrapAdminAccount == "" {
		log.Info().Msg("bootstrap: no admin account configured, skipping")
		return nil
	}
	account, ok := domain.ParseAccount(cfg.BootstrapAdminAccount)
	if !ok || account.IsZero() {
		return ErrInvalidBootstrapAccount
	}
	if err := svcs.Access.Bootstrap(ctx, account, constants.Admin, constants.Agent, constants.ComplianceOfficer); err != nil {
		return err
	}
	log.Info().Str("account", account.String()).Msg("bootstrap: capabilities seeded")

	if cfg.BootstrapOperatorEmail == "" || cfg.BootstrapOperatorPassword == "" {
		return nil
	}
	user, err := auth.UpsertOperator(ctx, svcs.DB, auth.OperatorInput{
		Fullname: cfg.BootstrapOperatorName,
		Email:    cfg.BootstrapOperatorEmail,
		Password: cfg.BootstrapOperatorPassword,
		Account:  account.String(),
	})
	if err != nil {
		return err
	}
	log.Info().Str("user_id", user.UserID.String()).Str("email", user.Email).Msg("bootstrap: operator ready")
	return nil
}
