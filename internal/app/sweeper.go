package app

import (
	"context"

	"rwa-backend/internal/application/leases"
	"rwa-backend/internal/domain"

	"github.com/rs/zerolog/log"
)

// SweepExpired expires overdue Active leases in batches until none remain and returns
// how many it moved. With dryRun it only counts the first batch of candidates.
func SweepExpired(ctx context.Context, svc *leases.Service, caller domain.Account, batchSize int, dryRun bool) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		ids, err := svc.ExpiredCandidates(ctx, svc.Clock.Now(), batchSize)
		if err != nil {
			return total, err
		}
		if len(ids) == 0 {
			return total, nil
		}
		if dryRun {
			log.Info().Uints("lease_ids", ids).Msg("sweeper: expired candidates")
			return len(ids), nil
		}
		expired, err := svc.MarkExpired(ctx, caller, ids)
		if err != nil {
			return total, err
		}
		total += len(expired)
		log.Info().Int("candidates", len(ids)).Int("expired", len(expired)).Msg("sweeper: batch done")
		if len(expired) == 0 {
			// Candidates that refuse to expire would loop forever.
			return total, nil
		}
	}
}
