package leases

import (
	"context"
	"errors"
	"time"

	"rwa-backend/internal/application/events"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/clock"
	"rwa-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ownership is the read-only ledger view used for the landlord precondition.
type Ownership interface {
	Balance(tx *gorm.DB, assetID uuid.UUID, account domain.Account) (int64, error)
}

// Payments moves payment tokens inside the caller's transaction.
type Payments interface {
	Move(tx *gorm.DB, from, to domain.Account, amount int64) error
}

// Service is the lease escrow engine. Each operation applies its own state change
// before moving any payment tokens, so a repeated call observes the new state.
type Service struct {
	DB           *gorm.DB
	Ledger       Ownership
	Payments     Payments
	Events       *events.Service
	Clock        clock.Clock
	MaxSweepSize int
}

// NewLease is the landlord's offer.
type NewLease struct {
	Tenant             domain.Account
	AssetID            uuid.UUID
	MonthlyRent        int64
	SecurityDeposit    int64
	StartTime          time.Time
	EndTime            time.Time
	PropertyDescriptor string
}

func loadLease(tx *gorm.DB, id uint) (*domain.Lease, error) {
	var lease domain.Lease
	if err := tx.Where("lease_id = ?", id).First(&lease).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaseNotFound
		}
		return nil, err
	}
	return &lease, nil
}

// transition moves lease from its loaded status to next, with extra column updates.
// The update is conditional on the loaded status so a concurrent writer cannot
// apply the same transition twice. denied is returned when the move is not allowed.
func transition(tx *gorm.DB, lease *domain.Lease, next domain.LeaseStatus, fields map[string]interface{}, denied error) error {
	if !lease.Status.CanTransitionTo(next) {
		return denied
	}
	updates := map[string]interface{}{"status": next}
	for k, v := range fields {
		updates[k] = v
	}
	res := tx.Model(&domain.Lease{}).
		Where("lease_id = ? AND status = ?", lease.LeaseID, lease.Status).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return denied
	}
	lease.Status = next
	return nil
}

func (s *Service) commit(ctx context.Context, fn func(tx *gorm.DB, batch *events.Batch) error) error {
	batch := events.NewBatch(s.Clock.Now())
	if err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, batch)
	}); err != nil {
		return err
	}
	s.Events.Publish(ctx, batch)
	return nil
}

func (s *Service) maxSweepSize() int {
	if s.MaxSweepSize <= 0 {
		return constants.DefaultSweepBatchSize
	}
	return s.MaxSweepSize
}
