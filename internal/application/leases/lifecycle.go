package leases

import (
	"context"
	"strconv"
	"strings"

	"rwa-backend/internal/application/events"
	"rwa-backend/internal/domain"

	"gorm.io/gorm"
)

// CreateLease offers a lease from the caller (the landlord) to in.Tenant. The caller
// must currently hold a nonzero balance of in.AssetID.
func (s *Service) CreateLease(ctx context.Context, caller domain.Account, in NewLease) (*domain.Lease, error) {
	if in.Tenant.IsZero() {
		return nil, ErrInvalidTenant
	}
	if in.Tenant == caller {
		return nil, ErrTenantIsLandlord
	}
	if in.MonthlyRent <= 0 {
		return nil, ErrNonPositiveRent
	}
	if in.SecurityDeposit <= 0 {
		return nil, ErrNonPositiveDeposit
	}
	now := s.Clock.Now()
	if !in.StartTime.After(now) {
		return nil, ErrStartNotInFuture
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, ErrEndNotAfterStart
	}

	lease := &domain.Lease{
		Landlord:           caller,
		Tenant:             in.Tenant,
		AssetID:            in.AssetID,
		MonthlyRent:        in.MonthlyRent,
		SecurityDeposit:    in.SecurityDeposit,
		StartTime:          in.StartTime.UTC(),
		EndTime:            in.EndTime.UTC(),
		PropertyDescriptor: strings.TrimSpace(in.PropertyDescriptor),
		Status:             domain.LeasePending,
	}
	err := s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		held, err := s.Ledger.Balance(tx, in.AssetID, caller)
		if err != nil {
			return err
		}
		if held <= 0 {
			return ErrNotAssetHolder
		}
		if err := tx.Create(lease).Error; err != nil {
			return err
		}
		return batch.Record(tx, leaseEvent(domain.EventLeaseCreated, caller, lease, 0, map[string]interface{}{
			"tenant":           lease.Tenant,
			"asset_id":         lease.AssetID,
			"monthly_rent":     lease.MonthlyRent,
			"security_deposit": lease.SecurityDeposit,
			"start_time":       lease.StartTime,
			"end_time":         lease.EndTime,
		}))
	})
	if err != nil {
		return nil, err
	}
	return lease, nil
}

// PaySecurityDeposit moves the deposit from the tenant into escrow custody and
// activates the lease.
func (s *Service) PaySecurityDeposit(ctx context.Context, caller domain.Account, leaseID uint) error {
	return s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		lease, err := loadLease(tx, leaseID)
		if err != nil {
			return err
		}
		if caller != lease.Tenant {
			return ErrNotTenant
		}
		if lease.Status != domain.LeasePending {
			return ErrLeaseNotPending
		}
		if lease.DepositPaidAmount != 0 {
			return ErrDepositAlreadyPaid
		}
		if err := transition(tx, lease, domain.LeaseActive, map[string]interface{}{
			"deposit_paid_amount": lease.SecurityDeposit,
		}, ErrLeaseNotPending); err != nil {
			return err
		}
		if err := s.Payments.Move(tx, lease.Tenant, domain.EscrowAccount, lease.SecurityDeposit); err != nil {
			return err
		}
		return batch.Record(tx, leaseEvent(domain.EventDepositPaid, caller, lease, lease.SecurityDeposit, nil))
	})
}

// PayRent pays one period's rent straight to the landlord. Each (month, year) can be
// paid once.
func (s *Service) PayRent(ctx context.Context, caller domain.Account, leaseID uint, month, year int) error {
	if month < 1 || month > 12 || year < 1 {
		return ErrInvalidPeriod
	}
	return s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		lease, err := loadLease(tx, leaseID)
		if err != nil {
			return err
		}
		if caller != lease.Tenant {
			return ErrNotTenant
		}
		if lease.Status != domain.LeaseActive {
			return ErrLeaseNotActive
		}
		var count int64
		if err := tx.Model(&domain.RentPayment{}).
			Where("lease_id = ? AND month = ? AND year = ?", leaseID, month, year).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicatePayment
		}

		now := s.Clock.Now()
		if err := tx.Create(&domain.RentPayment{
			LeaseID: leaseID,
			Month:   month,
			Year:    year,
			Payer:   caller,
			Amount:  lease.MonthlyRent,
			PaidAt:  now,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Lease{}).Where("lease_id = ?", leaseID).Updates(map[string]interface{}{
			"last_payment_time": now,
			"total_rent_paid":   gorm.Expr("total_rent_paid + ?", lease.MonthlyRent),
		}).Error; err != nil {
			return err
		}
		if err := s.Payments.Move(tx, lease.Tenant, lease.Landlord, lease.MonthlyRent); err != nil {
			return err
		}
		return batch.Record(tx, leaseEvent(domain.EventRentPaid, caller, lease, lease.MonthlyRent, map[string]int{
			"month": month,
			"year":  year,
		}))
	})
}

// TerminateLease ends an active lease early. Either party may terminate.
func (s *Service) TerminateLease(ctx context.Context, caller domain.Account, leaseID uint) error {
	return s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		lease, err := loadLease(tx, leaseID)
		if err != nil {
			return err
		}
		if caller != lease.Landlord && caller != lease.Tenant {
			return ErrNotParty
		}
		if err := transition(tx, lease, domain.LeaseTerminated, nil, ErrLeaseNotActive); err != nil {
			return err
		}
		return batch.Record(tx, leaseEvent(domain.EventLeaseTerminated, caller, lease, 0, nil))
	})
}

// ReturnSecurityDeposit releases escrow after the lease has ended: returnAmount to
// the tenant and the rest of the deposit to the landlord.
func (s *Service) ReturnSecurityDeposit(ctx context.Context, caller domain.Account, leaseID uint, returnAmount int64) error {
	if returnAmount < 0 {
		return ErrNegativeReturn
	}
	return s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		lease, err := loadLease(tx, leaseID)
		if err != nil {
			return err
		}
		if caller != lease.Landlord {
			return ErrNotLandlord
		}
		if lease.Status != domain.LeaseTerminated && lease.Status != domain.LeaseExpired {
			return ErrLeaseNotEnded
		}
		if lease.DepositReturned {
			return ErrDepositAlreadyReturned
		}
		if returnAmount > lease.DepositPaidAmount {
			return ErrReturnExceedsDeposit
		}

		res := tx.Model(&domain.Lease{}).
			Where("lease_id = ? AND deposit_returned = ?", leaseID, false).
			Update("deposit_returned", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrDepositAlreadyReturned
		}

		compensation := lease.DepositPaidAmount - returnAmount
		if returnAmount > 0 {
			if err := s.Payments.Move(tx, domain.EscrowAccount, lease.Tenant, returnAmount); err != nil {
				return err
			}
		}
		if compensation > 0 {
			if err := s.Payments.Move(tx, domain.EscrowAccount, lease.Landlord, compensation); err != nil {
				return err
			}
		}
		return batch.Record(tx, leaseEvent(domain.EventDepositReturned, caller, lease, lease.DepositPaidAmount, map[string]int64{
			"tenant_payout":   returnAmount,
			"landlord_payout": compensation,
		}))
	})
}

// CancelLease withdraws an offer the tenant has not yet activated.
func (s *Service) CancelLease(ctx context.Context, caller domain.Account, leaseID uint) error {
	return s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		lease, err := loadLease(tx, leaseID)
		if err != nil {
			return err
		}
		if caller != lease.Landlord {
			return ErrNotLandlord
		}
		if err := transition(tx, lease, domain.LeaseCancelled, nil, ErrLeaseNotPending); err != nil {
			return err
		}
		return batch.Record(tx, leaseEvent(domain.EventLeaseCancelled, caller, lease, 0, nil))
	})
}

// MarkExpired moves every listed lease that is Active and past its end time to Expired.
// Other ids are skipped, so the sweep is safe to repeat. Returns the ids it expired.
func (s *Service) MarkExpired(ctx context.Context, caller domain.Account, leaseIDs []uint) ([]uint, error) {
	if len(leaseIDs) > s.maxSweepSize() {
		return nil, ErrSweepTooLarge
	}
	expired := []uint{}
	err := s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		now := s.Clock.Now()
		for _, id := range leaseIDs {
			lease, err := loadLease(tx, id)
			if err == ErrLeaseNotFound {
				continue
			}
			if err != nil {
				return err
			}
			if lease.Status != domain.LeaseActive || !now.After(lease.EndTime) {
				continue
			}
			if err := transition(tx, lease, domain.LeaseExpired, nil, ErrLeaseNotActive); err != nil {
				if err == ErrLeaseNotActive {
					continue
				}
				return err
			}
			if err := batch.Record(tx, leaseEvent(domain.EventLeaseExpired, caller, lease, 0, nil)); err != nil {
				return err
			}
			expired = append(expired, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

func leaseEvent(kind domain.EventKind, actor domain.Account, lease *domain.Lease, amount int64, data interface{}) domain.AuditEvent {
	id := lease.LeaseID
	assetID := lease.AssetID
	ev := domain.AuditEvent{
		Kind:    kind,
		Actor:   actor,
		Subject: "lease:" + strconv.FormatUint(uint64(id), 10),
		Amount:  amount,
		AssetID: &assetID,
		LeaseID: &id,
	}
	if data != nil {
		ev.Data = events.Data(data)
	}
	return ev
}
