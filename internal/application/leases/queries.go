package leases

import (
	"context"
	"time"

	"rwa-backend/internal/domain"
)

func (s *Service) GetLease(ctx context.Context, leaseID uint) (*domain.Lease, error) {
	return loadLease(s.DB.WithContext(ctx), leaseID)
}

// GetRentPayments lists a lease's rent records in period order.
func (s *Service) GetRentPayments(ctx context.Context, leaseID uint) ([]domain.RentPayment, error) {
	db := s.DB.WithContext(ctx)
	if _, err := loadLease(db, leaseID); err != nil {
		return nil, err
	}
	payments := []domain.RentPayment{}
	err := db.Where("lease_id = ?", leaseID).
		Order("year ASC").Order("month ASC").
		Find(&payments).Error
	return payments, err
}

func (s *Service) GetLandlordLeases(ctx context.Context, landlord domain.Account) ([]domain.Lease, error) {
	leases := []domain.Lease{}
	err := s.DB.WithContext(ctx).Where("landlord = ?", landlord).Order("lease_id ASC").Find(&leases).Error
	return leases, err
}

func (s *Service) GetTenantLeases(ctx context.Context, tenant domain.Account) ([]domain.Lease, error) {
	leases := []domain.Lease{}
	err := s.DB.WithContext(ctx).Where("tenant = ?", tenant).Order("lease_id ASC").Find(&leases).Error
	return leases, err
}

// IsLeaseExpired is true once a lease has been swept to Expired, and also for an
// Active lease whose end time has passed but which no sweep has reached yet.
func (s *Service) IsLeaseExpired(ctx context.Context, leaseID uint) (bool, error) {
	lease, err := s.GetLease(ctx, leaseID)
	if err != nil {
		return false, err
	}
	switch lease.Status {
	case domain.LeaseExpired:
		return true, nil
	case domain.LeaseActive:
		return s.Clock.Now().After(lease.EndTime), nil
	}
	return false, nil
}

// ExpiredCandidates returns up to limit Active leases whose end time is before now,
// oldest end time first. The sweeper feeds these to MarkExpired.
func (s *Service) ExpiredCandidates(ctx context.Context, now time.Time, limit int) ([]uint, error) {
	if limit <= 0 || limit > s.maxSweepSize() {
		limit = s.maxSweepSize()
	}
	ids := []uint{}
	err := s.DB.WithContext(ctx).Model(&domain.Lease{}).
		Where("status = ? AND end_time < ?", domain.LeaseActive, now.UTC()).
		Order("end_time ASC").Order("lease_id ASC").
		Limit(limit).
		Pluck("lease_id", &ids).Error
	return ids, err
}
