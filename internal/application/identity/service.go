package identity

import (
	"context"
	"errors"
	"strings"

	"rwa-backend/internal/application/access"
	"rwa-backend/internal/application/events"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/clock"
	"rwa-backend/internal/pkg/constants"

	"gorm.io/gorm"
)

// Service is the identity directory: account -> verified identity record.
// Mutations require the compliance officer capability.
type Service struct {
	DB     *gorm.DB
	Events *events.Service
	Clock  clock.Clock
}

// Lookup returns the record for account through tx, or nil when unregistered.
func (s *Service) Lookup(tx *gorm.DB, account domain.Account) (*domain.Identity, error) {
	var rec domain.Identity
	if err := tx.Where("account = ?", account).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Get returns the identity record for account.
func (s *Service) Get(ctx context.Context, account domain.Account) (*domain.Identity, error) {
	rec, err := s.Lookup(s.DB.WithContext(ctx), account)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrIdentityNotFound
	}
	return rec, nil
}

// IsVerified is true iff a record exists with a non-empty handle.
func (s *Service) IsVerified(ctx context.Context, account domain.Account) (bool, error) {
	rec, err := s.Lookup(s.DB.WithContext(ctx), account)
	if err != nil {
		return false, err
	}
	return rec != nil && rec.Verified(), nil
}

// InvestorJurisdiction returns the registered jurisdiction code of account.
func (s *Service) InvestorJurisdiction(ctx context.Context, account domain.Account) (uint16, error) {
	rec, err := s.Get(ctx, account)
	if err != nil {
		return 0, err
	}
	return rec.JurisdictionCode, nil
}

// Register creates or overwrites the identity record of account.
func (s *Service) Register(ctx context.Context, caller, account domain.Account, handle string, code uint16) error {
	handle = strings.TrimSpace(handle)
	if account.IsZero() {
		return ErrInvalidAccount
	}
	if handle == "" {
		return ErrEmptyIdentityHandle
	}
	if code == 0 {
		return ErrZeroJurisdiction
	}
	batch := events.NewBatch(s.Clock.Now())
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := access.Require(tx, caller, constants.ComplianceOfficer); err != nil {
			return err
		}
		existing, err := s.Lookup(tx, account)
		if err != nil {
			return err
		}
		rec := domain.Identity{Account: account, IdentityHandle: handle, JurisdictionCode: code}
		if existing != nil {
			rec.CreatedAt = existing.CreatedAt
		}
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventIdentityRegistered,
			Actor:   caller,
			Subject: account.String(),
			Data: events.Data(map[string]interface{}{
				"identity_handle":   handle,
				"jurisdiction_code": code,
				"overwrote":         existing != nil,
			}),
		})
	})
	if err != nil {
		return err
	}
	s.Events.Publish(ctx, batch)
	return nil
}

// Remove deletes the identity record of account.
func (s *Service) Remove(ctx context.Context, caller, account domain.Account) error {
	batch := events.NewBatch(s.Clock.Now())
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := access.Require(tx, caller, constants.ComplianceOfficer); err != nil {
			return err
		}
		res := tx.Where("account = ?", account).Delete(&domain.Identity{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrIdentityNotFound
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventIdentityRemoved,
			Actor:   caller,
			Subject: account.String(),
		})
	})
	if err != nil {
		return err
	}
	s.Events.Publish(ctx, batch)
	return nil
}

// UpdateJurisdiction changes the jurisdiction of a registered account.
func (s *Service) UpdateJurisdiction(ctx context.Context, caller, account domain.Account, code uint16) error {
	batch := events.NewBatch(s.Clock.Now())
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := access.Require(tx, caller, constants.ComplianceOfficer); err != nil {
			return err
		}
		rec, err := s.Lookup(tx, account)
		if err != nil {
			return err
		}
		if rec == nil {
			return ErrIdentityNotFound
		}
		if code == 0 {
			return ErrZeroJurisdiction
		}
		previous := rec.JurisdictionCode
		if err := tx.Model(rec).Update("jurisdiction_code", code).Error; err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventJurisdictionUpdated,
			Actor:   caller,
			Subject: account.String(),
			Data:    events.Data(map[string]uint16{"from": previous, "to": code}),
		})
	})
	if err != nil {
		return err
	}
	s.Events.Publish(ctx, batch)
	return nil
}
