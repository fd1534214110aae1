package access

import (
	"context"
	"errors"

	"rwa-backend/internal/application/events"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/clock"
	"rwa-backend/internal/pkg/constants"

	"gorm.io/gorm"
)

// Service owns the capability table.
type Service struct {
	DB     *gorm.DB
	Events *events.Service
	Clock  clock.Clock
}

// Has reports whether account holds capability, reading through tx.
func Has(tx *gorm.DB, account domain.Account, capability string) (bool, error) {
	if account.IsZero() {
		return false, nil
	}
	var count int64
	if err := tx.Model(&domain.CapabilityGrant{}).
		Where("account = ? AND capability = ?", account, capability).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Require is the single capability check every guarded operation calls inside its transaction.
func Require(tx *gorm.DB, caller domain.Account, capability string) error {
	ok, err := Has(tx, caller, capability)
	if err != nil {
		return err
	}
	if !ok {
		if e, found := missingCapability[capability]; found {
			return e
		}
		return ErrUnknownCapability
	}
	return nil
}

// Require checks caller outside of any transaction (used by route guards).
func (s *Service) Require(ctx context.Context, caller domain.Account, capability string) error {
	return Require(s.DB.WithContext(ctx), caller, capability)
}

// List returns the capabilities held by account.
func (s *Service) List(ctx context.Context, account domain.Account) ([]string, error) {
	caps := []string{}
	if err := s.DB.WithContext(ctx).Model(&domain.CapabilityGrant{}).
		Where("account = ?", account).
		Order("capability ASC").
		Pluck("capability", &caps).Error; err != nil {
		return nil, err
	}
	return caps, nil
}

// Grant gives account a capability. Caller must be an admin.
func (s *Service) Grant(ctx context.Context, caller, account domain.Account, capability string) error {
	if account.IsZero() {
		return ErrInvalidAccount
	}
	if !constants.IsValidCapability(capability) {
		return ErrUnknownCapability
	}
	batch := events.NewBatch(s.Clock.Now())
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := Require(tx, caller, constants.Admin); err != nil {
			return err
		}
		return grant(tx, batch, caller, account, capability)
	})
	if err != nil {
		return err
	}
	s.Events.Publish(ctx, batch)
	return nil
}

// Revoke removes a capability. Caller must be an admin; the last admin cannot be removed.
func (s *Service) Revoke(ctx context.Context, caller, account domain.Account, capability string) error {
	if account.IsZero() {
		return ErrInvalidAccount
	}
	if !constants.IsValidCapability(capability) {
		return ErrUnknownCapability
	}
	batch := events.NewBatch(s.Clock.Now())
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := Require(tx, caller, constants.Admin); err != nil {
			return err
		}
		held, err := Has(tx, account, capability)
		if err != nil {
			return err
		}
		if !held {
			return ErrNotGranted
		}
		if capability == constants.Admin {
			var admins int64
			if err := tx.Model(&domain.CapabilityGrant{}).Where("capability = ?", constants.Admin).Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}
		if err := tx.Where("account = ? AND capability = ?", account, capability).
			Delete(&domain.CapabilityGrant{}).Error; err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventCapabilityRevoked,
			Actor:   caller,
			Subject: account.String(),
			Data:    events.Data(map[string]string{"capability": capability}),
		})
	})
	if err != nil {
		return err
	}
	s.Events.Publish(ctx, batch)
	return nil
}

// Bootstrap grants capabilities without an admin check. It is the one-time deployment step
// that seeds the first admin; capabilities already held are skipped.
func (s *Service) Bootstrap(ctx context.Context, account domain.Account, capabilities ...string) error {
	if account.IsZero() {
		return ErrInvalidAccount
	}
	batch := events.NewBatch(s.Clock.Now())
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range capabilities {
			if !constants.IsValidCapability(c) {
				return ErrUnknownCapability
			}
			if err := grant(tx, batch, domain.ZeroAccount, account, c); err != nil && !errors.Is(err, ErrAlreadyGranted) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Events.Publish(ctx, batch)
	return nil
}

func grant(tx *gorm.DB, batch *events.Batch, caller, account domain.Account, capability string) error {
	held, err := Has(tx, account, capability)
	if err != nil {
		return err
	}
	if held {
		return ErrAlreadyGranted
	}
	if err := tx.Create(&domain.CapabilityGrant{
		Account:    account,
		Capability: capability,
		GrantedBy:  caller,
	}).Error; err != nil {
		return err
	}
	return batch.Record(tx, domain.AuditEvent{
		Kind:    domain.EventCapabilityGranted,
		Actor:   caller,
		Subject: account.String(),
		Data:    events.Data(map[string]string{"capability": capability}),
	})
}
