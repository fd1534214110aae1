package compliance

import (
	"context"
	"errors"
	"strconv"

	"rwa-backend/internal/application/access"
	"rwa-backend/internal/application/events"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddToBlacklist bars account from all transfers.
func (s *Service) AddToBlacklist(ctx context.Context, caller, account domain.Account) error {
	if account.IsZero() {
		return ErrInvalidAccount
	}
	return s.administer(ctx, caller, func(tx *gorm.DB, batch *events.Batch) error {
		listed, err := isBlacklisted(tx, account)
		if err != nil {
			return err
		}
		if listed {
			return ErrAlreadyBlacklisted
		}
		if err := tx.Create(&domain.BlacklistEntry{Account: account, AddedBy: caller}).Error; err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventBlacklistAdded,
			Actor:   caller,
			Subject: account.String(),
		})
	})
}

// RemoveFromBlacklist lifts the bar on account.
func (s *Service) RemoveFromBlacklist(ctx context.Context, caller, account domain.Account) error {
	return s.administer(ctx, caller, func(tx *gorm.DB, batch *events.Batch) error {
		res := tx.Where("account = ?", account).Delete(&domain.BlacklistEntry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotBlacklisted
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventBlacklistRemoved,
			Actor:   caller,
			Subject: account.String(),
		})
	})
}

// AddRestrictedJurisdiction denies transfers involving investors registered under code.
func (s *Service) AddRestrictedJurisdiction(ctx context.Context, caller domain.Account, code uint16) error {
	if code == 0 {
		return ErrZeroJurisdiction
	}
	return s.administer(ctx, caller, func(tx *gorm.DB, batch *events.Batch) error {
		restricted, err := isRestricted(tx, code)
		if err != nil {
			return err
		}
		if restricted {
			return ErrAlreadyRestricted
		}
		if err := tx.Create(&domain.RestrictedJurisdiction{Code: code, AddedBy: caller}).Error; err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventJurisdictionRestricted,
			Actor:   caller,
			Subject: jurisdictionSubject(code),
			Data:    events.Data(map[string]uint16{"code": code}),
		})
	})
}

// RemoveRestrictedJurisdiction re-allows code.
func (s *Service) RemoveRestrictedJurisdiction(ctx context.Context, caller domain.Account, code uint16) error {
	return s.administer(ctx, caller, func(tx *gorm.DB, batch *events.Batch) error {
		res := tx.Where("code = ?", code).Delete(&domain.RestrictedJurisdiction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotRestricted
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventJurisdictionUnrestricted,
			Actor:   caller,
			Subject: jurisdictionSubject(code),
			Data:    events.Data(map[string]uint16{"code": code}),
		})
	})
}

// SetHolderCap sets the maximum number of distinct holders of assetID. Zero means unlimited.
func (s *Service) SetHolderCap(ctx context.Context, caller domain.Account, assetID uuid.UUID, holderCap int64) error {
	if holderCap < 0 {
		return ErrNegativeLimit
	}
	return s.administer(ctx, caller, func(tx *gorm.DB, batch *events.Batch) error {
		settings, err := s.settingsFor(tx, assetID)
		if err != nil {
			return err
		}
		if settings.HolderCap == holderCap {
			return ErrHolderCapUnchanged
		}
		if holderCap > 0 && holderCap < settings.HolderCount {
			return ErrHolderCapBelowCount
		}
		if err := tx.Model(settings).Update("holder_cap", holderCap).Error; err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventHolderCapSet,
			Actor:   caller,
			Subject: assetID.String(),
			Amount:  holderCap,
			AssetID: &assetID,
			Data:    events.Data(map[string]int64{"previous": settings.HolderCap, "holder_count": settings.HolderCount}),
		})
	})
}

// SetMaxBalancePerInvestor sets the per-account balance ceiling of assetID. Zero disables it.
func (s *Service) SetMaxBalancePerInvestor(ctx context.Context, caller domain.Account, assetID uuid.UUID, limit int64) error {
	if limit < 0 {
		return ErrNegativeLimit
	}
	return s.administer(ctx, caller, func(tx *gorm.DB, batch *events.Batch) error {
		settings, err := s.settingsFor(tx, assetID)
		if err != nil {
			return err
		}
		if settings.MaxBalancePerInvestor == limit {
			return ErrMaxBalanceUnchanged
		}
		if err := tx.Model(settings).Update("max_balance_per_investor", limit).Error; err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventMaxBalanceSet,
			Actor:   caller,
			Subject: assetID.String(),
			Amount:  limit,
			AssetID: &assetID,
			Data:    events.Data(map[string]int64{"previous": settings.MaxBalancePerInvestor}),
		})
	})
}

// State returns the holder bookkeeping and limits of assetID.
func (s *Service) State(ctx context.Context, assetID uuid.UUID) (*domain.ComplianceSettings, error) {
	return s.settingsFor(s.DB.WithContext(ctx), assetID)
}

// IsHolder reports whether account currently counts as a holder of assetID.
func (s *Service) IsHolder(ctx context.Context, assetID uuid.UUID, account domain.Account) (bool, error) {
	return isHolder(s.DB.WithContext(ctx), assetID, account)
}

// UntrackedHolders lists accounts holding a balance of assetID that are missing from
// the holder set. Only a failed holder sync (a forced transfer past the cap) leaves
// such accounts; the gate treats them as new holders until the set is repaired.
func (s *Service) UntrackedHolders(ctx context.Context, assetID uuid.UUID) ([]domain.Account, error) {
	db := s.DB.WithContext(ctx)
	tracked := db.Model(&domain.Holder{}).Select("account").Where("asset_id = ?", assetID)
	accounts := []domain.Account{}
	err := db.Model(&domain.Balance{}).
		Where("asset_id = ? AND amount > 0", assetID).
		Where("account NOT IN (?)", tracked).
		Order("account ASC").
		Pluck("account", &accounts).Error
	return accounts, err
}

// IsBlacklisted reports whether account is barred.
func (s *Service) IsBlacklisted(ctx context.Context, account domain.Account) (bool, error) {
	return isBlacklisted(s.DB.WithContext(ctx), account)
}

func (s *Service) ListBlacklist(ctx context.Context) ([]domain.BlacklistEntry, error) {
	entries := []domain.BlacklistEntry{}
	err := s.DB.WithContext(ctx).Order("account ASC").Find(&entries).Error
	return entries, err
}

func (s *Service) ListRestrictedJurisdictions(ctx context.Context) ([]domain.RestrictedJurisdiction, error) {
	codes := []domain.RestrictedJurisdiction{}
	err := s.DB.WithContext(ctx).Order("code ASC").Find(&codes).Error
	return codes, err
}

// administer runs fn in a transaction after checking the compliance officer
// capability, then publishes whatever fn recorded.
func (s *Service) administer(ctx context.Context, caller domain.Account, fn func(tx *gorm.DB, batch *events.Batch) error) error {
	batch := events.NewBatch(s.Clock.Now())
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := access.Require(tx, caller, constants.ComplianceOfficer); err != nil {
			return err
		}
		return fn(tx, batch)
	})
	if err != nil {
		return err
	}
	s.Events.Publish(ctx, batch)
	return nil
}

func (s *Service) settingsFor(tx *gorm.DB, assetID uuid.UUID) (*domain.ComplianceSettings, error) {
	var settings domain.ComplianceSettings
	if err := tx.Where("asset_id = ?", assetID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownAsset
		}
		return nil, err
	}
	return &settings, nil
}

func jurisdictionSubject(code uint16) string {
	return "jurisdiction:" + strconv.FormatUint(uint64(code), 10)
}
