package compliance

import (
	"errors"

	"rwa-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HolderChange describes a completed balance movement of one asset. FromRemaining is
// the sender's balance after the movement.
type HolderChange struct {
	AssetID       uuid.UUID
	From          domain.Account
	To            domain.Account
	Amount        int64
	FromRemaining int64
}

// Configure creates the settings row for a new asset. Called by the ledger when an
// asset is issued, inside the issuing transaction.
func (s *Service) Configure(tx *gorm.DB, assetID uuid.UUID, holderCap, maxBalance int64) error {
	if holderCap < 0 || maxBalance < 0 {
		return ErrNegativeLimit
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&domain.ComplianceSettings{
		AssetID:               assetID,
		HolderCap:             holderCap,
		MaxBalancePerInvestor: maxBalance,
	}).Error
}

// UpdateHolderCount keeps the holder set in step with balances after a movement.
// A sender left at zero stops being a holder; a recipient gaining a first balance
// becomes one. Removal runs first so a full hand-over at the cap still fits.
func (s *Service) UpdateHolderCount(tx *gorm.DB, change HolderChange) error {
	if change.Amount <= 0 || change.From == change.To {
		return nil
	}
	if err := ensureSettings(tx, change.AssetID); err != nil {
		return err
	}

	if !change.From.IsZero() && change.FromRemaining == 0 {
		res := tx.Where("asset_id = ? AND account = ?", change.AssetID, change.From).Delete(&domain.Holder{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			if err := tx.Model(&domain.ComplianceSettings{}).
				Where("asset_id = ?", change.AssetID).
				Update("holder_count", gorm.Expr("holder_count - 1")).Error; err != nil {
				return err
			}
		}
	}

	if change.To.IsZero() {
		return nil
	}
	holder, err := isHolder(tx, change.AssetID, change.To)
	if err != nil || holder {
		return err
	}
	settings, err := loadSettings(tx, change.AssetID)
	if err != nil {
		return err
	}
	if settings.HolderCap > 0 && settings.HolderCount >= settings.HolderCap {
		return ErrHolderCapExceeded
	}
	if err := tx.Create(&domain.Holder{AssetID: change.AssetID, Account: change.To}).Error; err != nil {
		return err
	}
	return tx.Model(&domain.ComplianceSettings{}).
		Where("asset_id = ?", change.AssetID).
		Update("holder_count", gorm.Expr("holder_count + 1")).Error
}

func ensureSettings(tx *gorm.DB, assetID uuid.UUID) error {
	var settings domain.ComplianceSettings
	err := tx.Where("asset_id = ?", assetID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&domain.ComplianceSettings{AssetID: assetID}).Error
	}
	return err
}
