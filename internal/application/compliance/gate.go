package compliance

import (
	"context"
	"errors"

	"rwa-backend/internal/application/events"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/apperr"
	"rwa-backend/internal/pkg/clock"
	"rwa-backend/internal/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Directory is the identity lookup the gate consumes.
type Directory interface {
	Lookup(tx *gorm.DB, account domain.Account) (*domain.Identity, error)
}

// Service is the compliance gate. It exclusively owns the blacklist, the restricted
// jurisdiction set and per-asset holder bookkeeping.
type Service struct {
	DB       *gorm.DB
	Identity Directory
	Events   *events.Service
	Clock    clock.Clock
	// EnforceMaxBalance makes Evaluate reject transfers that would lift the recipient
	// above the asset's MaxBalancePerInvestor (when that limit is nonzero).
	EnforceMaxBalance bool
	Metrics           *metrics.Metrics
}

// CanTransfer answers whether amount of assetID may move from -> to right now.
// The returned error is only set for infrastructure failures.
func (s *Service) CanTransfer(ctx context.Context, assetID uuid.UUID, from, to domain.Account, amount int64) (bool, error) {
	err := s.Check(ctx, assetID, from, to, amount)
	if err == nil {
		return true, nil
	}
	if apperr.KindOf(err) == apperr.ComplianceViolation {
		return false, nil
	}
	return false, err
}

// Check is CanTransfer with the denial reason: nil when allowed, one of the
// ComplianceViolation errors when denied.
func (s *Service) Check(ctx context.Context, assetID uuid.UUID, from, to domain.Account, amount int64) error {
	return s.Evaluate(s.DB.WithContext(ctx), assetID, from, to, amount)
}

// Evaluate runs the decision inside tx. Checks run in order and stop at the first failure:
//  1. recipient is a real account and amount > 0
//  2. mint (from is the sentinel): recipient only
//  3. transfer: blacklist, verification, jurisdiction for both parties, then capacity
func (s *Service) Evaluate(tx *gorm.DB, assetID uuid.UUID, from, to domain.Account, amount int64) error {
	err := s.evaluate(tx, assetID, from, to, amount)
	switch {
	case err == nil:
		s.Metrics.ComplianceDecision("allowed", "")
	case apperr.KindOf(err) == apperr.ComplianceViolation:
		s.Metrics.ComplianceDecision("denied", err.Error())
	default:
		s.Metrics.ComplianceDecision("error", "")
	}
	return err
}

func (s *Service) evaluate(tx *gorm.DB, assetID uuid.UUID, from, to domain.Account, amount int64) error {
	if to.IsZero() {
		return ErrInvalidRecipient
	}
	if amount <= 0 {
		return ErrNonPositiveAmount
	}

	if from == domain.MintSentinel {
		if err := s.checkBlacklist(tx, to, ErrRecipientBlacklisted); err != nil {
			return err
		}
		rec, err := s.checkVerified(tx, to, ErrRecipientNotVerified)
		if err != nil {
			return err
		}
		if err := s.checkJurisdiction(tx, rec, ErrRecipientJurisdictionRestricted); err != nil {
			return err
		}
		return s.checkCapacity(tx, assetID, from, to, amount)
	}

	if err := s.checkBlacklist(tx, from, ErrSenderBlacklisted); err != nil {
		return err
	}
	if err := s.checkBlacklist(tx, to, ErrRecipientBlacklisted); err != nil {
		return err
	}
	fromRec, err := s.checkVerified(tx, from, ErrSenderNotVerified)
	if err != nil {
		return err
	}
	toRec, err := s.checkVerified(tx, to, ErrRecipientNotVerified)
	if err != nil {
		return err
	}
	if err := s.checkJurisdiction(tx, fromRec, ErrSenderJurisdictionRestricted); err != nil {
		return err
	}
	if err := s.checkJurisdiction(tx, toRec, ErrRecipientJurisdictionRestricted); err != nil {
		return err
	}
	return s.checkCapacity(tx, assetID, from, to, amount)
}

func (s *Service) checkBlacklist(tx *gorm.DB, account domain.Account, denial error) error {
	listed, err := isBlacklisted(tx, account)
	if err != nil {
		return err
	}
	if listed {
		return denial
	}
	return nil
}

func (s *Service) checkVerified(tx *gorm.DB, account domain.Account, denial error) (*domain.Identity, error) {
	rec, err := s.Identity.Lookup(tx, account)
	if err != nil {
		return nil, err
	}
	if rec == nil || !rec.Verified() {
		return nil, denial
	}
	return rec, nil
}

func (s *Service) checkJurisdiction(tx *gorm.DB, rec *domain.Identity, denial error) error {
	restricted, err := isRestricted(tx, rec.JurisdictionCode)
	if err != nil {
		return err
	}
	if restricted {
		return denial
	}
	return nil
}

// checkCapacity enforces the holder cap for new holders and, when enabled, the
// per-investor maximum balance.
func (s *Service) checkCapacity(tx *gorm.DB, assetID uuid.UUID, from, to domain.Account, amount int64) error {
	settings, err := loadSettings(tx, assetID)
	if err != nil {
		return err
	}
	holder, err := isHolder(tx, assetID, to)
	if err != nil {
		return err
	}
	if !holder && settings.HolderCap > 0 && settings.HolderCount >= settings.HolderCap {
		return ErrHolderCapReached
	}
	if s.EnforceMaxBalance && settings.MaxBalancePerInvestor > 0 && from != to {
		var bal domain.Balance
		err := tx.Where("asset_id = ? AND account = ?", assetID, to).First(&bal).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if bal.Amount+amount > settings.MaxBalancePerInvestor {
			return ErrMaxBalanceExceeded
		}
	}
	return nil
}

func isBlacklisted(tx *gorm.DB, account domain.Account) (bool, error) {
	var count int64
	if err := tx.Model(&domain.BlacklistEntry{}).Where("account = ?", account).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func isRestricted(tx *gorm.DB, code uint16) (bool, error) {
	var count int64
	if err := tx.Model(&domain.RestrictedJurisdiction{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func isHolder(tx *gorm.DB, assetID uuid.UUID, account domain.Account) (bool, error) {
	var count int64
	if err := tx.Model(&domain.Holder{}).Where("asset_id = ? AND account = ?", assetID, account).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// loadSettings returns the asset's settings, or unlimited defaults when none exist yet.
func loadSettings(tx *gorm.DB, assetID uuid.UUID) (domain.ComplianceSettings, error) {
	var settings domain.ComplianceSettings
	err := tx.Where("asset_id = ?", assetID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ComplianceSettings{AssetID: assetID}, nil
	}
	return settings, err
}
