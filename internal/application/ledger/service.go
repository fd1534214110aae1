package ledger

import (
	"context"
	"errors"

	"rwa-backend/internal/application/compliance"
	"rwa-backend/internal/application/events"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/clock"
	"rwa-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Gate is the compliance surface the ledger consults on every mutation.
type Gate interface {
	Evaluate(tx *gorm.DB, assetID uuid.UUID, from, to domain.Account, amount int64) error
	UpdateHolderCount(tx *gorm.DB, change compliance.HolderChange) error
	Configure(tx *gorm.DB, assetID uuid.UUID, holderCap, maxBalance int64) error
}

// Service is the permissioned, multi-asset balance ledger.
type Service struct {
	DB           *gorm.DB
	Gate         Gate
	Events       *events.Service
	Clock        clock.Clock
	MaxBatchSize int
}

func (s *Service) maxBatchSize() int {
	if s.MaxBatchSize <= 0 {
		return constants.DefaultMaxBatchSize
	}
	return s.MaxBatchSize
}

// Balance reads account's balance of assetID through tx. Missing rows read as zero.
func (s *Service) Balance(tx *gorm.DB, assetID uuid.UUID, account domain.Account) (int64, error) {
	var bal domain.Balance
	err := tx.Where("asset_id = ? AND account = ?", assetID, account).First(&bal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return bal.Amount, nil
}

// BalanceOf returns account's balance of assetID.
func (s *Service) BalanceOf(ctx context.Context, assetID uuid.UUID, account domain.Account) (int64, error) {
	return s.Balance(s.DB.WithContext(ctx), assetID, account)
}

// TotalSupply returns the outstanding supply of assetID.
func (s *Service) TotalSupply(ctx context.Context, assetID uuid.UUID) (int64, error) {
	asset, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return 0, err
	}
	return asset.TotalSupply, nil
}

// Allowance returns how much spender may still move out of owner's balance.
func (s *Service) Allowance(ctx context.Context, assetID uuid.UUID, owner, spender domain.Account) (int64, error) {
	var a domain.Allowance
	err := s.DB.WithContext(ctx).
		Where("asset_id = ? AND owner = ? AND spender = ?", assetID, owner, spender).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return a.Amount, nil
}

// Holdings lists the nonzero balances of assetID, largest first.
func (s *Service) Holdings(ctx context.Context, assetID uuid.UUID) ([]domain.Balance, error) {
	balances := []domain.Balance{}
	err := s.DB.WithContext(ctx).
		Where("asset_id = ? AND amount > 0", assetID).
		Order("amount DESC").Order("account ASC").
		Find(&balances).Error
	return balances, err
}

// debit takes amount from account, failing without side effects on shortfall.
// Returns the remaining balance.
func debit(tx *gorm.DB, assetID uuid.UUID, account domain.Account, amount int64) (int64, error) {
	res := tx.Model(&domain.Balance{}).
		Where("asset_id = ? AND account = ? AND amount >= ?", assetID, account, amount).
		Update("amount", gorm.Expr("amount - ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrInsufficientBalance
	}
	var bal domain.Balance
	if err := tx.Where("asset_id = ? AND account = ?", assetID, account).First(&bal).Error; err != nil {
		return 0, err
	}
	return bal.Amount, nil
}

func credit(tx *gorm.DB, assetID uuid.UUID, account domain.Account, amount int64) error {
	res := tx.Model(&domain.Balance{}).
		Where("asset_id = ? AND account = ?", assetID, account).
		Update("amount", gorm.Expr("amount + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return tx.Create(&domain.Balance{AssetID: assetID, Account: account, Amount: amount}).Error
}

// move debits from and credits to, returning from's remaining balance.
func move(tx *gorm.DB, assetID uuid.UUID, from, to domain.Account, amount int64) (int64, error) {
	remaining, err := debit(tx, assetID, from, amount)
	if err != nil {
		return 0, err
	}
	if err := credit(tx, assetID, to, amount); err != nil {
		return 0, err
	}
	if from == to {
		remaining += amount
	}
	return remaining, nil
}

// syncHolders reports a completed movement to the gate inside a savepoint. A failure
// rolls back only the holder bookkeeping; it is logged and recorded as a
// holder_sync_failed event, and the mutation itself proceeds.
func (s *Service) syncHolders(tx *gorm.DB, batch *events.Batch, caller domain.Account, change compliance.HolderChange) error {
	err := tx.Transaction(func(sp *gorm.DB) error {
		return s.Gate.UpdateHolderCount(sp, change)
	})
	if err == nil {
		return nil
	}
	log.Warn().Err(err).
		Str("asset_id", change.AssetID.String()).
		Str("from", change.From.String()).
		Str("to", change.To.String()).
		Int64("amount", change.Amount).
		Msg("Holder count sync failed")
	assetID := change.AssetID
	return batch.Record(tx, domain.AuditEvent{
		Kind:    domain.EventHolderSyncFailed,
		Actor:   caller,
		Subject: assetID.String(),
		Amount:  change.Amount,
		AssetID: &assetID,
		Data: events.Data(map[string]string{
			"from":  change.From.String(),
			"to":    change.To.String(),
			"error": err.Error(),
		}),
	})
}

func requireAsset(tx *gorm.DB, assetID uuid.UUID) (*domain.Asset, error) {
	var asset domain.Asset
	if err := tx.Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// commit runs fn in a transaction and publishes its events once committed.
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
