package ledger

import (
	"context"

	"rwa-backend/internal/application/access"
	"rwa-backend/internal/application/compliance"
	"rwa-backend/internal/application/events"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mint issues amount of assetID to to. Caller must be an agent; the recipient must
// pass the gate and the supply may not exceed the asset's total shares.
func (s *Service) Mint(ctx context.Context, caller domain.Account, assetID uuid.UUID, to domain.Account, amount int64) error {
	if to.IsZero() {
		return ErrInvalidAccount
	}
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	return s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		if err := access.Require(tx, caller, constants.Agent); err != nil {
			return err
		}
		if _, err := requireAsset(tx, assetID); err != nil {
			return err
		}
		if err := s.Gate.Evaluate(tx, assetID, domain.MintSentinel, to, amount); err != nil {
			return err
		}
		res := tx.Model(&domain.Asset{}).
			Where("asset_id = ? AND total_supply + ? <= total_shares", assetID, amount).
			Update("total_supply", gorm.Expr("total_supply + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrIssuanceCapExceeded
		}
		if err := credit(tx, assetID, to, amount); err != nil {
			return err
		}
		if err := s.syncHolders(tx, batch, caller, compliance.HolderChange{
			AssetID: assetID, From: domain.MintSentinel, To: to, Amount: amount,
		}); err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventMint,
			Actor:   caller,
			Subject: to.String(),
			Amount:  amount,
			AssetID: &assetID,
		})
	})
}

// Burn destroys amount of from's balance. Caller must be an agent.
func (s *Service) Burn(ctx context.Context, caller domain.Account, assetID uuid.UUID, from domain.Account, amount int64) error {
	if from.IsZero() {
		return ErrInvalidAccount
	}
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	return s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		if err := access.Require(tx, caller, constants.Agent); err != nil {
			return err
		}
		if _, err := requireAsset(tx, assetID); err != nil {
			return err
		}
		remaining, err := debit(tx, assetID, from, amount)
		if err != nil {
			return err
		}
		if err := tx.Model(&domain.Asset{}).
			Where("asset_id = ?", assetID).
			Update("total_supply", gorm.Expr("total_supply - ?", amount)).Error; err != nil {
			return err
		}
		if err := s.syncHolders(tx, batch, caller, compliance.HolderChange{
			AssetID: assetID, From: from, To: domain.ZeroAccount, Amount: amount, FromRemaining: remaining,
		}); err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventBurn,
			Actor:   caller,
			Subject: from.String(),
			Amount:  amount,
			AssetID: &assetID,
		})
	})
}

// Transfer moves amount of the caller's own balance to to.
func (s *Service) Transfer(ctx context.Context, caller domain.Account, assetID uuid.UUID, to domain.Account, amount int64) error {
	if caller.IsZero() {
		return ErrInvalidAccount
	}
	return s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		if _, err := requireAsset(tx, assetID); err != nil {
			return err
		}
		return s.transfer(tx, batch, caller, assetID, caller, to, amount, nil)
	})
}

// Approve sets the amount spender may move out of the caller's balance. Zero revokes.
func (s *Service) Approve(ctx context.Context, caller domain.Account, assetID uuid.UUID, spender domain.Account, amount int64) error {
	if caller.IsZero() || spender.IsZero() {
		return ErrInvalidAccount
	}
	if amount < 0 {
		return ErrNegativeAmount
	}
	return s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		if _, err := requireAsset(tx, assetID); err != nil {
			return err
		}
		if err := tx.Save(&domain.Allowance{AssetID: assetID, Owner: caller, Spender: spender, Amount: amount}).Error; err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventApproval,
			Actor:   caller,
			Subject: spender.String(),
			Amount:  amount,
			AssetID: &assetID,
		})
	})
}

// TransferFrom moves amount from from to to on behalf of the caller, consuming allowance.
func (s *Service) TransferFrom(ctx context.Context, caller domain.Account, assetID uuid.UUID, from, to domain.Account, amount int64) error {
	if caller.IsZero() || from.IsZero() {
		return ErrInvalidAccount
	}
	return s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		if _, err := requireAsset(tx, assetID); err != nil {
			return err
		}
		spend := func(tx *gorm.DB) error {
			res := tx.Model(&domain.Allowance{}).
				Where("asset_id = ? AND owner = ? AND spender = ? AND amount >= ?", assetID, from, caller, amount).
				Update("amount", gorm.Expr("amount - ?", amount))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientAllowance
			}
			return nil
		}
		return s.transfer(tx, batch, caller, assetID, from, to, amount, spend)
	})
}

// transfer is the gated movement shared by Transfer, TransferFrom and BatchTransfer.
// before runs after the gate approves and before balances move.
func (s *Service) transfer(tx *gorm.DB, batch *events.Batch, caller domain.Account, assetID uuid.UUID, from, to domain.Account, amount int64, before func(*gorm.DB) error) error {
	if to.IsZero() {
		return ErrInvalidAccount
	}
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	if err := s.Gate.Evaluate(tx, assetID, from, to, amount); err != nil {
		return err
	}
	if before != nil {
		if err := before(tx); err != nil {
			return err
		}
	}
	remaining, err := move(tx, assetID, from, to, amount)
	if err != nil {
		return err
	}
	if err := s.syncHolders(tx, batch, caller, compliance.HolderChange{
		AssetID: assetID, From: from, To: to, Amount: amount, FromRemaining: remaining,
	}); err != nil {
		return err
	}
	return batch.Record(tx, domain.AuditEvent{
		Kind:    domain.EventTransfer,
		Actor:   caller,
		Subject: to.String(),
		Amount:  amount,
		AssetID: &assetID,
		Data:    events.Data(map[string]string{"from": from.String(), "to": to.String()}),
	})
}

// ForcedTransfer moves amount from from to to without consulting the gate. Caller must be
// a compliance officer. Balance and amount checks still apply.
func (s *Service) ForcedTransfer(ctx context.Context, caller domain.Account, assetID uuid.UUID, from, to domain.Account, amount int64) error {
	if from.IsZero() || to.IsZero() {
		return ErrInvalidAccount
	}
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	return s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		if err := access.Require(tx, caller, constants.ComplianceOfficer); err != nil {
			return err
		}
		if _, err := requireAsset(tx, assetID); err != nil {
			return err
		}
		remaining, err := move(tx, assetID, from, to, amount)
		if err != nil {
			return err
		}
		if err := s.syncHolders(tx, batch, caller, compliance.HolderChange{
			AssetID: assetID, From: from, To: to, Amount: amount, FromRemaining: remaining,
		}); err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventForcedTransfer,
			Actor:   caller,
			Subject: to.String(),
			Amount:  amount,
			AssetID: &assetID,
			Data:    events.Data(map[string]string{"from": from.String(), "to": to.String()}),
		})
	})
}

// BatchTransfer sends amounts[i] of the caller's balance to recipients[i]. Every pair is
// gated on its own; any failure aborts the whole batch.
func (s *Service) BatchTransfer(ctx context.Context, caller domain.Account, assetID uuid.UUID, recipients []domain.Account, amounts []int64) error {
	if caller.IsZero() {
		return ErrInvalidAccount
	}
	if len(recipients) != len(amounts) {
		return ErrBatchLengthMismatch
	}
	if len(recipients) == 0 {
		return ErrEmptyBatch
	}
	if len(recipients) > s.maxBatchSize() {
		return ErrBatchTooLarge
	}
	var total int64
	for i, to := range recipients {
		if to.IsZero() {
			return ErrInvalidAccount
		}
		if amounts[i] <= 0 {
			return ErrNonPositiveAmount
		}
		total += amounts[i]
	}
	return s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		if _, err := requireAsset(tx, assetID); err != nil {
			return err
		}
		for i, to := range recipients {
			if err := s.transfer(tx, batch, caller, assetID, caller, to, amounts[i], nil); err != nil {
				return err
			}
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventBatchTransfer,
			Actor:   caller,
			Subject: caller.String(),
			Amount:  total,
			AssetID: &assetID,
			Data:    events.Data(map[string]int{"transfers": len(recipients)}),
		})
	})
}
