package paytoken

import (
	"context"
	"errors"

	"rwa-backend/internal/application/access"
	"rwa-backend/internal/application/events"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/clock"
	"rwa-backend/internal/pkg/constants"

	"gorm.io/gorm"
)

// Service is the payment-token ledger rent and deposits are settled in. Lease escrow
// custody is the reserved domain.EscrowAccount.
type Service struct {
	DB     *gorm.DB
	Events *events.Service
	Clock  clock.Clock
}

// Balance reads account's balance through tx.
func (s *Service) Balance(tx *gorm.DB, account domain.Account) (int64, error) {
	var bal domain.PaymentBalance
	err := tx.Where("account = ?", account).First(&bal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return bal.Amount, nil
}

func (s *Service) BalanceOf(ctx context.Context, account domain.Account) (int64, error) {
	return s.Balance(s.DB.WithContext(ctx), account)
}

// Move transfers amount from -> to inside the caller's transaction. It performs no
// authorization; callers are the lease engine and Transfer.
func (s *Service) Move(tx *gorm.DB, from, to domain.Account, amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	res := tx.Model(&domain.PaymentBalance{}).
		Where("account = ? AND amount >= ?", from, amount).
		Update("amount", gorm.Expr("amount - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return credit(tx, to, amount)
}

func credit(tx *gorm.DB, account domain.Account, amount int64) error {
	res := tx.Model(&domain.PaymentBalance{}).
		Where("account = ?", account).
		Update("amount", gorm.Expr("amount + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return tx.Create(&domain.PaymentBalance{Account: account, Amount: amount}).Error
}

// Fund issues amount to account. Caller must be a treasurer.
func (s *Service) Fund(ctx context.Context, caller, account domain.Account, amount int64) error {
	if account == domain.EscrowAccount {
		return ErrReservedAccount
	}
	if account.IsZero() {
		return ErrInvalidAccount
	}
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	batch := events.NewBatch(s.Clock.Now())
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := access.Require(tx, caller, constants.Treasurer); err != nil {
			return err
		}
		if err := credit(tx, account, amount); err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventPaymentFunded,
			Actor:   caller,
			Subject: account.String(),
			Amount:  amount,
		})
	})
	if err != nil {
		return err
	}
	s.Events.Publish(ctx, batch)
	return nil
}

// Transfer moves amount of the caller's payment tokens to to.
func (s *Service) Transfer(ctx context.Context, caller, to domain.Account, amount int64) error {
	if caller == domain.EscrowAccount || to == domain.EscrowAccount {
		return ErrReservedAccount
	}
	if caller.IsZero() || to.IsZero() {
		return ErrInvalidAccount
	}
	batch := events.NewBatch(s.Clock.Now())
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Move(tx, caller, to, amount); err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventPaymentTransfer,
			Actor:   caller,
			Subject: to.String(),
			Amount:  amount,
		})
	})
	if err != nil {
		return err
	}
	s.Events.Publish(ctx, batch)
	return nil
}
