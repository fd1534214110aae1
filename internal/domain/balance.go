package domain

import (
	"time"

	"github.com/google/uuid"
)

// Balance is one account's holding of an asset. A missing row means zero; rows are never deleted.
type Balance struct {
	AssetID   uuid.UUID `gorm:"column:asset_id;type:uuid;primaryKey" json:"asset_id"`
	Account   Account   `gorm:"column:account;type:varchar(42);primaryKey" json:"account"`
	Amount    int64     `gorm:"column:amount;not null;default:0" json:"amount"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Balance) TableName() string {
	return "Balances"
}

// Allowance is the amount Spender may move out of Owner's balance via transferFrom.
type Allowance struct {
	AssetID   uuid.UUID `gorm:"column:asset_id;type:uuid;primaryKey" json:"asset_id"`
	Owner     Account   `gorm:"column:owner;type:varchar(42);primaryKey" json:"owner"`
	Spender   Account   `gorm:"column:spender;type:varchar(42);primaryKey" json:"spender"`
	Amount    int64     `gorm:"column:amount;not null;default:0" json:"amount"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Allowance) TableName() string {
	return "Allowances"
}

// PaymentBalance is an account's balance of the payment token used for rent and deposits.
type PaymentBalance struct {
	Account   Account   `gorm:"column:account;type:varchar(42);primaryKey" json:"account"`
	Amount    int64     `gorm:"column:amount;not null;default:0" json:"amount"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (PaymentBalance) TableName() string {
	return "PaymentBalances"
}
