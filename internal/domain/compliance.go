package domain

import (
	"time"

	"github.com/google/uuid"
)

// BlacklistEntry bars an account from sending or receiving any asset.
type BlacklistEntry struct {
	Account   Account   `gorm:"column:account;type:varchar(42);primaryKey" json:"account"`
	AddedBy   Account   `gorm:"column:added_by;type:varchar(42);not null" json:"added_by"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (BlacklistEntry) TableName() string {
	return "Blacklist"
}

// RestrictedJurisdiction denies transfers to or from investors registered under Code.
type RestrictedJurisdiction struct {
	Code      uint16    `gorm:"column:code;primaryKey;autoIncrement:false" json:"code"`
	AddedBy   Account   `gorm:"column:added_by;type:varchar(42);not null" json:"added_by"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (RestrictedJurisdiction) TableName() string {
	return "RestrictedJurisdictions"
}

// ComplianceSettings is the per-asset holder bookkeeping and limits.
// HolderCount always equals the number of Holder rows for the asset.
type ComplianceSettings struct {
	AssetID               uuid.UUID `gorm:"column:asset_id;type:uuid;primaryKey" json:"asset_id"`
	HolderCap             int64     `gorm:"column:holder_cap;not null;default:0" json:"holder_cap"`
	HolderCount           int64     `gorm:"column:holder_count;not null;default:0" json:"holder_count"`
	MaxBalancePerInvestor int64     `gorm:"column:max_balance_per_investor;not null;default:0" json:"max_balance_per_investor"`
	UpdatedAt             time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (ComplianceSettings) TableName() string {
	return "ComplianceSettings"
}

// Holder marks an account with a nonzero balance of an asset.
type Holder struct {
	AssetID   uuid.UUID `gorm:"column:asset_id;type:uuid;primaryKey" json:"asset_id"`
	Account   Account   `gorm:"column:account;type:varchar(42);primaryKey" json:"account"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (Holder) TableName() string {
	return "Holders"
}
