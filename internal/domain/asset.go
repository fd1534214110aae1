package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset is the issuance record of a tokenised property. TotalShares caps TotalSupply.
type Asset struct {
	AssetID            uuid.UUID `gorm:"column:asset_id;type:uuid;primaryKey" json:"asset_id"`
	Symbol             string    `gorm:"column:symbol;type:varchar(16);not null;uniqueIndex" json:"symbol"`
	Name               string    `gorm:"column:name;not null" json:"name"`
	PropertyDescriptor string    `gorm:"column:property_descriptor;not null" json:"property_descriptor"`
	Valuation          int64     `gorm:"column:valuation;not null;default:0" json:"valuation"`
	TotalShares        int64     `gorm:"column:total_shares;not null" json:"total_shares"`
	TotalSupply        int64     `gorm:"column:total_supply;not null;default:0" json:"total_supply"`
	CreatedBy          Account   `gorm:"column:created_by;type:varchar(42);not null" json:"created_by"`
	CreatedAt          time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Asset) TableName() string {
	return "Assets"
}

// BeforeCreate sets asset_id if not already set.
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.AssetID == uuid.Nil {
		a.AssetID = uuid.New()
	}
	return nil
}
