package domain

import "time"

// CapabilityGrant is one row of the capability table (account -> capability).
type CapabilityGrant struct {
	Account    Account   `gorm:"column:account;type:varchar(42);primaryKey" json:"account"`
	Capability string    `gorm:"column:capability;type:varchar(32);primaryKey" json:"capability"`
	GrantedBy  Account   `gorm:"column:granted_by;type:varchar(42);not null" json:"granted_by"`
	CreatedAt  time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (CapabilityGrant) TableName() string {
	return "CapabilityGrants"
}
