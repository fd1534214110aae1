package domain

import "time"

// Identity links an account to a verified identity handle and its jurisdiction.
type Identity struct {
	Account          Account   `gorm:"column:account;type:varchar(42);primaryKey" json:"account"`
	IdentityHandle   string    `gorm:"column:identity_handle;not null" json:"identity_handle"`
	JurisdictionCode uint16    `gorm:"column:jurisdiction_code;not null" json:"jurisdiction_code"`
	CreatedAt        time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Identity) TableName() string {
	return "Identities"
}

// Verified reports whether the record carries a linked identity handle.
func (i Identity) Verified() bool {
	return i.IdentityHandle != ""
}
