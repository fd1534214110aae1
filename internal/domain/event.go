package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EventKind string

const (
	EventIdentityRegistered       EventKind = "identity_registered"
	EventIdentityRemoved          EventKind = "identity_removed"
	EventJurisdictionUpdated      EventKind = "jurisdiction_updated"
	EventBlacklistAdded           EventKind = "blacklist_added"
	EventBlacklistRemoved         EventKind = "blacklist_removed"
	EventJurisdictionRestricted   EventKind = "jurisdiction_restricted"
	EventJurisdictionUnrestricted EventKind = "jurisdiction_unrestricted"
	EventHolderCapSet             EventKind = "holder_cap_set"
	EventMaxBalanceSet            EventKind = "max_balance_set"
	EventHolderSyncFailed         EventKind = "holder_sync_failed"

	EventAssetCreated     EventKind = "asset_created"
	EventValuationUpdated EventKind = "valuation_updated"
	EventMint             EventKind = "mint"
	EventBurn             EventKind = "burn"
	EventTransfer         EventKind = "transfer"
	EventApproval         EventKind = "approval"
	EventForcedTransfer   EventKind = "forced_transfer"
	EventBatchTransfer    EventKind = "batch_transfer"

	EventCapabilityGranted EventKind = "capability_granted"
	EventCapabilityRevoked EventKind = "capability_revoked"

	EventPaymentFunded   EventKind = "payment_funded"
	EventPaymentTransfer EventKind = "payment_transfer"

	EventLeaseCreated    EventKind = "lease_created"
	EventDepositPaid     EventKind = "deposit_paid"
	EventRentPaid        EventKind = "rent_paid"
	EventLeaseTerminated EventKind = "lease_terminated"
	EventDepositReturned EventKind = "deposit_returned"
	EventLeaseCancelled  EventKind = "lease_cancelled"
	EventLeaseExpired    EventKind = "lease_expired"
)

// AuditEvent is the structured record every mutation emits. It is the only contract
// external consumers may depend on.
type AuditEvent struct {
	// Seq is the commit order; events of one batch share CreatedAt.
	Seq       uint64         `gorm:"column:seq;primaryKey;autoIncrement" json:"seq"`
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;not null;uniqueIndex" json:"event_id"`
	Kind      EventKind      `gorm:"column:kind;type:varchar(40);not null;index" json:"kind"`
	Actor     Account        `gorm:"column:actor;type:varchar(42);not null" json:"actor"`
	Subject   string         `gorm:"column:subject;not null;index" json:"subject"`
	Amount    int64          `gorm:"column:amount;not null;default:0" json:"amount"`
	AssetID   *uuid.UUID     `gorm:"column:asset_id;type:uuid;index" json:"asset_id,omitempty"`
	LeaseID   *uint          `gorm:"column:lease_id;index" json:"lease_id,omitempty"`
	Data      datatypes.JSON `gorm:"column:data;type:jsonb" json:"data,omitempty"`
	CreatedAt time.Time      `gorm:"column:createdAt;index" json:"timestamp"`
}

func (AuditEvent) TableName() string {
	return "AuditEvents"
}

func (e *AuditEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
