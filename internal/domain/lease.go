package domain

import (
	"time"

	"github.com/google/uuid"
)

type LeaseStatus string

const (
	LeasePending    LeaseStatus = "Pending"
	LeaseActive     LeaseStatus = "Active"
	LeaseExpired    LeaseStatus = "Expired"
	LeaseTerminated LeaseStatus = "Terminated"
	LeaseCancelled  LeaseStatus = "Cancelled"
)

// leaseTransitions lists every allowed move. Nothing leads back to Pending and
// terminal states have no entry.
var leaseTransitions = map[LeaseStatus][]LeaseStatus{
	LeasePending: {LeaseActive, LeaseCancelled},
	LeaseActive:  {LeaseTerminated, LeaseExpired},
}

// CanTransitionTo reports whether the lifecycle allows s -> next.
func (s LeaseStatus) CanTransitionTo(next LeaseStatus) bool {
	for _, n := range leaseTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s LeaseStatus) IsTerminal() bool {
	return len(leaseTransitions[s]) == 0
}

// Lease is a time-boxed rental agreement over a tokenised property. Leases are never deleted.
type Lease struct {
	LeaseID            uint        `gorm:"column:lease_id;primaryKey;autoIncrement" json:"lease_id"`
	Landlord           Account     `gorm:"column:landlord;type:varchar(42);not null;index" json:"landlord"`
	Tenant             Account     `gorm:"column:tenant;type:varchar(42);not null;index" json:"tenant"`
	AssetID            uuid.UUID   `gorm:"column:asset_id;type:uuid;not null" json:"asset_id"`
	MonthlyRent        int64       `gorm:"column:monthly_rent;not null" json:"monthly_rent"`
	SecurityDeposit    int64       `gorm:"column:security_deposit;not null" json:"security_deposit"`
	StartTime          time.Time   `gorm:"column:start_time;not null" json:"start_time"`
	EndTime            time.Time   `gorm:"column:end_time;not null;index" json:"end_time"`
	PropertyDescriptor string      `gorm:"column:property_descriptor;not null" json:"property_descriptor"`
	Status             LeaseStatus `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	DepositPaidAmount  int64       `gorm:"column:deposit_paid_amount;not null;default:0" json:"deposit_paid_amount"`
	DepositReturned    bool        `gorm:"column:deposit_returned;not null;default:false" json:"deposit_returned"`
	LastPaymentTime    *time.Time  `gorm:"column:last_payment_time" json:"last_payment_time"`
	TotalRentPaid      int64       `gorm:"column:total_rent_paid;not null;default:0" json:"total_rent_paid"`
	CreatedAt          time.Time   `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt          time.Time   `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Lease) TableName() string {
	return "Leases"
}

// RentPayment records one month's rent. (LeaseID, Month, Year) is unique.
type RentPayment struct {
	PaymentID uint      `gorm:"column:payment_id;primaryKey;autoIncrement" json:"payment_id"`
	LeaseID   uint      `gorm:"column:lease_id;not null;uniqueIndex:idx_rent_period" json:"lease_id"`
	Month     int       `gorm:"column:month;not null;uniqueIndex:idx_rent_period" json:"month"`
	Year      int       `gorm:"column:year;not null;uniqueIndex:idx_rent_period" json:"year"`
	Payer     Account   `gorm:"column:payer;type:varchar(42);not null" json:"payer"`
	Amount    int64     `gorm:"column:amount;not null" json:"amount"`
	PaidAt    time.Time `gorm:"column:paid_at;not null" json:"paid_at"`
}

func (RentPayment) TableName() string {
	return "RentPayments"
}
