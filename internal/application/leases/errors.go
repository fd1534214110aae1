package leases

import "rwa-backend/internal/pkg/apperr"

var (
	ErrInvalidTenant        = apperr.New(apperr.InvalidArgument, "Invalid tenant address")
	ErrTenantIsLandlord     = apperr.New(apperr.InvalidArgument, "Tenant and landlord must differ")
	ErrNonPositiveRent      = apperr.New(apperr.InvalidArgument, "Monthly rent must be greater than zero")
	ErrNonPositiveDeposit   = apperr.New(apperr.InvalidArgument, "Security deposit must be greater than zero")
	ErrStartNotInFuture     = apperr.New(apperr.InvalidArgument, "Start time must be in the future")
	ErrEndNotAfterStart     = apperr.New(apperr.InvalidArgument, "End time must be after start time")
	ErrInvalidPeriod        = apperr.New(apperr.InvalidArgument, "Month must be between 1 and 12 and year must be positive")
	ErrNegativeReturn       = apperr.New(apperr.InvalidArgument, "Return amount must not be negative")
	ErrReturnExceedsDeposit = apperr.New(apperr.InvalidArgument, "Return amount exceeds the deposit paid")
	ErrSweepTooLarge        = apperr.New(apperr.InvalidArgument, "Too many leases in one sweep")

	ErrNotAssetHolder = apperr.New(apperr.AuthorizationError, "Landlord must hold a balance of the asset")
	ErrNotTenant      = apperr.New(apperr.AuthorizationError, "Only the tenant can perform this action")
	ErrNotLandlord    = apperr.New(apperr.AuthorizationError, "Only the landlord can perform this action")
	ErrNotParty       = apperr.New(apperr.AuthorizationError, "Only the landlord or tenant can perform this action")

	ErrLeaseNotFound = apperr.New(apperr.NotFound, "Lease not found")

	ErrLeaseNotPending    = apperr.New(apperr.InvalidStateTransition, "Lease is not pending")
	ErrLeaseNotActive     = apperr.New(apperr.InvalidStateTransition, "Lease is not active")
	ErrLeaseNotEnded      = apperr.New(apperr.InvalidStateTransition, "Lease must be terminated or expired")
	ErrDepositAlreadyPaid = apperr.New(apperr.InvalidStateTransition, "Security deposit already paid")

	ErrDuplicatePayment       = apperr.New(apperr.DuplicatePayment, "Rent for this period has already been paid")
	ErrDepositAlreadyReturned = apperr.New(apperr.AlreadyReturned, "Security deposit already returned")
)
