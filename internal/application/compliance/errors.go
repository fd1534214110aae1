package compliance

import "rwa-backend/internal/pkg/apperr"

// Denials returned by Evaluate. Each names the failing party so callers can
// tell "not KYC-verified" apart from "jurisdiction restricted".
var (
	ErrInvalidRecipient                = apperr.New(apperr.ComplianceViolation, "Recipient is not a valid account")
	ErrNonPositiveAmount               = apperr.New(apperr.ComplianceViolation, "Amount must be greater than zero")
	ErrSenderBlacklisted               = apperr.New(apperr.ComplianceViolation, "Sender is blacklisted")
	ErrRecipientBlacklisted            = apperr.New(apperr.ComplianceViolation, "Recipient is blacklisted")
	ErrSenderNotVerified               = apperr.New(apperr.ComplianceViolation, "Sender is not KYC-verified")
	ErrRecipientNotVerified            = apperr.New(apperr.ComplianceViolation, "Recipient is not KYC-verified")
	ErrSenderJurisdictionRestricted    = apperr.New(apperr.ComplianceViolation, "Sender's jurisdiction is restricted")
	ErrRecipientJurisdictionRestricted = apperr.New(apperr.ComplianceViolation, "Recipient's jurisdiction is restricted")
	ErrHolderCapReached                = apperr.New(apperr.ComplianceViolation, "Holder cap reached; recipient cannot become a new holder")
	ErrMaxBalanceExceeded              = apperr.New(apperr.ComplianceViolation, "Recipient would exceed the maximum balance per investor")
)

var (
	ErrInvalidAccount      = apperr.New(apperr.InvalidArgument, "Invalid account address")
	ErrZeroJurisdiction    = apperr.New(apperr.InvalidArgument, "Jurisdiction code must be nonzero")
	ErrNegativeLimit       = apperr.New(apperr.InvalidArgument, "Limit must not be negative")
	ErrUnknownAsset        = apperr.New(apperr.NotFound, "Asset not found")
	ErrAlreadyBlacklisted  = apperr.New(apperr.AlreadyInState, "Account is already blacklisted")
	ErrNotBlacklisted      = apperr.New(apperr.AlreadyInState, "Account is not blacklisted")
	ErrAlreadyRestricted   = apperr.New(apperr.AlreadyInState, "Jurisdiction is already restricted")
	ErrNotRestricted       = apperr.New(apperr.AlreadyInState, "Jurisdiction is not restricted")
	ErrHolderCapUnchanged  = apperr.New(apperr.AlreadyInState, "Holder cap already set to this value")
	ErrMaxBalanceUnchanged = apperr.New(apperr.AlreadyInState, "Maximum balance already set to this value")
	ErrHolderCapBelowCount = apperr.New(apperr.CapExceeded, "Holder cap is below the current holder count")
	ErrHolderCapExceeded   = apperr.New(apperr.CapExceeded, "Holder cap exceeded")
)
