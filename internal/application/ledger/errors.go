package ledger

import "rwa-backend/internal/pkg/apperr"

var (
	ErrInvalidAccount        = apperr.New(apperr.InvalidArgument, "Invalid account address")
	ErrNonPositiveAmount     = apperr.New(apperr.InvalidArgument, "Amount must be greater than zero")
	ErrNegativeAmount        = apperr.New(apperr.InvalidArgument, "Amount must not be negative")
	ErrInvalidSymbol         = apperr.New(apperr.InvalidArgument, "Symbol must be 1-16 characters")
	ErrEmptyName             = apperr.New(apperr.InvalidArgument, "Asset name is required")
	ErrNonPositiveShares     = apperr.New(apperr.InvalidArgument, "Total shares must be greater than zero")
	ErrNegativeValuation     = apperr.New(apperr.InvalidArgument, "Valuation must not be negative")
	ErrEmptyBatch            = apperr.New(apperr.InvalidArgument, "Batch must contain at least one transfer")
	ErrBatchLengthMismatch   = apperr.New(apperr.InvalidArgument, "Recipients and amounts must have the same length")
	ErrBatchTooLarge         = apperr.New(apperr.InvalidArgument, "Batch exceeds the maximum size")
	ErrAssetNotFound         = apperr.New(apperr.NotFound, "Asset not found")
	ErrSymbolTaken           = apperr.New(apperr.AlreadyInState, "An asset with this symbol already exists")
	ErrValuationUnchanged    = apperr.New(apperr.AlreadyInState, "Valuation already set to this value")
	ErrIssuanceCapExceeded   = apperr.New(apperr.CapExceeded, "Mint would exceed the asset's total shares")
	ErrInsufficientBalance   = apperr.New(apperr.InsufficientBalance, "Insufficient balance")
	ErrInsufficientAllowance = apperr.New(apperr.InsufficientBalance, "Insufficient allowance")
)
