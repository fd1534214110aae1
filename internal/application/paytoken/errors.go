package paytoken

import "rwa-backend/internal/pkg/apperr"

var (
	ErrInvalidAccount      = apperr.New(apperr.InvalidArgument, "Invalid account address")
	ErrNonPositiveAmount   = apperr.New(apperr.InvalidArgument, "Amount must be greater than zero")
	ErrReservedAccount     = apperr.New(apperr.InvalidArgument, "Escrow custody cannot be funded or paid directly")
	ErrInsufficientBalance = apperr.New(apperr.InsufficientBalance, "Insufficient payment token balance")
)
