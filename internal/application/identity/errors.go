package identity

import "rwa-backend/internal/pkg/apperr"

var (
	ErrInvalidAccount      = apperr.New(apperr.InvalidArgument, "Invalid account address")
	ErrEmptyIdentityHandle = apperr.New(apperr.InvalidArgument, "Identity handle is required")
	ErrZeroJurisdiction    = apperr.New(apperr.InvalidArgument, "Jurisdiction code must be nonzero")
	ErrIdentityNotFound    = apperr.New(apperr.NotFound, "Identity not registered")
)
