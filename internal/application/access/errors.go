package access

import (
	"rwa-backend/internal/pkg/apperr"
	"rwa-backend/internal/pkg/constants"
)

var (
	ErrInvalidAccount    = apperr.New(apperr.InvalidArgument, "Invalid account address")
	ErrUnknownCapability = apperr.New(apperr.InvalidArgument, "Unknown capability")
	ErrAlreadyGranted    = apperr.New(apperr.AlreadyInState, "Capability already granted")
	ErrNotGranted        = apperr.New(apperr.AlreadyInState, "Capability not granted")
	ErrLastAdmin         = apperr.New(apperr.InvalidArgument, "At least one admin must remain")

	ErrNotAdmin             = apperr.New(apperr.AuthorizationError, "Caller lacks the admin capability")
	ErrNotAgent             = apperr.New(apperr.AuthorizationError, "Caller lacks the agent capability")
	ErrNotComplianceOfficer = apperr.New(apperr.AuthorizationError, "Caller lacks the compliance officer capability")
	ErrNotTreasurer         = apperr.New(apperr.AuthorizationError, "Caller lacks the treasurer capability")
)

var missingCapability = map[string]error{
	constants.Admin:             ErrNotAdmin,
	constants.Agent:             ErrNotAgent,
	constants.ComplianceOfficer: ErrNotComplianceOfficer,
	constants.Treasurer:         ErrNotTreasurer,
}
