// Package params decodes path, query and body values shared by the API handlers.
// Every failure is an apperr.InvalidArgument so handlers can pass it to response.FromError.
package params

import (
	"strconv"

	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	ErrInvalidBody         = apperr.New(apperr.InvalidArgument, "Invalid request body")
	ErrInvalidAccount      = apperr.New(apperr.InvalidArgument, "Invalid account address")
	ErrInvalidAssetID      = apperr.New(apperr.InvalidArgument, "Invalid asset id")
	ErrInvalidLeaseID      = apperr.New(apperr.InvalidArgument, "Invalid lease id")
	ErrInvalidJurisdiction = apperr.New(apperr.InvalidArgument, "Invalid jurisdiction code")
)

// Body parses the JSON body into dst.
func Body(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return ErrInvalidBody
	}
	return nil
}

// Account parses an address in any case.
func Account(raw string) (domain.Account, error) {
	a, ok := domain.ParseAccount(raw)
	if !ok {
		return "", ErrInvalidAccount
	}
	return a, nil
}

// Accounts parses a list of addresses, failing on the first bad one.
func Accounts(raw []string) ([]domain.Account, error) {
	out := make([]domain.Account, 0, len(raw))
	for _, r := range raw {
		a, err := Account(r)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// PathAccount parses the named route parameter as an address.
func PathAccount(c *fiber.Ctx, name string) (domain.Account, error) {
	return Account(c.Params(name))
}

// AssetID parses the :assetId route parameter.
func AssetID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("assetId"))
	if err != nil {
		return uuid.Nil, ErrInvalidAssetID
	}
	return id, nil
}

// LeaseID parses the :leaseId route parameter.
func LeaseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("leaseId"), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidLeaseID
	}
	return uint(id), nil
}

// Jurisdiction parses a jurisdiction code; 0 and values above 65535 are rejected.
func Jurisdiction(raw string) (uint16, error) {
	n, err := strconv.ParseUint(raw, 10, 16)
	if err != nil || n == 0 {
		return 0, ErrInvalidJurisdiction
	}
	return uint16(n), nil
}
