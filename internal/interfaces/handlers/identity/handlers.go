package identity

import (
	identitysvc "rwa-backend/internal/application/identity"
	"rwa-backend/internal/interfaces/handlers/params"
	"rwa-backend/internal/middleware"
	"rwa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *identitysvc.Service
}

type registerRequest struct {
	Account      string `json:"account"`
	Handle       string `json:"handle"`
	Jurisdiction uint16 `json:"jurisdiction"`
}

type jurisdictionRequest struct {
	Jurisdiction uint16 `json:"jurisdiction"`
}

// GET /api/v1/identities/:account returns the record plus the derived verified flag.
func (h *Handlers) Get(c *fiber.Ctx) error {
	account, err := params.PathAccount(c, "account")
	if err != nil {
		return response.FromError(c, err)
	}
	rec, err := h.Service.Get(c.UserContext(), account)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Identity fetched successfully", fiber.Map{
		"identity": rec,
		"verified": rec.Verified(),
	}, nil)
}

// GET /api/v1/identities/:account/verified; unknown accounts are simply unverified.
func (h *Handlers) Verified(c *fiber.Ctx) error {
	account, err := params.PathAccount(c, "account")
	if err != nil {
		return response.FromError(c, err)
	}
	verified, err := h.Service.IsVerified(c.UserContext(), account)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Verification checked", fiber.Map{"account": account, "verified": verified}, nil)
}

// GET /api/v1/identities/:account/jurisdiction
func (h *Handlers) Jurisdiction(c *fiber.Ctx) error {
	account, err := params.PathAccount(c, "account")
	if err != nil {
		return response.FromError(c, err)
	}
	code, err := h.Service.InvestorJurisdiction(c.UserContext(), account)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Jurisdiction fetched successfully", fiber.Map{"account": account, "jurisdiction": code}, nil)
}

// POST /api/v1/identities
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	account, err := params.Account(req.Account)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Register(c.UserContext(), middleware.GetAccount(c), account, req.Handle, req.Jurisdiction); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Identity registered", fiber.Map{"account": account}, nil)
}

// DELETE /api/v1/identities/:account
func (h *Handlers) Remove(c *fiber.Ctx) error {
	account, err := params.PathAccount(c, "account")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Remove(c.UserContext(), middleware.GetAccount(c), account); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Identity removed", fiber.Map{"account": account}, nil)
}

// PATCH /api/v1/identities/:account/jurisdiction
func (h *Handlers) UpdateJurisdiction(c *fiber.Ctx) error {
	account, err := params.PathAccount(c, "account")
	if err != nil {
		return response.FromError(c, err)
	}
	var req jurisdictionRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.UpdateJurisdiction(c.UserContext(), middleware.GetAccount(c), account, req.Jurisdiction); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Jurisdiction updated", fiber.Map{"account": account, "jurisdiction": req.Jurisdiction}, nil)
}
