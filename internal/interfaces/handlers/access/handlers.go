package access

import (
	accesssvc "rwa-backend/internal/application/access"
	"rwa-backend/internal/interfaces/handlers/params"
	"rwa-backend/internal/middleware"
	"rwa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *accesssvc.Service
}

type capabilityRequest struct {
	Account    string `json:"account"`
	Capability string `json:"capability"`
}

// GET /api/v1/capabilities/:account
func (h *Handlers) List(c *fiber.Ctx) error {
	account, err := params.PathAccount(c, "account")
	if err != nil {
		return response.FromError(c, err)
	}
	caps, err := h.Service.List(c.UserContext(), account)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Capabilities fetched successfully", fiber.Map{"account": account, "capabilities": caps}, nil)
}

// POST /api/v1/capabilities/grant
func (h *Handlers) Grant(c *fiber.Ctx) error {
	var req capabilityRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	account, err := params.Account(req.Account)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Grant(c.UserContext(), middleware.GetAccount(c), account, req.Capability); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Capability granted", fiber.Map{"account": account, "capability": req.Capability}, nil)
}

// POST /api/v1/capabilities/revoke
func (h *Handlers) Revoke(c *fiber.Ctx) error {
	var req capabilityRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	account, err := params.Account(req.Account)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Revoke(c.UserContext(), middleware.GetAccount(c), account, req.Capability); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Capability revoked", fiber.Map{"account": account, "capability": req.Capability}, nil)
}
