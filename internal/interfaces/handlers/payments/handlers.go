package payments

import (
	paytokensvc "rwa-backend/internal/application/paytoken"
	"rwa-backend/internal/interfaces/handlers/params"
	"rwa-backend/internal/middleware"
	"rwa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *paytokensvc.Service
}

type fundRequest struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

type transferRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// GET /api/v1/payments/balances/:account
func (h *Handlers) BalanceOf(c *fiber.Ctx) error {
	account, err := params.PathAccount(c, "account")
	if err != nil {
		return response.FromError(c, err)
	}
	balance, err := h.Service.BalanceOf(c.UserContext(), account)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Balance fetched successfully", fiber.Map{"account": account, "balance": balance}, nil)
}

// POST /api/v1/payments/fund issues payment units to an account (treasurer only).
func (h *Handlers) Fund(c *fiber.Ctx) error {
	var req fundRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	account, err := params.Account(req.Account)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Fund(c.UserContext(), middleware.GetAccount(c), account, req.Amount); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Account funded", fiber.Map{"account": account, "amount": req.Amount}, nil)
}

// POST /api/v1/payments/transfer moves payment units from the caller.
func (h *Handlers) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	to, err := params.Account(req.To)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Transfer(c.UserContext(), middleware.GetAccount(c), to, req.Amount); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Payment sent", fiber.Map{"to": to, "amount": req.Amount}, nil)
}
