package compliance

import (
	compliancesvc "rwa-backend/internal/application/compliance"
	"rwa-backend/internal/interfaces/handlers/params"
	"rwa-backend/internal/middleware"
	"rwa-backend/internal/pkg/apperr"
	"rwa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *compliancesvc.Service
}

type accountRequest struct {
	Account string `json:"account"`
}

type jurisdictionRequest struct {
	Code uint16 `json:"code"`
}

type holderCapRequest struct {
	HolderCap int64 `json:"holder_cap"`
}

type maxBalanceRequest struct {
	Limit int64 `json:"limit"`
}

type checkRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// GET /api/v1/compliance/blacklist
func (h *Handlers) ListBlacklist(c *fiber.Ctx) error {
	entries, err := h.Service.ListBlacklist(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Blacklist fetched successfully", entries, nil)
}

// POST /api/v1/compliance/blacklist
func (h *Handlers) AddToBlacklist(c *fiber.Ctx) error {
	var req accountRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	account, err := params.Account(req.Account)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.AddToBlacklist(c.UserContext(), middleware.GetAccount(c), account); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Account blacklisted", fiber.Map{"account": account}, nil)
}

// DELETE /api/v1/compliance/blacklist/:account
func (h *Handlers) RemoveFromBlacklist(c *fiber.Ctx) error {
	account, err := params.PathAccount(c, "account")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.RemoveFromBlacklist(c.UserContext(), middleware.GetAccount(c), account); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Account removed from blacklist", fiber.Map{"account": account}, nil)
}

// GET /api/v1/compliance/jurisdictions
func (h *Handlers) ListRestrictedJurisdictions(c *fiber.Ctx) error {
	codes, err := h.Service.ListRestrictedJurisdictions(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Restricted jurisdictions fetched successfully", codes, nil)
}

// POST /api/v1/compliance/jurisdictions
func (h *Handlers) AddRestrictedJurisdiction(c *fiber.Ctx) error {
	var req jurisdictionRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.AddRestrictedJurisdiction(c.UserContext(), middleware.GetAccount(c), req.Code); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Jurisdiction restricted", fiber.Map{"code": req.Code}, nil)
}

// DELETE /api/v1/compliance/jurisdictions/:code
func (h *Handlers) RemoveRestrictedJurisdiction(c *fiber.Ctx) error {
	code, err := params.Jurisdiction(c.Params("code"))
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.RemoveRestrictedJurisdiction(c.UserContext(), middleware.GetAccount(c), code); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Jurisdiction unrestricted", fiber.Map{"code": code}, nil)
}

// GET /api/v1/compliance/assets/:assetId returns holder bookkeeping and limits;
// with ?account= it also reports whether that account is a holder and blacklisted.
func (h *Handlers) State(c *fiber.Ctx) error {
	assetID, err := params.AssetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	ctx := c.UserContext()
	settings, err := h.Service.State(ctx, assetID)
	if err != nil {
		return response.FromError(c, err)
	}
	untracked, err := h.Service.UntrackedHolders(ctx, assetID)
	if err != nil {
		return response.FromError(c, err)
	}
	data := fiber.Map{"settings": settings, "untracked_holders": untracked}
	if raw := c.Query("account"); raw != "" {
		account, err := params.Account(raw)
		if err != nil {
			return response.FromError(c, err)
		}
		holder, err := h.Service.IsHolder(ctx, assetID, account)
		if err != nil {
			return response.FromError(c, err)
		}
		blacklisted, err := h.Service.IsBlacklisted(ctx, account)
		if err != nil {
			return response.FromError(c, err)
		}
		data["account"] = fiber.Map{"account": account, "is_holder": holder, "is_blacklisted": blacklisted}
	}
	return response.Success(c, "Compliance state fetched successfully", data, nil)
}

// PUT /api/v1/compliance/assets/:assetId/holder-cap
func (h *Handlers) SetHolderCap(c *fiber.Ctx) error {
	assetID, err := params.AssetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var req holderCapRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.SetHolderCap(c.UserContext(), middleware.GetAccount(c), assetID, req.HolderCap); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Holder cap updated", fiber.Map{"asset_id": assetID, "holder_cap": req.HolderCap}, nil)
}

// PUT /api/v1/compliance/assets/:assetId/max-balance
func (h *Handlers) SetMaxBalance(c *fiber.Ctx) error {
	assetID, err := params.AssetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var req maxBalanceRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.SetMaxBalancePerInvestor(c.UserContext(), middleware.GetAccount(c), assetID, req.Limit); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Max balance per investor updated", fiber.Map{"asset_id": assetID, "limit": req.Limit}, nil)
}

// POST /api/v1/compliance/assets/:assetId/check is the canTransfer query.
// A denial is reported as allowed=false with the reason; it is not an HTTP error.
func (h *Handlers) Check(c *fiber.Ctx) error {
	assetID, err := params.AssetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var req checkRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	from, err := params.Account(req.From)
	if err != nil {
		return response.FromError(c, err)
	}
	to, err := params.Account(req.To)
	if err != nil {
		return response.FromError(c, err)
	}
	err = h.Service.Check(c.UserContext(), assetID, from, to, req.Amount)
	switch {
	case err == nil:
		return response.Success(c, "Transfer allowed", fiber.Map{"allowed": true}, nil)
	case apperr.KindOf(err) == apperr.ComplianceViolation:
		return response.Success(c, "Transfer denied", fiber.Map{"allowed": false, "reason": err.Error()}, nil)
	default:
		return response.FromError(c, err)
	}
}
