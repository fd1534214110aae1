package assets

import (
	ledgersvc "rwa-backend/internal/application/ledger"
	"rwa-backend/internal/interfaces/handlers/params"
	"rwa-backend/internal/middleware"
	"rwa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *ledgersvc.Service
}

type createAssetRequest struct {
	Symbol                string `json:"symbol"`
	Name                  string `json:"name"`
	PropertyDescriptor    string `json:"property_descriptor"`
	Valuation             int64  `json:"valuation"`
	TotalShares           int64  `json:"total_shares"`
	HolderCap             int64  `json:"holder_cap"`
	MaxBalancePerInvestor int64  `json:"max_balance_per_investor"`
}

type valuationRequest struct {
	Valuation int64 `json:"valuation"`
}

type movementRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Spender string `json:"spender"`
	Amount  int64  `json:"amount"`
}

type batchRequest struct {
	Recipients []string `json:"recipients"`
	Amounts    []int64  `json:"amounts"`
}

// GET /api/v1/assets
func (h *Handlers) List(c *fiber.Ctx) error {
	assets, err := h.Service.ListAssets(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Assets fetched successfully", assets, nil)
}

// POST /api/v1/assets
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req createAssetRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	asset, err := h.Service.CreateAsset(c.UserContext(), middleware.GetAccount(c), ledgersvc.NewAsset{
		Symbol:                req.Symbol,
		Name:                  req.Name,
		PropertyDescriptor:    req.PropertyDescriptor,
		Valuation:             req.Valuation,
		TotalShares:           req.TotalShares,
		HolderCap:             req.HolderCap,
		MaxBalancePerInvestor: req.MaxBalancePerInvestor,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Asset created successfully", asset, nil)
}

// GET /api/v1/assets/:assetId
func (h *Handlers) Get(c *fiber.Ctx) error {
	assetID, err := params.AssetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	asset, err := h.Service.GetAsset(c.UserContext(), assetID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Asset fetched successfully", asset, nil)
}

// PATCH /api/v1/assets/:assetId/valuation
func (h *Handlers) UpdateValuation(c *fiber.Ctx) error {
	assetID, err := params.AssetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var req valuationRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.UpdateValuation(c.UserContext(), middleware.GetAccount(c), assetID, req.Valuation); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Valuation updated", fiber.Map{"asset_id": assetID, "valuation": req.Valuation}, nil)
}

// GET /api/v1/assets/:assetId/balances/:account
func (h *Handlers) BalanceOf(c *fiber.Ctx) error {
	assetID, err := params.AssetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	account, err := params.PathAccount(c, "account")
	if err != nil {
		return response.FromError(c, err)
	}
	balance, err := h.Service.BalanceOf(c.UserContext(), assetID, account)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Balance fetched successfully", fiber.Map{"asset_id": assetID, "account": account, "balance": balance}, nil)
}

// GET /api/v1/assets/:assetId/supply
func (h *Handlers) TotalSupply(c *fiber.Ctx) error {
	assetID, err := params.AssetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	supply, err := h.Service.TotalSupply(c.UserContext(), assetID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Total supply fetched successfully", fiber.Map{"asset_id": assetID, "total_supply": supply}, nil)
}

// GET /api/v1/assets/:assetId/holdings
func (h *Handlers) Holdings(c *fiber.Ctx) error {
	assetID, err := params.AssetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	rows, err := h.Service.Holdings(c.UserContext(), assetID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Holdings fetched successfully", rows, nil)
}

// GET /api/v1/assets/:assetId/allowances/:owner/:spender
func (h *Handlers) Allowance(c *fiber.Ctx) error {
	assetID, err := params.AssetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	owner, err := params.PathAccount(c, "owner")
	if err != nil {
		return response.FromError(c, err)
	}
	spender, err := params.PathAccount(c, "spender")
	if err != nil {
		return response.FromError(c, err)
	}
	amount, err := h.Service.Allowance(c.UserContext(), assetID, owner, spender)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Allowance fetched successfully", fiber.Map{"owner": owner, "spender": spender, "allowance": amount}, nil)
}

// POST /api/v1/assets/:assetId/mint {to, amount}
func (h *Handlers) Mint(c *fiber.Ctx) error {
	return h.movement(c, "Tokens minted", func(c *fiber.Ctx, r movementRequest) error {
		assetID, _ := params.AssetID(c)
		to, err := params.Account(r.To)
		if err != nil {
			return err
		}
		return h.Service.Mint(c.UserContext(), middleware.GetAccount(c), assetID, to, r.Amount)
	})
}

// POST /api/v1/assets/:assetId/burn {from, amount}
func (h *Handlers) Burn(c *fiber.Ctx) error {
	return h.movement(c, "Tokens burned", func(c *fiber.Ctx, r movementRequest) error {
		assetID, _ := params.AssetID(c)
		from, err := params.Account(r.From)
		if err != nil {
			return err
		}
		return h.Service.Burn(c.UserContext(), middleware.GetAccount(c), assetID, from, r.Amount)
	})
}

// POST /api/v1/assets/:assetId/transfer {to, amount}; the caller is the sender.
func (h *Handlers) Transfer(c *fiber.Ctx) error {
	return h.movement(c, "Transfer completed", func(c *fiber.Ctx, r movementRequest) error {
		assetID, _ := params.AssetID(c)
		to, err := params.Account(r.To)
		if err != nil {
			return err
		}
		return h.Service.Transfer(c.UserContext(), middleware.GetAccount(c), assetID, to, r.Amount)
	})
}

// POST /api/v1/assets/:assetId/approve {spender, amount}
func (h *Handlers) Approve(c *fiber.Ctx) error {
	return h.movement(c, "Allowance set", func(c *fiber.Ctx, r movementRequest) error {
		assetID, _ := params.AssetID(c)
		spender, err := params.Account(r.Spender)
		if err != nil {
			return err
		}
		return h.Service.Approve(c.UserContext(), middleware.GetAccount(c), assetID, spender, r.Amount)
	})
}

// POST /api/v1/assets/:assetId/transfer-from {from, to, amount}
func (h *Handlers) TransferFrom(c *fiber.Ctx) error {
	return h.movement(c, "Transfer completed", func(c *fiber.Ctx, r movementRequest) error {
		assetID, _ := params.AssetID(c)
		from, err := params.Account(r.From)
		if err != nil {
			return err
		}
		to, err := params.Account(r.To)
		if err != nil {
			return err
		}
		return h.Service.TransferFrom(c.UserContext(), middleware.GetAccount(c), assetID, from, to, r.Amount)
	})
}

// POST /api/v1/assets/:assetId/forced-transfer {from, to, amount}
func (h *Handlers) ForcedTransfer(c *fiber.Ctx) error {
	return h.movement(c, "Forced transfer completed", func(c *fiber.Ctx, r movementRequest) error {
		assetID, _ := params.AssetID(c)
		from, err := params.Account(r.From)
		if err != nil {
			return err
		}
		to, err := params.Account(r.To)
		if err != nil {
			return err
		}
		return h.Service.ForcedTransfer(c.UserContext(), middleware.GetAccount(c), assetID, from, to, r.Amount)
	})
}

// POST /api/v1/assets/:assetId/batch-transfer {recipients, amounts}
func (h *Handlers) BatchTransfer(c *fiber.Ctx) error {
	assetID, err := params.AssetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var req batchRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	recipients, err := params.Accounts(req.Recipients)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.BatchTransfer(c.UserContext(), middleware.GetAccount(c), assetID, recipients, req.Amounts); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Batch transfer completed", fiber.Map{"asset_id": assetID, "count": len(recipients)}, nil)
}

// movement validates the asset id and body shared by the single-transfer endpoints.
func (h *Handlers) movement(c *fiber.Ctx, message string, run func(*fiber.Ctx, movementRequest) error) error {
	assetID, err := params.AssetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var req movementRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if err := run(c, req); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, message, fiber.Map{"asset_id": assetID, "amount": req.Amount}, nil)
}
