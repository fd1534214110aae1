package leases

import (
	"time"

	leasesvc "rwa-backend/internal/application/leases"
	"rwa-backend/internal/interfaces/handlers/params"
	"rwa-backend/internal/middleware"
	"rwa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *leasesvc.Service
}

type createLeaseRequest struct {
	Tenant             string    `json:"tenant"`
	AssetID            string    `json:"asset_id"`
	MonthlyRent        int64     `json:"monthly_rent"`
	SecurityDeposit    int64     `json:"security_deposit"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	PropertyDescriptor string    `json:"property_descriptor"`
}

type rentRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type returnDepositRequest struct {
	Amount int64 `json:"amount"`
}

type markExpiredRequest struct {
	LeaseIDs []uint `json:"lease_ids"`
}

// POST /api/v1/leases; the caller is the landlord.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req createLeaseRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	tenant, err := params.Account(req.Tenant)
	if err != nil {
		return response.FromError(c, err)
	}
	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		return response.FromError(c, params.ErrInvalidAssetID)
	}
	lease, err := h.Service.CreateLease(c.UserContext(), middleware.GetAccount(c), leasesvc.NewLease{
		Tenant:             tenant,
		AssetID:            assetID,
		MonthlyRent:        req.MonthlyRent,
		SecurityDeposit:    req.SecurityDeposit,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		PropertyDescriptor: req.PropertyDescriptor,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Lease created successfully", lease, nil)
}

// GET /api/v1/leases/:leaseId
func (h *Handlers) Get(c *fiber.Ctx) error {
	leaseID, err := params.LeaseID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	lease, err := h.Service.GetLease(c.UserContext(), leaseID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Lease fetched successfully", lease, nil)
}

// GET /api/v1/leases/:leaseId/payments
func (h *Handlers) RentPayments(c *fiber.Ctx) error {
	leaseID, err := params.LeaseID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	payments, err := h.Service.GetRentPayments(c.UserContext(), leaseID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Rent payments fetched successfully", payments, nil)
}

// GET /api/v1/leases/:leaseId/expired
func (h *Handlers) IsExpired(c *fiber.Ctx) error {
	leaseID, err := params.LeaseID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	expired, err := h.Service.IsLeaseExpired(c.UserContext(), leaseID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Lease expiry checked", fiber.Map{"lease_id": leaseID, "expired": expired}, nil)
}

// GET /api/v1/leases/landlord/:account
func (h *Handlers) ByLandlord(c *fiber.Ctx) error {
	account, err := params.PathAccount(c, "account")
	if err != nil {
		return response.FromError(c, err)
	}
	leases, err := h.Service.GetLandlordLeases(c.UserContext(), account)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Landlord leases fetched successfully", leases, nil)
}

// GET /api/v1/leases/tenant/:account
func (h *Handlers) ByTenant(c *fiber.Ctx) error {
	account, err := params.PathAccount(c, "account")
	if err != nil {
		return response.FromError(c, err)
	}
	leases, err := h.Service.GetTenantLeases(c.UserContext(), account)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Tenant leases fetched successfully", leases, nil)
}

// POST /api/v1/leases/:leaseId/deposit
func (h *Handlers) PayDeposit(c *fiber.Ctx) error {
	leaseID, err := params.LeaseID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.PaySecurityDeposit(c.UserContext(), middleware.GetAccount(c), leaseID); err != nil {
		return response.FromError(c, err)
	}
	return h.respondWithLease(c, leaseID, "Security deposit paid")
}

// POST /api/v1/leases/:leaseId/rent {month, year}
func (h *Handlers) PayRent(c *fiber.Ctx) error {
	leaseID, err := params.LeaseID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var req rentRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.PayRent(c.UserContext(), middleware.GetAccount(c), leaseID, req.Month, req.Year); err != nil {
		return response.FromError(c, err)
	}
	return h.respondWithLease(c, leaseID, "Rent paid")
}

// POST /api/v1/leases/:leaseId/terminate
func (h *Handlers) Terminate(c *fiber.Ctx) error {
	leaseID, err := params.LeaseID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.TerminateLease(c.UserContext(), middleware.GetAccount(c), leaseID); err != nil {
		return response.FromError(c, err)
	}
	return h.respondWithLease(c, leaseID, "Lease terminated")
}

// POST /api/v1/leases/:leaseId/return-deposit {amount}
func (h *Handlers) ReturnDeposit(c *fiber.Ctx) error {
	leaseID, err := params.LeaseID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var req returnDepositRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.ReturnSecurityDeposit(c.UserContext(), middleware.GetAccount(c), leaseID, req.Amount); err != nil {
		return response.FromError(c, err)
	}
	return h.respondWithLease(c, leaseID, "Security deposit returned")
}

// POST /api/v1/leases/:leaseId/cancel
func (h *Handlers) Cancel(c *fiber.Ctx) error {
	leaseID, err := params.LeaseID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.CancelLease(c.UserContext(), middleware.GetAccount(c), leaseID); err != nil {
		return response.FromError(c, err)
	}
	return h.respondWithLease(c, leaseID, "Lease cancelled")
}

// POST /api/v1/leases/mark-expired {lease_ids}
func (h *Handlers) MarkExpired(c *fiber.Ctx) error {
	var req markExpiredRequest
	if err := params.Body(c, &req); err != nil {
		return response.FromError(c, err)
	}
	expired, err := h.Service.MarkExpired(c.UserContext(), middleware.GetAccount(c), req.LeaseIDs)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Leases swept", fiber.Map{"expired": expired}, nil)
}

func (h *Handlers) respondWithLease(c *fiber.Ctx, leaseID uint, message string) error {
	lease, err := h.Service.GetLease(c.UserContext(), leaseID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, message, lease, nil)
}
