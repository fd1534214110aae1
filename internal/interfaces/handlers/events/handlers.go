package events

import (
	eventsvc "rwa-backend/internal/application/events"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/interfaces/handlers/params"
	"rwa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *eventsvc.Service
}

// GET /api/v1/events?kind=&subject=&asset_id=&lease_id=&limit= lists audit events, newest first.
func (h *Handlers) List(c *fiber.Ctx) error {
	f := eventsvc.Filter{
		Kind:    domain.EventKind(c.Query("kind")),
		Subject: c.Query("subject"),
		Limit:   c.QueryInt("limit", 0),
	}
	if raw := c.Query("asset_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.FromError(c, params.ErrInvalidAssetID)
		}
		f.AssetID = id
	}
	if leaseID := c.QueryInt("lease_id", 0); leaseID > 0 {
		f.LeaseID = uint(leaseID)
	} else if c.Query("lease_id") != "" {
		return response.FromError(c, params.ErrInvalidLeaseID)
	}
	evs, err := h.Service.List(c.UserContext(), f)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Events fetched successfully", evs, fiber.Map{"count": len(evs)})
}
