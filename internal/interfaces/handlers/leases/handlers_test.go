package leases

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"rwa-backend/internal/app"
	"rwa-backend/internal/application/ledger"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/middleware"
	"rwa-backend/internal/pkg/clock"
	"rwa-backend/internal/pkg/constants"
	"rwa-backend/internal/pkg/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	operator = domain.Account("0x0a6e000000000000000000000000000000000001")
	landlord = domain.Account("0x1a4d000000000000000000000000000000000002")
	tenant   = domain.Account("0x7e4a000000000000000000000000000000000003")
	outsider = domain.Account("0x0b5d000000000000000000000000000000000004")
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	app   *fiber.App
	clock *clock.Fake
	asset string
}

func setupLeaseHandlers(t *testing.T) *harness {
	db := testdb.Open(t)
	fake := clock.NewFake(epoch)
	svcs := app.New(db, nil, app.Options{Clock: fake.Clock()})
	ctx := context.Background()
	require.NoError(t, svcs.Access.Bootstrap(ctx, operator, constants.Agent, constants.ComplianceOfficer, constants.Treasurer))
	require.NoError(t, svcs.Identity.Register(ctx, operator, landlord, "did:landlord", 840))
	asset, err := svcs.Ledger.CreateAsset(ctx, operator, ledger.NewAsset{Symbol: "ELM", Name: "12 Elm Street", TotalShares: 100})
	require.NoError(t, err)
	require.NoError(t, svcs.Ledger.Mint(ctx, operator, asset.AssetID, landlord, 10))
	require.NoError(t, svcs.Payments.Fund(ctx, operator, tenant, 10_000))

	h := &Handlers{Service: svcs.Leases}
	a := fiber.New()
	a.Use(func(c *fiber.Ctx) error {
		if caller := c.Get("X-Caller"); caller != "" {
			c.Locals("user", map[string]interface{}{"user_id": "u", "account": caller})
		}
		return c.Next()
	}, middleware.RequireAuth())
	a.Post("/leases", h.Create)
	a.Post("/leases/mark-expired", h.MarkExpired)
	a.Get("/leases/landlord/:account", h.ByLandlord)
	a.Get("/leases/tenant/:account", h.ByTenant)
	a.Get("/leases/:leaseId", h.Get)
	a.Get("/leases/:leaseId/expired", h.IsExpired)
	a.Post("/leases/:leaseId/deposit", h.PayDeposit)
	a.Post("/leases/:leaseId/cancel", h.Cancel)
	return &harness{app: a, clock: fake, asset: asset.AssetID.String()}
}

func (h *harness) send(t *testing.T, caller domain.Account, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Caller", string(caller))
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (h *harness) offer(t *testing.T, caller domain.Account) (int, map[string]interface{}) {
	return h.send(t, caller, "POST", "/leases", map[string]interface{}{
		"tenant":              string(tenant),
		"asset_id":            h.asset,
		"monthly_rent":        1000,
		"security_deposit":    2000,
		"start_time":          epoch.Add(24 * time.Hour),
		"end_time":            epoch.AddDate(0, 6, 0),
		"property_descriptor": "Unit 4B",
	})
}

func leaseData(out map[string]interface{}) map[string]interface{} {
	return out["data"].(map[string]interface{})
}

func TestCreate_RequiresAssetHolder(t *testing.T) {
	h := setupLeaseHandlers(t)

	status, out := h.offer(t, outsider)
	assert.Equal(t, fiber.StatusForbidden, status, out)

	status, out = h.offer(t, landlord)
	require.Equal(t, fiber.StatusCreated, status, out)
	assert.Equal(t, "Pending", leaseData(out)["status"])
	assert.Equal(t, string(landlord), leaseData(out)["landlord"])
}

func TestCreate_BadInput(t *testing.T) {
	h := setupLeaseHandlers(t)

	status, _ := h.send(t, landlord, "POST", "/leases", map[string]interface{}{
		"tenant": "nope", "asset_id": h.asset, "monthly_rent": 1, "security_deposit": 1,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = h.send(t, landlord, "POST", "/leases", map[string]interface{}{
		"tenant": string(tenant), "asset_id": "not-a-uuid", "monthly_rent": 1, "security_deposit": 1,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = h.send(t, landlord, "GET", "/leases/0", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = h.send(t, landlord, "GET", "/leases/99", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCancel_OnlyLandlordWhilePending(t *testing.T) {
	h := setupLeaseHandlers(t)
	_, out := h.offer(t, landlord)
	path := fmt.Sprintf("/leases/%v", leaseData(out)["lease_id"])

	status, _ := h.send(t, tenant, "POST", path+"/cancel", nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, out = h.send(t, landlord, "POST", path+"/cancel", nil)
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Equal(t, "Cancelled", leaseData(out)["status"])

	status, out = h.send(t, tenant, "POST", path+"/deposit", nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "InvalidStateTransition", out["error"].(map[string]interface{})["details"].(map[string]interface{})["kind"])
}

func TestExpiry_SweepAndQueries(t *testing.T) {
	h := setupLeaseHandlers(t)
	_, out := h.offer(t, landlord)
	id := leaseData(out)["lease_id"]
	path := fmt.Sprintf("/leases/%v", id)

	status, out := h.send(t, tenant, "POST", path+"/deposit", nil)
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Equal(t, "Active", leaseData(out)["status"])

	h.clock.Advance(7 * 30 * 24 * time.Hour)

	_, out = h.send(t, outsider, "GET", path+"/expired", nil)
	assert.Equal(t, true, leaseData(out)["expired"])

	status, out = h.send(t, outsider, "POST", "/leases/mark-expired", map[string]interface{}{"lease_ids": []interface{}{id, 42}})
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Equal(t, []interface{}{id}, leaseData(out)["expired"])

	_, out = h.send(t, outsider, "GET", path, nil)
	assert.Equal(t, "Expired", leaseData(out)["status"])

	_, out = h.send(t, outsider, "POST", "/leases/mark-expired", map[string]interface{}{"lease_ids": []interface{}{id}})
	assert.Empty(t, leaseData(out)["expired"])

	_, out = h.send(t, outsider, "GET", "/leases/tenant/"+string(tenant), nil)
	assert.Len(t, out["data"], 1)
	_, out = h.send(t, outsider, "GET", "/leases/landlord/"+string(outsider), nil)
	assert.Len(t, out["data"], 0)
}
