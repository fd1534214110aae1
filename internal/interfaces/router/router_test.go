package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rwa-backend/bootstrap"
	"rwa-backend/internal/app"
	"rwa-backend/internal/application/auth"
	"rwa-backend/internal/config"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/middleware"
	"rwa-backend/internal/pkg/clock"
	"rwa-backend/internal/pkg/testdb"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	adminAccount     = "0xad00000000000000000000000000000000000001"
	landlordAccount  = "0x1a4d000000000000000000000000000000000002"
	tenantAccount    = "0x7e4a000000000000000000000000000000000003"
	treasurerAccount = "0x7ea5000000000000000000000000000000000004"
	password         = "Corr3ct-horse!"
)

type harness struct {
	t     *testing.T
	app   *fiber.App
	db    *gorm.DB
	clock *clock.Fake
	sids  map[string]string
}

func newHarness(t *testing.T) *harness {
	db := testdb.Open(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	fake := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	svcs := app.New(db, rdb, app.Options{Clock: fake.Clock(), EnforceMaxBalance: true})
	cfg := &config.Config{
		Env:                       "test",
		BootstrapAdminAccount:     adminAccount,
		BootstrapOperatorEmail:    "admin@example.com",
		BootstrapOperatorPassword: password,
		BootstrapOperatorName:     "Admin",
	}
	ctx := context.Background()
	require.NoError(t, bootstrap.Run(ctx, svcs, cfg))
	for name, account := range map[string]string{
		"landlord":  landlordAccount,
		"tenant":    tenantAccount,
		"treasurer": treasurerAccount,
	} {
		_, err := auth.UpsertOperator(ctx, db, auth.OperatorInput{
			Fullname: "Operator", Email: name + "@example.com", Password: password, Account: account,
		})
		require.NoError(t, err)
	}

	h := &harness{t: t, app: CreateApp(cfg, svcs), db: db, clock: fake, sids: map[string]string{}}
	for _, name := range []string{"admin", "landlord", "tenant", "treasurer"} {
		h.login(name)
	}
	return h
}

func (h *harness) login(name string) {
	b, _ := json.Marshal(map[string]string{"email": name + "@example.com", "password": password})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	require.Equal(h.t, fiber.StatusOK, resp.StatusCode, name)
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookieName {
			h.sids[name] = ck.Value
		}
	}
	require.NotEmpty(h.t, h.sids[name])
}

// call sends a JSON request as the named operator ("" for anonymous).
func (h *harness) call(as, method, path string, body interface{}) (int, map[string]interface{}) {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if sid, ok := h.sids[as]; ok {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sid})
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func (h *harness) ok(as, method, path string, body interface{}) map[string]interface{} {
	h.t.Helper()
	status, out := h.call(as, method, path, body)
	require.Less(h.t, status, 300, "%s %s: %v", method, path, out)
	data, _ := out["data"].(map[string]interface{})
	return data
}

func errorKind(out map[string]interface{}) string {
	e, _ := out["error"].(map[string]interface{})
	d, _ := e["details"].(map[string]interface{})
	k, _ := d["kind"].(string)
	return k
}

func (h *harness) paymentBalance(account domain.Account) int64 {
	var bal domain.PaymentBalance
	require.NoError(h.t, h.db.Where("account = ?", account).Limit(1).Find(&bal).Error)
	return bal.Amount
}

func TestAPI_RequiresSession(t *testing.T) {
	h := newHarness(t)
	status, _ := h.call("", "GET", "/api/v1/assets", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAPI_CapabilityGuards(t *testing.T) {
	h := newHarness(t)

	status, out := h.call("landlord", "POST", "/api/v1/compliance/blacklist", map[string]string{"account": tenantAccount})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "AuthorizationError", errorKind(out))

	status, _ = h.call("landlord", "POST", "/api/v1/capabilities/grant", map[string]string{"account": landlordAccount, "capability": "admin"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, out = h.call("admin", "POST", "/api/v1/capabilities/grant", map[string]string{"account": landlordAccount, "capability": "wizard"})
	assert.Equal(t, fiber.StatusBadRequest, status, out)

	status, out = h.call("admin", "POST", "/api/v1/identities", map[string]interface{}{"account": "bogus", "handle": "x", "jurisdiction": 1})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "InvalidArgument", errorKind(out))
}

// TestAPI_LeaseScenario drives the full lease lifecycle over HTTP:
// rent 1000, deposit 2000, landlord returns 1500 after termination.
func TestAPI_LeaseScenario(t *testing.T) {
	h := newHarness(t)

	h.ok("admin", "POST", "/api/v1/capabilities/grant", map[string]string{"account": treasurerAccount, "capability": "treasurer"})
	for _, acct := range []string{landlordAccount, tenantAccount} {
		h.ok("admin", "POST", "/api/v1/identities", map[string]interface{}{"account": acct, "handle": "kyc-" + acct[2:8], "jurisdiction": 840})
	}

	asset := h.ok("admin", "POST", "/api/v1/assets", map[string]interface{}{
		"symbol": "elm", "name": "12 Elm Street", "property_descriptor": "ipfs://elm",
		"valuation": 500000, "total_shares": 1000,
	})
	assetID, _ := asset["asset_id"].(string)
	require.NotEmpty(t, assetID)
	assert.Equal(t, "ELM", asset["symbol"])

	h.ok("admin", "POST", "/api/v1/assets/"+assetID+"/mint", map[string]interface{}{"to": landlordAccount, "amount": 100})
	bal := h.ok("landlord", "GET", "/api/v1/assets/"+assetID+"/balances/"+landlordAccount, nil)
	assert.EqualValues(t, 100, bal["balance"])

	status, out := h.call("admin", "POST", "/api/v1/compliance/assets/"+assetID+"/check", map[string]interface{}{
		"from": landlordAccount, "to": treasurerAccount, "amount": 1,
	})
	require.Equal(t, fiber.StatusOK, status)
	data, _ := out["data"].(map[string]interface{})
	assert.Equal(t, false, data["allowed"])

	h.ok("treasurer", "POST", "/api/v1/payments/fund", map[string]interface{}{"account": tenantAccount, "amount": 10000})

	start := h.clock.Clock().Now().Add(24 * time.Hour)
	lease := h.ok("landlord", "POST", "/api/v1/leases", map[string]interface{}{
		"tenant": tenantAccount, "asset_id": assetID,
		"monthly_rent": 1000, "security_deposit": 2000,
		"start_time": start, "end_time": start.AddDate(1, 0, 0),
		"property_descriptor": "Unit 4B",
	})
	leaseID := int(lease["lease_id"].(float64))
	base := fmt.Sprintf("/api/v1/leases/%d", leaseID)
	assert.Equal(t, "Pending", lease["status"])

	status, out = h.call("landlord", "POST", base+"/deposit", nil)
	assert.Equal(t, fiber.StatusForbidden, status, out)

	h.clock.Advance(time.Minute)
	lease = h.ok("tenant", "POST", base+"/deposit", nil)
	assert.Equal(t, "Active", lease["status"])
	assert.EqualValues(t, 2000, h.paymentBalance(domain.EscrowAccount))

	h.clock.Advance(time.Minute)
	lease = h.ok("tenant", "POST", base+"/rent", map[string]int{"month": 1, "year": 2025})
	assert.EqualValues(t, 1000, lease["total_rent_paid"])
	status, out = h.call("tenant", "POST", base+"/rent", map[string]int{"month": 1, "year": 2025})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "DuplicatePayment", errorKind(out))

	h.clock.Advance(time.Minute)
	h.ok("landlord", "POST", base+"/terminate", nil)
	h.clock.Advance(time.Minute)
	lease = h.ok("landlord", "POST", base+"/return-deposit", map[string]int{"amount": 1500})
	assert.Equal(t, true, lease["deposit_returned"])
	assert.EqualValues(t, 1000, lease["total_rent_paid"])

	status, out = h.call("landlord", "POST", base+"/return-deposit", map[string]int{"amount": 0})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "AlreadyReturned", errorKind(out))

	tenant, _ := domain.ParseAccount(tenantAccount)
	landlord, _ := domain.ParseAccount(landlordAccount)
	// tenant: 10000 - 2000 deposit - 1000 rent + 1500 refund; landlord: 1000 rent + 500 kept
	assert.EqualValues(t, 8500, h.paymentBalance(tenant))
	assert.EqualValues(t, 1500, h.paymentBalance(landlord))
	assert.EqualValues(t, 0, h.paymentBalance(domain.EscrowAccount))

	status, out = h.call("admin", "GET", fmt.Sprintf("/api/v1/events?lease_id=%d", leaseID), nil)
	require.Equal(t, fiber.StatusOK, status)
	evs, _ := out["data"].([]interface{})
	kinds := make([]string, 0, len(evs))
	for _, e := range evs {
		kinds = append(kinds, e.(map[string]interface{})["kind"].(string))
	}
	assert.Equal(t, []string{"deposit_returned", "lease_terminated", "rent_paid", "deposit_paid", "lease_created"}, kinds)
}

func TestAPI_UnknownLeaseIsNotFound(t *testing.T) {
	h := newHarness(t)
	status, out := h.call("tenant", "GET", "/api/v1/leases/999", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NotFound", errorKind(out))

	status, _ = h.call("tenant", "GET", "/api/v1/leases/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
