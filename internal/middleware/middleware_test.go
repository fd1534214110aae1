package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracing_ReusesValidInboundID(t *testing.T) {
	app := fiber.New()
	app.Use(Tracing())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(GetTraceID(c)) })

	inbound := uuid.New().String()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(traceIDHeader, inbound)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, inbound, resp.Header.Get(traceIDHeader))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(traceIDHeader, "<script>")
	resp, err = app.Test(req)
	require.NoError(t, err)
	_, perr := uuid.Parse(resp.Header.Get(traceIDHeader))
	assert.NoError(t, perr)
}

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(CORSConfig{AllowedSuffix: ".example.com", DevPassword: "letmein"}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	cases := []struct {
		origin, password string
		want             int
	}{
		{"", "", fiber.StatusOK},
		{"https://app.example.com", "", fiber.StatusOK},
		{"https://evil.test", "", fiber.StatusForbidden},
		{"https://evil.test", "letmein", fiber.StatusOK},
		{"http://localhost:3000", "", fiber.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		if tc.origin != "" {
			req.Header.Set("Origin", tc.origin)
		}
		if tc.password != "" {
			req.Header.Set("dev-password", tc.password)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode, tc.origin)
	}

	local := fiber.New()
	local.Use(CORS(CORSConfig{AllowLocal: true}))
	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := local.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestErrorHandler_MapsKinds(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/domain", func(c *fiber.Ctx) error { return apperr.New(apperr.NotFound, "Lease not found") })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrMethodNotAllowed })
	app.Get("/infra", func(c *fiber.Ctx) error { return errors.New("connection reset") })

	for path, want := range map[string]int{"/domain": 404, "/fiber": 405, "/infra": 500} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}
}

type checker map[domain.Account]bool

func (c checker) Require(_ context.Context, caller domain.Account, _ string) error {
	if c[caller] {
		return nil
	}
	return apperr.New(apperr.AuthorizationError, "Caller lacks the capability")
}

func TestRequireAuthAndCapability(t *testing.T) {
	const account = "0xa11ce00000000000000000000000000000000001"
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-Account"); v != "" {
			c.Locals("user", map[string]interface{}{"user_id": "u", "account": v})
		}
		return c.Next()
	})
	app.Get("/", RequireAuth(), RequireCapability(checker{domain.Account(account): true}, "admin"), func(c *fiber.Ctx) error {
		return c.SendString(GetAccount(c).String())
	})

	send := func(acct string) int {
		req := httptest.NewRequest("GET", "/", nil)
		if acct != "" {
			req.Header.Set("X-Account", acct)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}
	assert.Equal(t, fiber.StatusUnauthorized, send(""))
	assert.Equal(t, fiber.StatusUnauthorized, send("not-an-account"))
	assert.Equal(t, fiber.StatusForbidden, send("0xb0b0000000000000000000000000000000000002"))
	assert.Equal(t, fiber.StatusOK, send("0xA11CE00000000000000000000000000000000001"))
}
