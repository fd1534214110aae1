package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"rwa-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping() error { return p.err }

func setup(t *testing.T, db pinger) (*fiber.App, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	h := &Handlers{Rdb: rdb, DB: db, HealthAdminKey: "secret"}
	app := fiber.New()
	app.Use(middleware.HealthMarker(rdb))
	app.Get("/", h.Dashboard)
	app.Get("/reset", h.Reset)
	app.Get("/health/json", h.JSON)
	app.Get("/health/errors", h.Errors)
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("kaboom") })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app, rdb
}

func TestJSON_ReportsServiceAndStatus(t *testing.T) {
	app, _ := setup(t, pinger{})
	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	b, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "rwa-ledger-api", out["service"])
	assert.Equal(t, "ok", out["status"])
}

func TestJSON_DatabaseDownIs503(t *testing.T) {
	app, _ := setup(t, pinger{err: errors.New("down")})
	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestReset_RequiresKey(t *testing.T) {
	app, rdb := setup(t, pinger{})
	ctx := context.Background()
	require.NoError(t, rdb.Set(ctx, middleware.KeyReqTotal, "7", 0).Err())

	resp, err := app.Test(httptest.NewRequest("GET", "/reset?key=wrong", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/reset?key=secret", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	n, err := rdb.Exists(ctx, middleware.KeyReqTotal).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestHealthMarker_CountsAndLogsErrors(t *testing.T) {
	app, rdb := setup(t, pinger{})
	ctx := context.Background()

	_, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)

	total, err := rdb.Get(ctx, middleware.KeyReqTotal).Int()
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	failed, err := rdb.Get(ctx, middleware.KeyReqErrors).Int()
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/errors", nil))
	require.NoError(t, err)
	var entries []middleware.ErrorLogEntry
	b, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(b, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "/boom", entries[0].Path)
	assert.Equal(t, fiber.StatusInternalServerError, entries[0].Status)
	assert.Equal(t, "kaboom", entries[0].Error)
}

func TestDashboard_RendersHTML(t *testing.T) {
	app, _ := setup(t, pinger{})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "RWA Ledger")
}
