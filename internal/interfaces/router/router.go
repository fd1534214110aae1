package router

import (
	"time"

	"rwa-backend/internal/app"
	authsvc "rwa-backend/internal/application/auth"
	"rwa-backend/internal/config"
	"rwa-backend/internal/infrastructure/database"
	accesshandler "rwa-backend/internal/interfaces/handlers/access"
	assethandler "rwa-backend/internal/interfaces/handlers/assets"
	authhandler "rwa-backend/internal/interfaces/handlers/auth"
	compliancehandler "rwa-backend/internal/interfaces/handlers/compliance"
	eventhandler "rwa-backend/internal/interfaces/handlers/events"
	healthhandler "rwa-backend/internal/interfaces/handlers/health"
	identityhandler "rwa-backend/internal/interfaces/handlers/identity"
	leasehandler "rwa-backend/internal/interfaces/handlers/leases"
	paymenthandler "rwa-backend/internal/interfaces/handlers/payments"
	"rwa-backend/internal/middleware"
	"rwa-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// CreateApp builds the Fiber app over svcs. Session-backed routes need svcs.Rdb.
func CreateApp(cfg *config.Config, svcs *app.Services) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		ReadTimeout:             15 * time.Second,
		WriteTimeout:            15 * time.Second,
	})

	fiberApp.Use(middleware.Tracing())
	fiberApp.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
		AllowLocal:    !cfg.IsProduction(),
	}))
	if svcs.Rdb != nil {
		fiberApp.Use(middleware.Session(svcs.Rdb))
		fiberApp.Use(middleware.HealthMarker(svcs.Rdb))
	}
	fiberApp.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            svcs.Rdb,
		DB:             &database.Pinger{DB: svcs.DB},
		Ledger:         svcs.Stats,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	fiberApp.Get("/", hh.Dashboard)
	fiberApp.Get("/reset", hh.Reset)
	fiberApp.Get("/health/json", hh.JSON)
	fiberApp.Get("/health/errors", hh.Errors)
	if svcs.Metrics != nil {
		fiberApp.Get("/metrics", adaptor.HTTPHandler(svcs.Metrics.Handler()))
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}
	if svcs.Rdb != nil {
		ah := &authhandler.Handlers{
			UserFinder:   &authsvc.GormUserFinder{DB: svcs.DB},
			Capabilities: svcs.Access,
			Rdb:          svcs.Rdb,
			Config:       sessionCfg,
		}
		authGroup := fiberApp.Group("/api/v1/auth")
		authGroup.Post("/login", ah.Login)
		authGroup.Get("/me", ah.Me)
		authGroup.Delete("/logout", ah.Logout)
	}

	api := fiberApp.Group("/api/v1", middleware.RequireAuth())
	Register(api, svcs)
	return fiberApp
}

// Register mounts the ledger API on r. Callers must put middleware.RequireAuth (or an
// equivalent that sets the caller account) in front of r.
func Register(r fiber.Router, svcs *app.Services) {
	requireOfficer := middleware.RequireCapability(svcs.Access, constants.ComplianceOfficer)

	caps := &accesshandler.Handlers{Service: svcs.Access}
	cg := r.Group("/capabilities")
	cg.Get("/:account", caps.List)
	cg.Post("/grant", middleware.RequireCapability(svcs.Access, constants.Admin), caps.Grant)
	cg.Post("/revoke", middleware.RequireCapability(svcs.Access, constants.Admin), caps.Revoke)

	ids := &identityhandler.Handlers{Service: svcs.Identity}
	ig := r.Group("/identities")
	ig.Get("/:account", ids.Get)
	ig.Get("/:account/verified", ids.Verified)
	ig.Get("/:account/jurisdiction", ids.Jurisdiction)
	ig.Post("/", requireOfficer, ids.Register)
	ig.Delete("/:account", requireOfficer, ids.Remove)
	ig.Patch("/:account/jurisdiction", requireOfficer, ids.UpdateJurisdiction)

	comp := &compliancehandler.Handlers{Service: svcs.Compliance}
	compGroup := r.Group("/compliance")
	compGroup.Get("/blacklist", comp.ListBlacklist)
	compGroup.Post("/blacklist", requireOfficer, comp.AddToBlacklist)
	compGroup.Delete("/blacklist/:account", requireOfficer, comp.RemoveFromBlacklist)
	compGroup.Get("/jurisdictions", comp.ListRestrictedJurisdictions)
	compGroup.Post("/jurisdictions", requireOfficer, comp.AddRestrictedJurisdiction)
	compGroup.Delete("/jurisdictions/:code", requireOfficer, comp.RemoveRestrictedJurisdiction)
	compGroup.Get("/assets/:assetId", comp.State)
	compGroup.Post("/assets/:assetId/check", comp.Check)
	compGroup.Put("/assets/:assetId/holder-cap", requireOfficer, comp.SetHolderCap)
	compGroup.Put("/assets/:assetId/max-balance", requireOfficer, comp.SetMaxBalance)

	assets := &assethandler.Handlers{Service: svcs.Ledger}
	ag := r.Group("/assets")
	ag.Get("/", assets.List)
	ag.Post("/", assets.Create)
	ag.Get("/:assetId", assets.Get)
	ag.Patch("/:assetId/valuation", assets.UpdateValuation)
	ag.Get("/:assetId/supply", assets.TotalSupply)
	ag.Get("/:assetId/holdings", assets.Holdings)
	ag.Get("/:assetId/balances/:account", assets.BalanceOf)
	ag.Get("/:assetId/allowances/:owner/:spender", assets.Allowance)
	ag.Post("/:assetId/mint", assets.Mint)
	ag.Post("/:assetId/burn", assets.Burn)
	ag.Post("/:assetId/transfer", assets.Transfer)
	ag.Post("/:assetId/approve", assets.Approve)
	ag.Post("/:assetId/transfer-from", assets.TransferFrom)
	ag.Post("/:assetId/forced-transfer", assets.ForcedTransfer)
	ag.Post("/:assetId/batch-transfer", assets.BatchTransfer)

	pay := &paymenthandler.Handlers{Service: svcs.Payments}
	pg := r.Group("/payments")
	pg.Get("/balances/:account", pay.BalanceOf)
	pg.Post("/fund", pay.Fund)
	pg.Post("/transfer", pay.Transfer)

	ls := &leasehandler.Handlers{Service: svcs.Leases}
	lg := r.Group("/leases")
	lg.Post("/", ls.Create)
	lg.Post("/mark-expired", ls.MarkExpired)
	lg.Get("/landlord/:account", ls.ByLandlord)
	lg.Get("/tenant/:account", ls.ByTenant)
	lg.Get("/:leaseId", ls.Get)
	lg.Get("/:leaseId/payments", ls.RentPayments)
	lg.Get("/:leaseId/expired", ls.IsExpired)
	lg.Post("/:leaseId/deposit", ls.PayDeposit)
	lg.Post("/:leaseId/rent", ls.PayRent)
	lg.Post("/:leaseId/terminate", ls.Terminate)
	lg.Post("/:leaseId/return-deposit", ls.ReturnDeposit)
	lg.Post("/:leaseId/cancel", ls.Cancel)

	ev := &eventhandler.Handlers{Service: svcs.Events}
	r.Get("/events", ev.List)
}
