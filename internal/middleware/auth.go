package middleware

import (
	"context"

	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const (
	userLocal    = "user"
	accountLocal = "account"
)

// RequireAuth rejects requests without a logged-in operator and exposes the operator's account.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		account, ok := sessionAccount(user)
		if !ok || account.IsZero() {
			return response.Unauthorized(c, "Session has no account")
		}
		c.Locals(accountLocal, account)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// GetAccount returns the caller account set by RequireAuth.
func GetAccount(c *fiber.Ctx) domain.Account {
	account, _ := c.Locals(accountLocal).(domain.Account)
	return account
}

// CapabilityChecker is satisfied by access.Service.
type CapabilityChecker interface {
	Require(ctx context.Context, caller domain.Account, capability string) error
}

// RequireCapability guards a route group with a capability check on the caller.
// Services re-check inside their transaction; this only fails fast at the edge.
func RequireCapability(checker CapabilityChecker, capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := GetAccount(c)
		if account.IsZero() {
			return response.Unauthorized(c, "Unauthorized")
		}
		if err := checker.Require(c.UserContext(), account, capability); err != nil {
			return response.FromError(c, err)
		}
		return c.Next()
	}
}
