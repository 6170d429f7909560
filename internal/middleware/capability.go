package middleware

import (
	"go-charity/internal/features/rbac"
	"go-charity/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireCapability rejects the request unless the authenticated caller's
// role holds the capability. Services re-check before mutating; this is
// the cheap outer gate.
func RequireCapability(capability rbac.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: no identity in context",
			})
		}

		if !rbac.HasPermission(rbac.Role(claims.Role), capability) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: insufficient permissions for this action",
			})
		}

		return c.Next()
	}
}
