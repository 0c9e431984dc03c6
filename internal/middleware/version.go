package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lithofield/geodescribe/internal/types"
)

// VersionMiddleware parses the X-Api-Version header and stores it in context
// so handlers can branch on client revision if a breaking change ever ships.
// Only the 1.x line exists; anything else is rejected up front.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", "1.0.0")

		// Support version aliases
		if version == "1.0" {
			version = "1.0.0"
		}

		if !strings.HasPrefix(version, "1.") {
			return &types.CustomError{
				Code:    fiber.StatusBadRequest,
				Message: "Unsupported API version '" + version + "'",
				Type:    "version",
			}
		}

		c.Locals("apiVersion", version)

		return c.Next()
	}
}
