package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hkarap/sentinews/internal/logger"
)

// CallerKeyContextKey is where the caller's opaque identity is stored on
// the request context.
const CallerKeyContextKey = "callerKey"

// RequireCallerKey extracts the caller's API key from the X-API-Key header
// and threads it through the request as the opaque owner identity for
// scoped resources. Verifying the key against an identity provider is the
// job of the fronting auth layer, not this service.
func RequireCallerKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-API-Key")
		if key == "" {
			logger.Get().Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("Request without API key")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or missing API Key",
			})
		}

		// For "Bearer " prefixed tokens
		key = strings.TrimPrefix(key, "Bearer ")

		c.Locals(CallerKeyContextKey, key)
		return c.Next()
	}
}

// CallerKey reads the identity stored by RequireCallerKey.
func CallerKey(c *fiber.Ctx) string {
	key, _ := c.Locals(CallerKeyContextKey).(string)
	return key
}

// AdminOnly is a middleware that checks if the request is from an admin
func AdminOnly(adminKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get API key from header
		apiKey := c.Get("X-API-Key")
		if apiKey == "" {
			logger.Get().Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("Admin access attempt without API key")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "API key is required",
			})
		}

		// Check if the API key matches the admin key
		if adminKey == "" || apiKey != adminKey {
			logger.Get().Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("Unauthorized admin access attempt")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		return c.Next()
	}
}
