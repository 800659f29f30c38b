package middleware

import "github.com/gofiber/fiber/v2"

// NoStore marks responses as uncacheable. Application state changes on every
// dispatch, so intermediaries must never serve a stale copy.
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		c.Set(fiber.HeaderCacheControl, "no-store")
		return err
	}
}
