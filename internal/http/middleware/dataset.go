// Package middleware holds the fiber middleware used by the API routes.
package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// DatasetReady rejects requests with 503 until the dataset import has
// finished. The readiness check is injected so the application controls
// when it flips.
func DatasetReady(ready func() bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !ready() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "dataset is still loading",
			})
		}
		return c.Next()
	}
}
