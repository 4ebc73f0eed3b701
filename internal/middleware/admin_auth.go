package middleware

import (
	"crypto/subtle"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
)

// RequireAdminToken guards administrative routes with a shared-secret header.
// Requests must send X-Admin-Token matching the ADMIN_API_TOKEN env var.
func RequireAdminToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		expected := os.Getenv("ADMIN_API_TOKEN")
		if expected == "" {
			log.Println("ERROR: ADMIN_API_TOKEN not set")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Server configuration error",
			})
		}

		supplied := c.Get("X-Admin-Token")
		if supplied == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing admin token",
			})
		}
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(expected)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid admin token",
			})
		}

		return c.Next()
	}
}
