package middleware

import (
	"crypto/subtle"

	"yardsale-board/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminKey guards ledger endpoints with the ?key= query parameter. An empty configured
// key disables the endpoints entirely.
func AdminKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Query("key")
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			return response.Unauthorized(c)
		}
		return c.Next()
	}
}
