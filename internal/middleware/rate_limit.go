package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit creates a per-operator rate limiter middleware instance. Requests
// without an authenticated operator fall back to the client IP, which covers
// the login endpoint.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			operatorID := fmt.Sprintf("%v", c.Locals("operator_id"))
			if operatorID == "" || operatorID == "0" || operatorID == "<nil>" {
				operatorID = c.IP()
			}
			return fmt.Sprintf("%s:%s", identifier, operatorID)
		},
	})
}
