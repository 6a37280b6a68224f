package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"inkwell/internal/cache"
)

// RateLimit returns a middleware enforcing limit requests per window for
// the named resource, keyed by the authenticated user when present and by
// remote IP otherwise. When Redis is unavailable the limiter fails open:
// posting a little too fast beats turning writes off.
func RateLimit(c *cache.Cache, resource string, limit int, window time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := "ip:" + ctx.IP()
		if userID, ok := CurrentUserID(ctx); ok {
			id = fmt.Sprintf("user:%d", userID)
		}

		key := fmt.Sprintf("rl:%s:%s", resource, id)
		count, err := c.CountInWindow(ctx.Context(), key, window)
		if err != nil {
			return ctx.Next()
		}
		if count > int64(limit) {
			return ctx.Status(fiber.StatusTooManyRequests).SendString("Too many requests, slow down.")
		}
		return ctx.Next()
	}
}
