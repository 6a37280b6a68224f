package server

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready reports whether the server can actually serve traffic: the
// database must answer a ping. The cache is optional and only reported.
func (s *Server) Ready(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Context())
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unavailable",
			"database": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status": "ok",
		"cache":  s.cache.Enabled(),
	})
}
