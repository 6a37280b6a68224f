package server

import (
	"github.com/gofiber/fiber/v2"

	"inkwell/internal/middleware"
)

func (s *Server) ProfileFollow(c *fiber.Ctx) error {
	username := c.Params("username")
	userID, _ := middleware.CurrentUserID(c)
	if err := s.followService.Follow(c.Context(), userID, username); err != nil {
		return err
	}
	return c.Redirect("/profile/"+username, fiber.StatusFound)
}

func (s *Server) ProfileUnfollow(c *fiber.Ctx) error {
	username := c.Params("username")
	userID, _ := middleware.CurrentUserID(c)
	if err := s.followService.Unfollow(c.Context(), userID, username); err != nil {
		return err
	}
	return c.Redirect("/profile/"+username, fiber.StatusFound)
}
