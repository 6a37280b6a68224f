package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"inkwell/internal/forms"
	"inkwell/internal/middleware"
	"inkwell/internal/service"
)

// AddComment handles the comment form on a post page. An invalid
// submission is dropped and the viewer is sent back to the post.
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Post")
	if err != nil {
		return err
	}
	detailURL := fmt.Sprintf("/posts/%d", id)

	form := &forms.CommentForm{Text: c.FormValue("text")}
	if !form.Validate(s.blocklist) {
		return c.Redirect(detailURL, fiber.StatusFound)
	}

	userID, _ := middleware.CurrentUserID(c)
	if _, err := s.commentService.AddComment(c.Context(), service.AddCommentInput{
		PostID:   id,
		AuthorID: userID,
		Text:     form.Text,
	}); err != nil {
		return err
	}
	return c.Redirect(detailURL, fiber.StatusFound)
}
