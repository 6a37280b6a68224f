package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// render wraps c.Render with the base layout and the viewer context
// every template expects.
func (s *Server) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	username, _ := c.Locals(middleware.UsernameLocal).(string)
	data["IsAuth"] = username != ""
	data["Viewer"] = username
	return c.Render(name, data, "layouts/main")
}

func (s *Server) renderNotFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return s.render(c, "404", fiber.Map{"Title": "Page not found"})
}

func (s *Server) renderServerError(c *fiber.Ctx) error {
	c.Status(fiber.StatusInternalServerError)
	return s.render(c, "500", fiber.Map{"Title": "Server error"})
}

// parseID reads a positive numeric route parameter. Anything else is
// treated as an unknown resource.
func parseID(c *fiber.Ctx, param, resource string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, models.NewNotFoundError(resource, c.Params(param))
	}
	return uint(id), nil
}

// parseGroupID reads the optional group select value from a post form.
// An empty value means no group.
func parseGroupID(raw string) (*uint, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// savePostImage stores an uploaded image under the media root and
// returns its public URL path. A missing upload is not an error.
func (s *Server) savePostImage(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("image")
	if err != nil || file == nil {
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	dir := filepath.Join(s.config.MediaRoot, "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return "/media/posts/" + name, nil
}

// safeNext guards the post-login redirect against open redirects:
// only local absolute paths are honored.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
