package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/validation"
)

const sessionTTL = 7 * 24 * time.Hour

func (s *Server) SignupPage(c *fiber.Ctx) error {
	return s.render(c, "signup", fiber.Map{
		"Title":    "Sign up",
		"Error":    "",
		"Username": "",
		"Email":    "",
	})
}

func (s *Server) Signup(c *fiber.Ctx) error {
	ctx := c.Context()
	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.TrimSpace(strings.ToLower(c.FormValue("email")))
	password := c.FormValue("password")

	renderError := func(msg string) error {
		return s.render(c, "signup", fiber.Map{
			"Title":    "Sign up",
			"Error":    msg,
			"Username": username,
			"Email":    email,
		})
	}

	if err := validation.ValidateUsername(username); err != nil {
		return renderError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return renderError(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return renderError(err.Error())
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return err
	} else if existing != nil {
		return renderError("An account with this email already exists")
	}
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return renderError("This username is already taken")
	} else if !models.IsNotFound(err) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	middleware.Logger.InfoContext(ctx, "user signed up", "user_id", user.ID, "username", user.Username)
	if err := s.setSessionCookie(c, user); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

func (s *Server) LoginPage(c *fiber.Ctx) error {
	return s.render(c, "login", fiber.Map{
		"Title":    "Log in",
		"Error":    "",
		"Username": "",
		"Next":     c.Query("next"),
	})
}

func (s *Server) Login(c *fiber.Ctx) error {
	ctx := c.Context()
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	next := c.FormValue("next")

	renderError := func() error {
		return s.render(c, "login", fiber.Map{
			"Title":    "Log in",
			"Error":    "Invalid username or password",
			"Username": username,
			"Next":     next,
		})
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if models.IsNotFound(err) {
			return renderError()
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return renderError()
	}

	middleware.Logger.InfoContext(ctx, "user logged in", "user_id", user.ID, "username", user.Username)
	if err := s.setSessionCookie(c, user); err != nil {
		return err
	}
	return c.Redirect(safeNext(next), fiber.StatusFound)
}

func (s *Server) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect("/", fiber.StatusFound)
}

func (s *Server) setSessionCookie(c *fiber.Ctx, user *models.User) error {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"iss":      "inkwell",
		"iat":      now.Unix(),
		"exp":      now.Add(sessionTTL).Unix(),
		"jti":      uuid.New().String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return models.NewInternalError(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  now.Add(sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.config.Env == "production",
	})
	return nil
}
