// Package middleware provides authentication and logging middleware for the application.
package middleware

import (
	"net/url"
	"strconv"

	"inkwell/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionCookie is the name of the HTTP-only cookie carrying the session token.
	SessionCookie = "inkwell_session"
	// UserIDLocal is the Fiber locals key holding the authenticated user's ID.
	UserIDLocal = "userID"
	// UsernameLocal is the Fiber locals key holding the authenticated user's username.
	UsernameLocal = "username"
	// LoginPath is where unauthenticated users are redirected to.
	LoginPath = "/auth/login"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// parseSession validates the session cookie and returns the user ID and
// username it carries. The bool result is false for missing, expired or
// malformed tokens.
func parseSession(c *fiber.Ctx) (uint, string, bool) {
	tokenString := c.Cookies(SessionCookie)
	if tokenString == "" {
		return 0, "", false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}

	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, "", false
	}
	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, "", false
	}

	username, _ := claims["username"].(string)
	return uint(userID), username, true
}

// LoadUser resolves the session cookie into locals when present. It never
// blocks the request: anonymous visitors simply carry no user locals.
func LoadUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, username, ok := parseSession(c); ok {
			c.Locals(UserIDLocal, userID)
			c.Locals(UsernameLocal, username)
		}
		return c.Next()
	}
}

// RequireUser redirects unauthenticated requests to the login page with a
// `next` parameter pointing back at the original path.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals(UserIDLocal).(uint); ok {
			return c.Next()
		}
		return c.Redirect(LoginPath+"?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
	}
}

// CurrentUserID returns the authenticated user's ID from locals, if any.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals(UserIDLocal).(uint)
	return userID, ok
}
