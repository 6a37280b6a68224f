package server

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

func sessionFromResponse(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			return c.Value
		}
	}
	return ""
}

func TestSignup(t *testing.T) {
	s, app := newTestServer(t)

	t.Run("happy path creates the account and logs in", func(t *testing.T) {
		resp, _ := doRequest(t, app, formRequest("/auth/signup", url.Values{
			"username": {"newcomer"},
			"email":    {"newcomer@example.com"},
			"password": {testPassword},
		}))
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		assert.NotEmpty(t, sessionFromResponse(resp))

		var user models.User
		require.NoError(t, s.db.Where("username = ?", "newcomer").First(&user).Error)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(testPassword)))
	})

	t.Run("duplicate username re-renders the form", func(t *testing.T) {
		resp, body := doRequest(t, app, formRequest("/auth/signup", url.Values{
			"username": {"newcomer"},
			"email":    {"other@example.com"},
			"password": {testPassword},
		}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "already taken")
		assert.Empty(t, sessionFromResponse(resp))
	})

	t.Run("duplicate email re-renders the form", func(t *testing.T) {
		resp, body := doRequest(t, app, formRequest("/auth/signup", url.Values{
			"username": {"someoneelse"},
			"email":    {"newcomer@example.com"},
			"password": {testPassword},
		}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "already exists")
	})

	t.Run("weak password is rejected", func(t *testing.T) {
		resp, body := doRequest(t, app, formRequest("/auth/signup", url.Values{
			"username": {"weakling"},
			"email":    {"weak@example.com"},
			"password": {"short"},
		}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "password")

		var count int64
		s.db.Model(&models.User{}).Where("username = ?", "weakling").Count(&count)
		assert.Zero(t, count)
	})
}

func TestLogin(t *testing.T) {
	s, app := newTestServer(t)
	createTestUser(t, s, "alice")

	t.Run("valid credentials set the session and go home", func(t *testing.T) {
		resp, _ := doRequest(t, app, formRequest("/auth/login", url.Values{
			"username": {"alice"},
			"password": {testPassword},
		}))
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		assert.NotEmpty(t, sessionFromResponse(resp))
	})

	t.Run("next parameter is honored", func(t *testing.T) {
		resp, _ := doRequest(t, app, formRequest("/auth/login", url.Values{
			"username": {"alice"},
			"password": {testPassword},
			"next":     {"/create"},
		}))
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/create", resp.Header.Get("Location"))
	})

	t.Run("offsite next is ignored", func(t *testing.T) {
		resp, _ := doRequest(t, app, formRequest("/auth/login", url.Values{
			"username": {"alice"},
			"password": {testPassword},
			"next":     {"https://evil.example.com/"},
		}))
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))

		resp, _ = doRequest(t, app, formRequest("/auth/login", url.Values{
			"username": {"alice"},
			"password": {testPassword},
			"next":     {"//evil.example.com/"},
		}))
		assert.Equal(t, "/", resp.Header.Get("Location"))
	})

	t.Run("wrong password re-renders with a generic error", func(t *testing.T) {
		resp, body := doRequest(t, app, formRequest("/auth/login", url.Values{
			"username": {"alice"},
			"password": {"Wrong-password-11"},
		}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Invalid username or password")
		assert.Empty(t, sessionFromResponse(resp))
	})

	t.Run("unknown username gets the same error", func(t *testing.T) {
		resp, body := doRequest(t, app, formRequest("/auth/login", url.Values{
			"username": {"ghost"},
			"password": {testPassword},
		}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Invalid username or password")
	})

	t.Run("login page carries the next parameter", func(t *testing.T) {
		resp, body := doRequest(t, app, getRequest("/auth/login?next=%2Fcreate"))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `value="/create"`)
	})
}

func TestLogout(t *testing.T) {
	s, app := newTestServer(t)
	user := createTestUser(t, s, "alice")

	resp, _ := doRequest(t, app, getRequest("/auth/logout", sessionCookie(t, s, user)))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			assert.Empty(t, c.Value)
		}
	}
}
