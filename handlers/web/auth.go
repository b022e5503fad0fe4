// handlers/web/auth.go
package web

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"izinkuy/auth"
	"izinkuy/config"
	"izinkuy/utils"
)

// AuthHandler serves the cloud-account screens. The application itself works
// without an account; signing in only enables cloud mirroring.
type AuthHandler struct {
	store  *session.Store
	config *config.Config
	auth   *auth.Service
}

// NewAuthHandler creates a new instance of AuthHandler
func NewAuthHandler(store *session.Store, cfg *config.Config, authService *auth.Service) *AuthHandler {
	return &AuthHandler{store: store, config: cfg, auth: authService}
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	if h.signedIn(c) {
		return c.Redirect("/")
	}
	return c.Render("login", fiber.Map{
		"Title":     "Login",
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleLogin processes the login form
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	localizer := c.Locals("localizer").(*i18n.Localizer)

	if email == "" || password == "" {
		return c.Status(fiber.StatusBadRequest).Render("login", fiber.Map{
			"Error": utils.T(localizer, "auth_missing_fields"),
			"Email": email,
		})
	}

	identity, err := h.auth.Login(email, password)
	if err != nil {
		authErr := auth.AsError(err)
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
			"Error": utils.T(localizer, authErr.MessageID()),
			"Email": email,
		})
	}

	if err := h.createSession(c, identity); err != nil {
		return c.Status(fiber.StatusInternalServerError).Render("login", fiber.Map{
			"Error": utils.T(localizer, "auth_session_failed"),
			"Email": email,
		})
	}

	return c.Redirect("/")
}

// ShowRegister renders the registration page
func (h *AuthHandler) ShowRegister(c *fiber.Ctx) error {
	if h.signedIn(c) {
		return c.Redirect("/")
	}
	return c.Render("register", fiber.Map{
		"Title":     "Daftar",
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleRegister processes the registration form
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	localizer := c.Locals("localizer").(*i18n.Localizer)

	if email == "" || password == "" {
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
			"Error": utils.T(localizer, "auth_missing_fields"),
			"Email": email,
		})
	}

	identity, err := h.auth.Register(email, password)
	if err != nil {
		authErr := auth.AsError(err)
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
			"Error": utils.T(localizer, authErr.MessageID()),
			"Email": email,
		})
	}

	if err := h.createSession(c, identity); err != nil {
		return c.Status(fiber.StatusInternalServerError).Render("register", fiber.Map{
			"Error": utils.T(localizer, "auth_session_failed"),
			"Email": email,
		})
	}

	return c.Redirect("/")
}

// HandleLogout processes user logout. Local data stays; only cloud mirroring
// stops.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.auth.Logout()

	sess, err := h.store.Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			utils.Log.Warn("Failed to destroy session: %v", err)
		}
	}

	return c.Redirect("/")
}

func (h *AuthHandler) createSession(c *fiber.Ctx, identity *auth.Identity) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return err
	}

	expiry := time.Duration(h.config.Auth.SessionHours) * time.Hour
	token, err := auth.GenerateToken(identity, h.config.Auth.JWTSecret, expiry)
	if err != nil {
		return err
	}

	sess.Set("authenticated", true)
	sess.Set("email", identity.Email)
	sess.Set("userId", identity.UserID)
	sess.Set("token", token)
	sess.SetExpiry(expiry)

	return sess.Save()
}

func (h *AuthHandler) signedIn(c *fiber.Ctx) bool {
	sess, err := h.store.Get(c)
	if err != nil {
		return false
	}
	return sess.Get("authenticated") == true
}
