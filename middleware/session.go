package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"izinkuy/auth"
)

// RequireSession guards routes that need a signed-in session. The session
// must be marked authenticated and hold a still-valid token.
func RequireSession(store *session.Store, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return redirectOrUnauthorized(c)
		}

		if sess.Get("authenticated") != true {
			return redirectOrUnauthorized(c)
		}

		token, _ := sess.Get("token").(string)
		claims, err := auth.ParseToken(token, jwtSecret)
		if err != nil {
			sess.Destroy()
			return redirectOrUnauthorized(c)
		}

		c.Locals("userId", claims.Subject)
		c.Locals("email", claims.Email)
		return c.Next()
	}
}

func redirectOrUnauthorized(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api") || c.Get("HX-Request") != "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}
	return c.Redirect("/login")
}
