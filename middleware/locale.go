package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"izinkuy/utils"
)

// LocaleMiddleware detects and sets the user's locale. Indonesian is the
// default; English is supported for the UI chrome.
func LocaleMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := ""

		// 1. Try to get language from query parameter
		lang = c.Query("lang")

		// 2. Try to get language from cookie
		if lang == "" {
			lang = c.Cookies("lang")
		}

		// 3. Try to get language from Accept-Language header
		if lang == "" {
			acceptLang := c.Get("Accept-Language")
			if strings.HasPrefix(acceptLang, "en") {
				lang = "en"
			} else {
				lang = "id"
			}
		}

		// Only allow supported languages
		if lang != "id" && lang != "en" {
			lang = "id"
		}

		// Get localizer for this language
		localizer := utils.GetLocalizer(lang)

		// Store in context
		c.Locals("localizer", localizer)
		c.Locals("lang", lang)

		return c.Next()
	}
}
