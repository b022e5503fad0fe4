package api

import (
	"github.com/gofiber/fiber/v2"

	"izinkuy/utils"
)

// I18nHandler handles i18n-related requests
type I18nHandler struct{}

// GetTranslations returns translations for the client-side JavaScript
func (h *I18nHandler) GetTranslations(c *fiber.Ctx) error {
	lang := c.Params("lang")
	if lang == "" {
		lang = "id"
	}

	// Only allow supported languages
	if lang != "id" && lang != "en" {
		lang = "id"
	}

	localizer := utils.GetLocalizer(lang)

	// Create a map of common translation keys for client-side use
	translations := map[string]string{
		"message_saved":         utils.T(localizer, "message_saved"),
		"message_copied":        utils.T(localizer, "message_copied"),
		"message_deleted":       utils.T(localizer, "message_deleted"),
		"message_error":         utils.T(localizer, "message_error"),
		"message_duplicate":     utils.T(localizer, "message_duplicate"),
		"confirm_delete":        utils.T(localizer, "confirm_delete"),
		"confirm_clear_history": utils.T(localizer, "confirm_clear_history"),
		"confirm_import_backup": utils.T(localizer, "confirm_import_backup"),
		"confirm_reset_all":     utils.T(localizer, "confirm_reset_all"),
		"confirm_yes":           utils.T(localizer, "confirm_yes"),
		"confirm_no":            utils.T(localizer, "confirm_no"),
		"sync_status_synced":    utils.T(localizer, "sync_status_synced"),
		"sync_status_syncing":   utils.T(localizer, "sync_status_syncing"),
		"sync_status_error":     utils.T(localizer, "sync_status_error"),
		"error_network":         utils.T(localizer, "error_network"),
		"error_404":             utils.T(localizer, "error_404"),
		"error_500":             utils.T(localizer, "error_500"),
	}

	return c.JSON(translations)
}
