// handlers/web/pages.go
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"izinkuy/config"
	"izinkuy/models"
	"izinkuy/state"
)

// PageHandler renders the application pages.
type PageHandler struct {
	store   *session.Store
	config  *config.Config
	manager *state.Manager
}

// NewPageHandler creates a new instance of PageHandler
func NewPageHandler(store *session.Store, cfg *config.Config, manager *state.Manager) *PageHandler {
	return &PageHandler{store: store, config: cfg, manager: manager}
}

// HandleGenerator renders the letter generator, the default page.
func (h *PageHandler) HandleGenerator(c *fiber.Ctx) error {
	templates := h.manager.Templates()
	typeNames := make([]string, 0, len(templates))
	for name := range templates {
		typeNames = append(typeNames, name)
	}

	return c.Render("generator", fiber.Map{
		"Title":          "Buat Izin",
		"Profile":        h.manager.Profile(),
		"Types":          typeNames,
		"SyncStatus":     h.manager.SyncStatus(),
		"Email":          h.currentEmail(c),
		"ShowOnboarding": !h.manager.OnboardingCompleted(),
	})
}

// HandleSchedule renders the weekly schedule manager.
func (h *PageHandler) HandleSchedule(c *fiber.Ctx) error {
	schedules := h.manager.Schedules()
	models.SortByStartTime(schedules)

	byDay := make([][]models.ScheduleItem, 7)
	for day := 0; day < 7; day++ {
		byDay[day] = models.FilterByDay(schedules, day)
	}

	return c.Render("schedule", fiber.Map{
		"Title":      "Jadwal",
		"DayNames":   models.DayNames,
		"ByDay":      byDay,
		"SyncStatus": h.manager.SyncStatus(),
		"Email":      h.currentEmail(c),
	})
}

// HandleTemplates renders the template editor.
func (h *PageHandler) HandleTemplates(c *fiber.Ctx) error {
	return c.Render("templates", fiber.Map{
		"Title":      "Template",
		"Templates":  h.manager.Templates(),
		"SyncStatus": h.manager.SyncStatus(),
		"Email":      h.currentEmail(c),
	})
}

// HandleHistory renders the generated-letter history.
func (h *PageHandler) HandleHistory(c *fiber.Ctx) error {
	history := h.manager.History()
	// Newest first for display.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	return c.Render("history", fiber.Map{
		"Title":      "Riwayat",
		"History":    history,
		"SyncStatus": h.manager.SyncStatus(),
		"Email":      h.currentEmail(c),
	})
}

// HandleSettings renders the data management page (export/import/reset).
func (h *PageHandler) HandleSettings(c *fiber.Ctx) error {
	return c.Render("settings", fiber.Map{
		"Title":      "Pengaturan Data",
		"SyncStatus": h.manager.SyncStatus(),
		"Email":      h.currentEmail(c),
	})
}

// HandleAdmin renders the admin dashboard shell. Data loads through the admin
// API, which enforces the admin email again.
func (h *PageHandler) HandleAdmin(c *fiber.Ctx) error {
	email := h.currentEmail(c)
	if email == "" || email != h.config.Auth.AdminEmail {
		return c.Status(fiber.StatusForbidden).Render("error", fiber.Map{
			"Error": "Admin access required",
			"Code":  fiber.StatusForbidden,
		})
	}

	return c.Render("admin", fiber.Map{
		"Title": "Admin Panel",
		"Email": email,
	})
}

func (h *PageHandler) currentEmail(c *fiber.Ctx) string {
	sess, err := h.store.Get(c)
	if err != nil {
		return ""
	}
	if sess.Get("authenticated") != true {
		return ""
	}
	email, _ := sess.Get("email").(string)
	return email
}
