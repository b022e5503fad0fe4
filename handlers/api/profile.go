package api

import (
	"github.com/gofiber/fiber/v2"

	"izinkuy/models"
	"izinkuy/state"
	"izinkuy/utils"
)

// ProfileHandler manages the employee profile.
type ProfileHandler struct {
	manager *state.Manager
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(manager *state.Manager) *ProfileHandler {
	return &ProfileHandler{manager: manager}
}

// HandleGet returns the current profile.
func (h *ProfileHandler) HandleGet(c *fiber.Ctx) error {
	return c.JSON(h.manager.Profile())
}

// HandleUpdate replaces the profile wholesale, the way the profile editor
// submits it.
func (h *ProfileHandler) HandleUpdate(c *fiber.Ctx) error {
	var profile models.Profile
	if err := c.BodyParser(&profile); err != nil {
		return utils.BadRequestError("Invalid request body", err)
	}

	sanitizeProfile(&profile)

	if err := h.manager.UpdateProfile(profile); err != nil {
		return utils.InternalServerError("Failed to save profile", err)
	}
	return c.JSON(profile)
}

func sanitizeProfile(p *models.Profile) {
	p.Name = utils.StripHTML(p.Name)
	p.IDNumber = utils.StripHTML(p.IDNumber)
	p.Unit = utils.StripHTML(p.Unit)
	p.Status = utils.StripHTML(p.Status)
	p.FunctionalPosition = utils.StripHTML(p.FunctionalPosition)
	p.StructuralPosition = utils.StripHTML(p.StructuralPosition)
	p.Workload = utils.StripHTML(p.Workload)
}
