package api

import (
	"github.com/gofiber/fiber/v2"

	"izinkuy/state"
)

// SyncHandler exposes the current cloud sync status.
type SyncHandler struct {
	manager *state.Manager
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(manager *state.Manager) *SyncHandler {
	return &SyncHandler{manager: manager}
}

// HandleStatus returns the sync status and the signed-in email, if any.
func (h *SyncHandler) HandleStatus(c *fiber.Ctx) error {
	status := h.manager.SyncStatus()
	identity := h.manager.Identity()
	resp := fiber.Map{"status": string(status)}
	if identity != nil {
		resp["email"] = identity.Email
	}
	return c.JSON(resp)
}

// HandleOnboardingComplete marks the first-run onboarding as done.
func (h *SyncHandler) HandleOnboardingComplete(c *fiber.Ctx) error {
	if err := h.manager.CompleteOnboarding(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"completed": true})
}
