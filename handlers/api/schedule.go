package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"izinkuy/models"
	"izinkuy/state"
	"izinkuy/utils"
)

// ScheduleHandler manages the weekly teaching schedule.
type ScheduleHandler struct {
	manager *state.Manager
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(manager *state.Manager) *ScheduleHandler {
	return &ScheduleHandler{manager: manager}
}

// HandleList returns all schedule entries.
func (h *ScheduleHandler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.manager.Schedules())
}

// HandleSave creates or updates one entry.
func (h *ScheduleHandler) HandleSave(c *fiber.Ctx) error {
	var item models.ScheduleItem
	if err := c.BodyParser(&item); err != nil {
		return utils.BadRequestError("Invalid request body", err)
	}

	if item.DayIndex < 0 || item.DayIndex > 6 {
		return utils.ValidationError("Day index must be between 0 and 6", nil)
	}
	if item.Subject == "" {
		return utils.ValidationError("Subject is required", nil)
	}
	if item.StartTime == "" || item.EndTime == "" {
		return utils.ValidationError("Start and end time are required", nil)
	}

	item.Subject = utils.StripHTML(item.Subject)
	item.ClassName = utils.StripHTML(item.ClassName)
	item.Level = utils.StripHTML(item.Level)
	item.Note = utils.StripHTML(item.Note)

	saved, err := h.manager.SaveSchedule(item)
	if err != nil {
		return utils.InternalServerError("Failed to save schedule", err)
	}
	return c.JSON(saved)
}

// HandleDelete removes one entry by ID.
func (h *ScheduleHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.manager.DeleteSchedule(id); err != nil {
		if errors.Is(err, state.ErrScheduleNotFound) {
			return utils.NotFoundError("Schedule entry not found", err)
		}
		return utils.InternalServerError("Failed to delete schedule", err)
	}
	return c.JSON(fiber.Map{"deleted": id})
}
