package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"izinkuy/letter"
	"izinkuy/state"
	"izinkuy/utils"
)

// HistoryHandler manages the generated-letter history.
type HistoryHandler struct {
	manager *state.Manager
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(manager *state.Manager) *HistoryHandler {
	return &HistoryHandler{manager: manager}
}

// HandleList returns all history entries.
func (h *HistoryHandler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.manager.History())
}

// HandleSave renders the letter once more server-side and appends it to the
// history. Consecutive duplicates are suppressed.
func (h *HistoryHandler) HandleSave(c *fiber.Ctx) error {
	var req PreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestError("Invalid request body", err)
	}
	if req.Reason == "" {
		return utils.ValidationError("Reason is required", nil)
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return utils.ValidationError("Invalid date", err)
	}

	templates := h.manager.Templates()
	body, ok := templates[req.Type]
	if !ok {
		return utils.NotFoundError("Unknown permission type", nil)
	}

	reason := utils.StripHTML(req.Reason)
	text := letter.Render(letter.Input{
		Template:      body,
		Profile:       h.manager.Profile(),
		Schedules:     h.manager.Schedules(),
		Date:          date,
		Reason:        reason,
		HalaqahTime:   req.HalaqahTime,
		HalaqahPlace:  req.HalaqahPlace,
		BadalSolution: utils.StripHTML(req.BadalSolution),
	})

	saved, err := h.manager.AppendHistory(req.Type, date.Format("2006-01-02"), reason, text)
	if err != nil {
		return utils.InternalServerError("Failed to save history", err)
	}

	return c.JSON(fiber.Map{
		"saved": saved,
		"text":  text,
	})
}

// HandleDelete removes one history entry.
func (h *HistoryHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.manager.DeleteHistory(id); err != nil {
		if errors.Is(err, state.ErrHistoryNotFound) {
			return utils.NotFoundError("History entry not found", err)
		}
		return utils.InternalServerError("Failed to delete history entry", err)
	}
	return c.JSON(fiber.Map{"deleted": id})
}

// HandleClear removes the whole history.
func (h *HistoryHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.manager.ClearHistory(); err != nil {
		return utils.InternalServerError("Failed to clear history", err)
	}
	return c.JSON(fiber.Map{"cleared": true})
}
