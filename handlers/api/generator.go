package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"izinkuy/assist"
	"izinkuy/letter"
	"izinkuy/models"
	"izinkuy/state"
	"izinkuy/utils"
)

// GeneratorHandler renders letter previews and polishes reasons.
type GeneratorHandler struct {
	manager   *state.Manager
	rephraser assist.Rephraser
}

// NewGeneratorHandler creates a new GeneratorHandler
func NewGeneratorHandler(manager *state.Manager, rephraser assist.Rephraser) *GeneratorHandler {
	return &GeneratorHandler{manager: manager, rephraser: rephraser}
}

// PreviewRequest is the letter preview payload.
type PreviewRequest struct {
	Type          string `json:"type"`
	Date          string `json:"date"` // 2006-01-02
	Reason        string `json:"reason"`
	HalaqahTime   string `json:"halaqahTime"`
	HalaqahPlace  string `json:"halaqahPlace"`
	BadalSolution string `json:"badalSolution"`
}

// HandlePreview renders the letter text for the given inputs. Rendering is
// pure; this endpoint stores nothing.
func (h *GeneratorHandler) HandlePreview(c *fiber.Ctx) error {
	var req PreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestError("Invalid request body", err)
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

	schedules := h.manager.Schedules()
	text := letter.Render(letter.Input{
		Template:      body,
		Profile:       h.manager.Profile(),
		Schedules:     schedules,
		Date:          date,
		Reason:        utils.StripHTML(req.Reason),
		HalaqahTime:   req.HalaqahTime,
		HalaqahPlace:  req.HalaqahPlace,
		BadalSolution: utils.StripHTML(req.BadalSolution),
	})

	daySchedules := models.FilterByDay(schedules, int(date.Weekday()))
	models.SortByStartTime(daySchedules)

	return c.JSON(fiber.Map{
		"text":         text,
		"dayName":      letter.DayName(date),
		"daySchedules": daySchedules,
	})
}

// PolishRequest asks the assistant for a more formal reason.
type PolishRequest struct {
	Reason string `json:"reason"`
	Type   string `json:"type"`
	Style  string `json:"style"`
}

// HandlePolish rewrites the reason through the assistant. Failures fall back
// to the original text, so this always succeeds.
func (h *GeneratorHandler) HandlePolish(c *fiber.Ctx) error {
	var req PolishRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestError("Invalid request body", err)
	}
	if req.Reason == "" {
		return utils.ValidationError("Reason is required", nil)
	}

	polished := h.rephraser.Polish(c.Context(), req.Reason, req.Type, assist.Style(req.Style))
	return c.JSON(fiber.Map{"reason": polished})
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}
