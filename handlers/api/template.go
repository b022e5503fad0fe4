package api

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"izinkuy/state"
	"izinkuy/utils"
)

// TemplateHandler manages the permission-type templates.
type TemplateHandler struct {
	manager *state.Manager
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(manager *state.Manager) *TemplateHandler {
	return &TemplateHandler{manager: manager}
}

// HandleList returns the full template mapping, defaults merged in.
func (h *TemplateHandler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.manager.Templates())
}

// TemplateRequest carries a template body for a type name.
type TemplateRequest struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// HandleSave stores a template body under a type name.
func (h *TemplateHandler) HandleSave(c *fiber.Ctx) error {
	var req TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestError("Invalid request body", err)
	}
	if req.Name == "" {
		return utils.ValidationError("Template name is required", nil)
	}

	if err := h.manager.SetTemplate(utils.StripHTML(req.Name), req.Body); err != nil {
		return utils.InternalServerError("Failed to save template", err)
	}
	return c.JSON(fiber.Map{"saved": req.Name})
}

// HandleAddType registers a new permission type; an empty body seeds the
// generic default.
func (h *TemplateHandler) HandleAddType(c *fiber.Ctx) error {
	var req TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestError("Invalid request body", err)
	}
	name := utils.StripHTML(req.Name)
	if name == "" {
		return utils.ValidationError("Type name is required", nil)
	}

	if err := h.manager.AddPermissionType(name, req.Body); err != nil {
		if errors.Is(err, state.ErrTypeExists) {
			return utils.ValidationError("Type already exists", err)
		}
		return utils.InternalServerError("Failed to add type", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"added": name})
}

// HandleReset restores a built-in type to its default body, or removes a
// custom type.
func (h *TemplateHandler) HandleReset(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return utils.BadRequestError("Invalid type name", err)
	}
	if err := h.manager.ResetTemplate(name); err != nil {
		return utils.InternalServerError("Failed to reset template", err)
	}
	return c.JSON(fiber.Map{"reset": name})
}
