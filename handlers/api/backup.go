package api

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"izinkuy/backup"
	"izinkuy/state"
	"izinkuy/utils"
)

// BackupHandler serves backup export, import and full reset.
type BackupHandler struct {
	manager *state.Manager
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(manager *state.Manager) *BackupHandler {
	return &BackupHandler{manager: manager}
}

// HandleExport streams the current state as a downloadable JSON file.
func (h *BackupHandler) HandleExport(c *fiber.Ctx) error {
	doc := h.manager.ExportDocument()
	data, err := backup.Export(doc)
	if err != nil {
		return utils.InternalServerError("Failed to export backup", err)
	}

	c.Set(fiber.HeaderContentType, "application/json")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, backup.Filename(time.Now())))
	return c.Send(data)
}

// HandleImport restores state from an uploaded backup file. The client must
// set confirm=true; the restore replaces everything currently stored.
func (h *BackupHandler) HandleImport(c *fiber.Ctx) error {
	if c.FormValue("confirm") != "true" {
		return utils.ValidationError("Import not confirmed", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequestError("Backup file is required", err)
	}
	f, err := file.Open()
	if err != nil {
		return utils.BadRequestError("Failed to open backup file", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, 10<<20))
	if err != nil {
		return utils.BadRequestError("Failed to read backup file", err)
	}

	doc, err := backup.Import(data)
	if err != nil {
		if errors.Is(err, backup.ErrInvalidFormat) {
			return utils.ValidationError("File backup tidak valid", err)
		}
		return utils.BadRequestError("Failed to parse backup file", err)
	}

	if err := h.manager.ImportBackup(*doc); err != nil {
		return utils.InternalServerError("Failed to restore backup", err)
	}

	return c.JSON(fiber.Map{"restored": true})
}

// HandleReset wipes all stored data.
func (h *BackupHandler) HandleReset(c *fiber.Ctx) error {
	if c.FormValue("confirm") != "true" {
		return utils.ValidationError("Reset not confirmed", nil)
	}
	if err := h.manager.ResetAll(); err != nil {
		return utils.InternalServerError("Failed to reset data", err)
	}
	return c.JSON(fiber.Map{"reset": true})
}
