package api

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"izinkuy/cloud"
	"izinkuy/config"
	"izinkuy/storage"
	"izinkuy/utils"
)

// AdminHandler serves the registered-users and analytics views. Routes using
// it sit behind the session middleware; the handler additionally checks the
// configured admin email.
type AdminHandler struct {
	users  *storage.UserStorage
	cloud  cloud.Store
	config *config.Config
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(users *storage.UserStorage, store cloud.Store, cfg *config.Config) *AdminHandler {
	return &AdminHandler{users: users, cloud: store, config: cfg}
}

func (h *AdminHandler) requireAdmin(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)
	if email == "" || email != h.config.Auth.AdminEmail {
		return utils.ForbiddenError("Admin access required", nil)
	}
	return nil
}

// HandleUsers lists registered accounts together with their last stored
// document timestamp.
func (h *AdminHandler) HandleUsers(c *fiber.Ctx) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	users, err := h.users.ListUsers()
	if err != nil {
		return utils.InternalServerError("Failed to list users", err)
	}

	docs, err := h.cloud.ListDocuments()
	if err != nil {
		return utils.InternalServerError("Failed to list documents", err)
	}
	lastUpdated := make(map[string]int64, len(docs))
	for _, doc := range docs {
		lastUpdated[doc.UserID] = doc.LastUpdated.UnixMilli()
	}

	type userRow struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		CreatedAt   int64  `json:"createdAt"`
		LastLoginAt int64  `json:"lastLoginAt"`
		LastSyncAt  int64  `json:"lastSyncAt,omitempty"`
	}
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		row := userRow{
			ID:         u.ID,
			Email:      u.Email,
			CreatedAt:  u.CreatedAt.UnixMilli(),
			LastSyncAt: lastUpdated[u.ID],
		}
		if !u.LastLoginAt.IsZero() {
			row.LastLoginAt = u.LastLoginAt.UnixMilli()
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt < rows[j].CreatedAt })

	return c.JSON(rows)
}

// HandleAnalytics lists recorded usage events, newest first.
func (h *AdminHandler) HandleAnalytics(c *fiber.Ctx) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	events, err := h.cloud.ListEvents()
	if err != nil {
		return utils.InternalServerError("Failed to list analytics events", err)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Timestamp.After(events[j].Timestamp) })

	return c.JSON(events)
}
