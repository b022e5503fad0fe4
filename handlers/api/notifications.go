package api

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/valyala/fasthttp"

	"izinkuy/state"
	"izinkuy/utils"
)

// NotificationHandler streams state and sync-status changes to the browser
// using SSE, with a WebSocket fallback.
type NotificationHandler struct {
	manager *state.Manager
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(manager *state.Manager) *NotificationHandler {
	return &NotificationHandler{manager: manager}
}

// HandleSSE handles Server-Sent Events for real-time state updates
func (h *NotificationHandler) HandleSSE(c *fiber.Ctx) error {
	// Set headers for SSE
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	subscriberID, events := h.manager.Subscribe()

	utils.Log.Info("SSE subscriber connected: %s", subscriberID)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer func() {
			h.manager.Unsubscribe(subscriberID)
			utils.Log.Info("SSE subscriber disconnected: %s", subscriberID)
		}()

		// Tell the client where sync currently stands before streaming deltas.
		initial := state.Event{
			Type:       state.EventSyncStatus,
			SyncStatus: h.manager.SyncStatus(),
			Time:       time.Now(),
		}
		if data, err := json.Marshal(initial); err == nil {
			w.WriteString("data: " + string(data) + "\n\n")
			w.Flush()
		}

		// Keep-alive ticker
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				data, _ := json.Marshal(event)
				w.WriteString("data: " + string(data) + "\n\n")
				if err := w.Flush(); err != nil {
					return
				}

			case <-ticker.C:
				// Send keep-alive comment
				w.WriteString(": keepalive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

// HandleWebSocket handles WebSocket connections for real-time state updates
func (h *NotificationHandler) HandleWebSocket(c *websocket.Conn) {
	subscriberID, events := h.manager.Subscribe()

	defer func() {
		h.manager.Unsubscribe(subscriberID)
		c.Close()
		utils.Log.Info("WebSocket subscriber disconnected: %s", subscriberID)
	}()

	utils.Log.Info("WebSocket subscriber connected: %s", subscriberID)

	initial := state.Event{
		Type:       state.EventSyncStatus,
		SyncStatus: h.manager.SyncStatus(),
		Time:       time.Now(),
	}
	if err := c.WriteJSON(initial); err != nil {
		return
	}

	for event := range events {
		if err := c.WriteJSON(event); err != nil {
			utils.Log.Error("Failed to send WebSocket event: %v", err)
			break
		}
	}
}
