package handlers

import (
	"context"
	"log"

	"github.com/anjiri1684/tutor_scheduler/middleware"
	"github.com/anjiri1684/tutor_scheduler/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// MessagePayload is what a client sends to post into a session chat.
type MessagePayload struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

// ServeWs expects {"type":"auth","token":...} as the first frame, then
// MessagePayload frames. Stored messages are echoed to the sender and pushed
// to the other participant through the hub.
func (h *Handler) ServeWs(c *websocketcontrib.Conn) {
	var auth authMessage
	if err := c.ReadJSON(&auth); err != nil || auth.Type != "auth" {
		log.Printf("WebSocket auth failed: invalid or missing auth message, error: %v", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}
	caller, err := middleware.ParseToken(h.Settings.JWTSecret, auth.Token)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid token, error: %v", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	client := &websocket.Client{UserID: caller.ID, Conn: c}
	if !h.Hub.Join(client) {
		_ = client.Send(fiber.Map{"error": "Server is shutting down"})
		c.Close()
		return
	}
	defer func() {
		h.Hub.Leave(client)
		c.Close()
	}()

	for {
		var msg MessagePayload
		if err := c.ReadJSON(&msg); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Printf("WebSocket closed for client %s", caller.ID)
			} else {
				log.Printf("WebSocket read error for client %s: %v", caller.ID, err)
			}
			return
		}

		sessionID, err := uuid.Parse(msg.SessionID)
		if err != nil {
			_ = client.Send(fiber.Map{"error": "Invalid session_id"})
			continue
		}
		stored, booking, err := h.Sessions.SendMessage(context.Background(), sessionID, caller.ID, msg.Content)
		if err != nil {
			_ = client.Send(fiber.Map{"error": err.Error(), "code": statusFor(err)})
			continue
		}
		_ = client.Send(stored)
		h.Hub.Publish(stored, booking)
	}
}
