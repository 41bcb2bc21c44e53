package handlers

import (
	"github.com/anjiri1684/tutor_scheduler/middleware"
	"github.com/gofiber/fiber/v2"
)

type CompleteSessionRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=4000"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

func (h *Handler) GetSessionAccess(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	sessionID, err := uuidParam(c, "sessionId")
	if err != nil {
		return err
	}
	access, err := h.Sessions.CheckAccess(c.UserContext(), sessionID, caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(access)
}

func (h *Handler) StartSession(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	sessionID, err := uuidParam(c, "sessionId")
	if err != nil {
		return err
	}
	session, err := h.Sessions.Start(c.UserContext(), sessionID, caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(session)
}

func (h *Handler) CompleteSession(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	sessionID, err := uuidParam(c, "sessionId")
	if err != nil {
		return err
	}
	var req CompleteSessionRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	session, err := h.Bookings.Complete(c.UserContext(), sessionID, caller.ID, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(session)
}

func (h *Handler) GetSessionMessages(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	sessionID, err := uuidParam(c, "sessionId")
	if err != nil {
		return err
	}
	messages, err := h.Sessions.Messages(c.UserContext(), sessionID, caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(messages)
}

func (h *Handler) SendSessionMessage(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	sessionID, err := uuidParam(c, "sessionId")
	if err != nil {
		return err
	}
	var req SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	msg, booking, err := h.Sessions.SendMessage(c.UserContext(), sessionID, caller.ID, req.Content)
	if err != nil {
		return err
	}
	if h.Hub != nil {
		h.Hub.Publish(msg, booking)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
