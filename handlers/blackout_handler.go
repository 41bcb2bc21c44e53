package handlers

import (
	"time"

	"github.com/anjiri1684/tutor_scheduler/middleware"
	"github.com/gofiber/fiber/v2"
)

type CreateBlackoutRequest struct {
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

func (h *Handler) CreateBlackout(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	var req CreateBlackoutRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	date, err := parseDate(req.Date, "date")
	if err != nil {
		return err
	}

	blackout, err := h.Blackouts.Add(c.UserContext(), caller.ID, date, req.Reason)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(blackout)
}

// ListBlackouts accepts optional ?from= and ?to= bounds, both inclusive.
func (h *Handler) ListBlackouts(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		if from, err = parseDate(raw, "from"); err != nil {
			return err
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = parseDate(raw, "to"); err != nil {
			return err
		}
	}

	blackouts, err := h.Blackouts.List(c.UserContext(), caller.ID, from, to)
	if err != nil {
		return err
	}
	return c.JSON(blackouts)
}

func (h *Handler) DeleteBlackout(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	date, err := parseDate(c.Params("date"), "date")
	if err != nil {
		return err
	}
	if err := h.Blackouts.Remove(c.UserContext(), caller.ID, date); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
