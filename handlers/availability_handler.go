package handlers

import (
	"strconv"

	"github.com/anjiri1684/tutor_scheduler/middleware"
	"github.com/anjiri1684/tutor_scheduler/services"
	"github.com/gofiber/fiber/v2"
)

type ReplaceAvailabilityRequest struct {
	AvailableHours []int `json:"available_hours" validate:"required,dive,min=0,max=23"`
}

type SetSlotRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

func (h *Handler) GetMyAvailability(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	template, err := h.Availability.Template(c.UserContext(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"slots":           template,
		"available_hours": services.OpenHours(template),
	})
}

func (h *Handler) ReplaceAvailability(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	var req ReplaceAvailabilityRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.Availability.ReplaceAll(c.UserContext(), caller.ID, req.AvailableHours); err != nil {
		return err
	}
	return h.GetMyAvailability(c)
}

func (h *Handler) SetAvailabilitySlot(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	hour, err := strconv.Atoi(c.Params("hour"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "hour must be an integer")
	}
	var req SetSlotRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.Availability.SetSlot(c.UserContext(), caller.ID, hour, *req.IsAvailable); err != nil {
		return err
	}
	return h.GetMyAvailability(c)
}
