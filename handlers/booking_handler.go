package handlers

import (
	"context"
	"log"
	"time"

	"github.com/anjiri1684/tutor_scheduler/middleware"
	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/anjiri1684/tutor_scheduler/notifications"
	"github.com/anjiri1684/tutor_scheduler/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	TutorID   string `json:"tutor_id" validate:"required,uuid"`
	StartTime string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

type ReasonRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	var req CreateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "start_time must be RFC3339")
	}

	booking, err := h.Bookings.Create(c.UserContext(), caller.ID, uuid.MustParse(req.TutorID), start)
	if err != nil {
		return err
	}
	h.notify(c.UserContext(), booking.ID, caller.ID, notifications.BookingRequested)
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func (h *Handler) GetMyBookings(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	page, pageSize := pageParams(c)
	filter := services.BookingFilter{Status: models.BookingStatus(c.Query("status")), Page: page, PageSize: pageSize}

	bookings, total, err := h.Bookings.ListForStudent(c.UserContext(), caller.ID, filter)
	if err != nil {
		return err
	}
	return paginated(c, bookings, total, page, pageSize)
}

func (h *Handler) GetTutorBookings(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	page, pageSize := pageParams(c)
	filter := services.BookingFilter{Status: models.BookingStatus(c.Query("status")), Page: page, PageSize: pageSize}

	bookings, total, err := h.Bookings.ListForTutor(c.UserContext(), caller.ID, filter)
	if err != nil {
		return err
	}
	return paginated(c, bookings, total, page, pageSize)
}

func (h *Handler) GetBooking(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	bookingID, err := uuidParam(c, "bookingId")
	if err != nil {
		return err
	}
	booking, err := h.Bookings.Get(c.UserContext(), bookingID, caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(booking)
}

func (h *Handler) AcceptBooking(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	bookingID, err := uuidParam(c, "bookingId")
	if err != nil {
		return err
	}
	booking, err := h.Bookings.Accept(c.UserContext(), bookingID, caller.ID)
	if err != nil {
		return err
	}
	h.notify(c.UserContext(), booking.ID, caller.ID, notifications.BookingAccepted)
	return c.JSON(booking)
}

func (h *Handler) RejectBooking(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	bookingID, err := uuidParam(c, "bookingId")
	if err != nil {
		return err
	}
	var req ReasonRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	booking, err := h.Bookings.Reject(c.UserContext(), bookingID, caller.ID, req.Reason)
	if err != nil {
		return err
	}
	h.notify(c.UserContext(), booking.ID, caller.ID, notifications.BookingRejected)
	return c.JSON(booking)
}

func (h *Handler) CancelBooking(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	bookingID, err := uuidParam(c, "bookingId")
	if err != nil {
		return err
	}
	var req ReasonRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	booking, err := h.Bookings.Cancel(c.UserContext(), bookingID, caller.ID, req.Reason)
	if err != nil {
		return err
	}
	h.notify(c.UserContext(), booking.ID, caller.ID, notifications.BookingCancelled)
	return c.JSON(booking)
}

func (h *Handler) GetBookingSession(c *fiber.Ctx) error {
	caller, err := middleware.CallerFrom(c)
	if err != nil {
		return err
	}
	bookingID, err := uuidParam(c, "bookingId")
	if err != nil {
		return err
	}
	session, err := h.Sessions.ForBooking(c.UserContext(), bookingID, caller.ID)
	if err != nil {
		return err
	}
	access, err := h.Sessions.CheckAccess(c.UserContext(), session.ID, caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"session": session, "access": access})
}

// notify reloads the booking with both participants and hands it to send.
// Mail is best effort; a failed reload is only logged.
func (h *Handler) notify(ctx context.Context, bookingID, callerID uuid.UUID, send func(notifications.Notifier, *models.Booking)) {
	booking, err := h.Bookings.Get(ctx, bookingID, callerID)
	if err != nil {
		log.Printf("⚠️ Could not load booking %s for notification: %v", bookingID, err)
		return
	}
	send(h.Notifier, booking)
}
