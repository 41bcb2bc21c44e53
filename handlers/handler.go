package handlers

import (
	"errors"
	"log"
	"math"
	"strconv"
	"time"

	config "github.com/anjiri1684/tutor_scheduler/configs"
	"github.com/anjiri1684/tutor_scheduler/notifications"
	"github.com/anjiri1684/tutor_scheduler/services"
	"github.com/anjiri1684/tutor_scheduler/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// Handler carries the services every route needs. It replaces package-level
// database access so tests can build one per database.
type Handler struct {
	Auth         *services.AuthService
	Tutors       *services.TutorService
	Availability *services.AvailabilityService
	Blackouts    *services.BlackoutService
	Resolver     *services.SlotResolver
	Bookings     *services.BookingService
	Sessions     *services.SessionService

	Notifier notifications.Notifier
	Hub      *websocket.Hub
	Settings config.Settings
}

func New(db *gorm.DB, clock services.Clock, settings config.Settings, notifier notifications.Notifier, hub *websocket.Hub) *Handler {
	if notifier == nil {
		notifier = notifications.Noop{}
	}
	return &Handler{
		Auth:         services.NewAuthService(db),
		Tutors:       services.NewTutorService(db),
		Availability: services.NewAvailabilityService(db),
		Blackouts:    services.NewBlackoutService(db),
		Resolver:     services.NewSlotResolver(db, clock),
		Bookings:     services.NewBookingService(db, clock, settings.CancellationCutoff),
		Sessions:     services.NewSessionService(db, clock),
		Notifier:     notifier,
		Hub:          hub,
		Settings:     settings,
	}
}

// ErrorHandler is the app-wide fiber error handler. Service errors are
// mapped onto HTTP statuses so handlers can return them unchanged.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == fiber.StatusInternalServerError {
		log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
		message = "Internal server error"
	}
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"code":    code,
		"message": message,
	})
}

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrSlotUnavailable):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

func parseDate(raw, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, field+" must be YYYY-MM-DD")
	}
	return t, nil
}

func pageParams(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func paginated(c *fiber.Ctx, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(fiber.Map{
		"data": data,
		"meta": fiber.Map{
			"total":     total,
			"page":      page,
			"page_size": pageSize,
			"last_page": int(math.Ceil(float64(total) / float64(pageSize))),
		},
	})
}
