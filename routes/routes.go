package routes

import (
	"github.com/anjiri1684/tutor_scheduler/handlers"
	"github.com/anjiri1684/tutor_scheduler/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Register mounts every route group under /api/v1.
func Register(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")
	protected := middleware.Protected(h.Settings.JWTSecret)

	AuthRoutes(api, h)
	PublicRoutes(api, h)
	TutorRoutes(api, h, protected)
	BookingRoutes(api, h, protected)
	SessionRoutes(api, h, protected)
	AdminRoutes(api, h, protected)
}

func AuthRoutes(api fiber.Router, h *handlers.Handler) {
	auth := api.Group("/auth")
	auth.Post("/register", h.RegisterUser)
	auth.Post("/login", h.LoginUser)
}

func PublicRoutes(api fiber.Router, h *handlers.Handler) {
	tutors := api.Group("/tutors")
	tutors.Get("", h.ListTutors)
	tutors.Get("/:tutorId", h.GetTutor)
	tutors.Get("/:tutorId/slots", h.GetOpenSlots)
}

// TutorRoutes guards each route instead of the group: a group-level Use on
// "/tutor" would also catch the public "/tutors" paths.
func TutorRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	tutor := api.Group("/tutor")
	tutorOnly := middleware.TutorRequired()

	tutor.Get("/availability/me", protected, tutorOnly, h.GetMyAvailability)
	tutor.Put("/availability", protected, tutorOnly, h.ReplaceAvailability)
	tutor.Patch("/availability/:hour", protected, tutorOnly, h.SetAvailabilitySlot)

	tutor.Post("/blackouts", protected, tutorOnly, h.CreateBlackout)
	tutor.Get("/blackouts", protected, tutorOnly, h.ListBlackouts)
	tutor.Delete("/blackouts/:date", protected, tutorOnly, h.DeleteBlackout)

	tutor.Get("/bookings", protected, tutorOnly, h.GetTutorBookings)
	tutor.Post("/bookings/:bookingId/accept", protected, tutorOnly, h.AcceptBooking)
	tutor.Post("/bookings/:bookingId/reject", protected, tutorOnly, h.RejectBooking)
}

func BookingRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	booking := api.Group("/bookings", protected)
	booking.Post("", h.CreateBooking)
	booking.Get("/me", h.GetMyBookings)
	booking.Get("/:bookingId", h.GetBooking)
	booking.Post("/:bookingId/cancel", h.CancelBooking)
	booking.Get("/:bookingId/session", h.GetBookingSession)
}

func SessionRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	sessions := api.Group("/sessions", protected)
	sessions.Get("/:sessionId/access", h.GetSessionAccess)
	sessions.Post("/:sessionId/start", h.StartSession)
	sessions.Post("/:sessionId/complete", h.CompleteSession)
	sessions.Get("/:sessionId/messages", h.GetSessionMessages)
	sessions.Post("/:sessionId/messages", h.SendSessionMessage)

	// The socket authenticates with its first frame, not the header.
	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(h.ServeWs))
}

func AdminRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	admin := api.Group("/admin", protected, middleware.AdminRequired())
	admin.Post("/tutors", h.CreateTutor)
}
