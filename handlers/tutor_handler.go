package handlers

import (
	"github.com/anjiri1684/tutor_scheduler/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateTutorRequest struct {
	UserID       string  `json:"user_id" validate:"required,uuid"`
	Headline     *string `json:"headline,omitempty" validate:"omitempty,max=255"`
	Bio          *string `json:"bio,omitempty"`
	InitialHours []int   `json:"initial_hours" validate:"dive,min=0,max=23"`
}

func (h *Handler) ListTutors(c *fiber.Ctx) error {
	page, pageSize := pageParams(c)
	tutors, total, err := h.Tutors.List(c.UserContext(), page, pageSize)
	if err != nil {
		return err
	}
	return paginated(c, tutors, total, page, pageSize)
}

func (h *Handler) GetTutor(c *fiber.Ctx) error {
	tutorID, err := uuidParam(c, "tutorId")
	if err != nil {
		return err
	}
	tutor, err := h.Tutors.Get(c.UserContext(), tutorID)
	if err != nil {
		return err
	}
	template, err := h.Availability.Template(c.UserContext(), tutorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"tutor":        tutor,
		"weekly_hours": services.OpenHours(template),
	})
}

// GetOpenSlots lists the hours of ?date= a student can still request.
func (h *Handler) GetOpenSlots(c *fiber.Ctx) error {
	tutorID, err := uuidParam(c, "tutorId")
	if err != nil {
		return err
	}
	date, err := parseDate(c.Query("date"), "date")
	if err != nil {
		return err
	}
	if _, err := h.Tutors.Get(c.UserContext(), tutorID); err != nil {
		return err
	}

	hours, err := h.Resolver.ResolveOpenSlots(c.UserContext(), tutorID, date)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"tutor_id": tutorID,
		"date":     date.Format(dateLayout),
		"hours":    hours,
	})
}

func (h *Handler) CreateTutor(c *fiber.Ctx) error {
	var req CreateTutorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	tutor, err := h.Tutors.Create(c.UserContext(), services.NewTutor{
		UserID:       uuid.MustParse(req.UserID),
		Headline:     req.Headline,
		Bio:          req.Bio,
		InitialHours: req.InitialHours,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tutor)
}
