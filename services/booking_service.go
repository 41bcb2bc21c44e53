package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService is the booking ledger: it creates bookings against open
// slots and moves them through
//
//	pending   -> confirmed | rejected | cancelled
//	confirmed -> cancelled | completed
//
// Every other move is refused with ErrInvalidState.
type BookingService struct {
	db    *gorm.DB
	clock Clock

	// CancellationCutoff refuses cancellations this close to the start.
	// Zero disables the check.
	CancellationCutoff time.Duration
}

func NewBookingService(db *gorm.DB, clock Clock, cancellationCutoff time.Duration) *BookingService {
	return &BookingService{db: db, clock: clock, CancellationCutoff: cancellationCutoff}
}

var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingRejected, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCancelled, models.BookingCompleted},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func checkTransition(b *models.Booking, to models.BookingStatus) error {
	if !CanTransition(b.Status, to) {
		return invalidStatef("booking is %s, cannot become %s", b.Status, to)
	}
	return nil
}

func (s *BookingService) Create(ctx context.Context, studentID, tutorID uuid.UUID, start time.Time) (*models.Booking, error) {
	start = start.UTC()
	if start.Minute() != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
		return nil, validationf("sessions start on the hour")
	}
	if !start.After(s.clock.Now()) {
		return nil, validationf("cannot book a slot in the past")
	}
	if studentID == tutorID {
		return nil, validationf("tutors cannot book themselves")
	}

	day, hour := slotOf(start)
	booking := models.Booking{
		StudentID:          studentID,
		TutorID:            tutorID,
		ScheduledStartTime: start,
		ScheduledEndTime:   start.Add(models.SessionLength),
		SlotDate:           day,
		SlotHour:           hour,
		Status:             models.BookingPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tutor models.Tutor
		if err := tx.First(&tutor, "user_id = ?", tutorID).Error; err != nil {
			return notFound(err, "tutor")
		}

		// Competing requests for the same tutor hour queue on this row.
		var templateRow models.AvailabilitySlot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tutor_id = ? AND hour_start = ?", tutorID, hour).
			Limit(1).Find(&templateRow).Error; err != nil {
			return fmt.Errorf("lock template hour: %w", err)
		}

		ok, err := isSlotAvailable(tx, tutorID, start)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrSlotUnavailable, start.Format(time.RFC3339))
		}

		if err := tx.Create(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s was just taken", ErrSlotUnavailable, start.Format(time.RFC3339))
			}
			return fmt.Errorf("create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Accept confirms a pending booking and opens its session in the same
// transaction.
func (s *BookingService) Accept(ctx context.Context, bookingID, tutorID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBooking(tx, bookingID, &booking); err != nil {
			return err
		}
		if booking.TutorID != tutorID {
			return forbiddenf("you are not the tutor for this booking")
		}
		if err := checkTransition(&booking, models.BookingConfirmed); err != nil {
			return err
		}

		booking.Status = models.BookingConfirmed
		if err := tx.Model(&booking).Update("status", booking.Status).Error; err != nil {
			return fmt.Errorf("confirm booking: %w", err)
		}
		session := models.Session{BookingID: booking.ID, Status: models.SessionScheduled}
		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		booking.Session = &session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) Reject(ctx context.Context, bookingID, tutorID uuid.UUID, reason *string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBooking(tx, bookingID, &booking); err != nil {
			return err
		}
		if booking.TutorID != tutorID {
			return forbiddenf("you are not the tutor for this booking")
		}
		if err := checkTransition(&booking, models.BookingRejected); err != nil {
			return err
		}
		return closeBooking(tx, &booking, models.BookingRejected, tutorID, reason)
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, bookingID, userID uuid.UUID, reason *string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBooking(tx, bookingID, &booking); err != nil {
			return err
		}
		if !booking.IsParticipant(userID) {
			return forbiddenf("you are not part of this booking")
		}
		if err := checkTransition(&booking, models.BookingCancelled); err != nil {
			return err
		}
		if s.CancellationCutoff > 0 && booking.ScheduledStartTime.Sub(s.clock.Now()) < s.CancellationCutoff {
			return invalidStatef("bookings cannot be cancelled within %s of the start", s.CancellationCutoff)
		}
		return closeBooking(tx, &booking, models.BookingCancelled, userID, reason)
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Complete ends an active session: the session and its booking become
// completed and every message of the session expires an hour from now.
func (s *BookingService) Complete(ctx context.Context, sessionID, tutorID uuid.UUID, notes *string) (*models.Session, error) {
	now := s.clock.Now()
	var session models.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Booking").
			First(&session, "id = ?", sessionID).Error; err != nil {
			return notFound(err, "session")
		}
		booking := session.Booking
		if booking == nil {
			return fmt.Errorf("%w: booking of session", ErrNotFound)
		}
		if booking.TutorID != tutorID {
			return forbiddenf("you are not the tutor for this session")
		}
		if session.Status != models.SessionActive {
			return invalidStatef("session is %s, only active sessions can be completed", session.Status)
		}
		if err := checkTransition(booking, models.BookingCompleted); err != nil {
			return err
		}

		session.Status = models.SessionCompleted
		session.ActualEndTime = &now
		if notes != nil {
			session.Notes = notes
		}
		if err := tx.Model(&session).Select("status", "actual_end_time", "notes").Updates(&session).Error; err != nil {
			return fmt.Errorf("complete session: %w", err)
		}

		booking.Status = models.BookingCompleted
		if err := tx.Model(booking).Update("status", booking.Status).Error; err != nil {
			return fmt.Errorf("complete booking: %w", err)
		}

		if err := tx.Model(&models.SessionMessage{}).
			Where("session_id = ?", session.ID).
			Update("expires_at", now.Add(time.Hour)).Error; err != nil {
			return fmt.Errorf("expire session messages: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *BookingService) Get(ctx context.Context, bookingID, callerID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).
		Preload("Student").
		Preload("Tutor").
		Preload("Session").
		First(&booking, "id = ?", bookingID).Error; err != nil {
		return nil, notFound(err, "booking")
	}
	if !booking.IsParticipant(callerID) {
		return nil, forbiddenf("you are not part of this booking")
	}
	return &booking, nil
}

type BookingFilter struct {
	Status   models.BookingStatus
	Page     int
	PageSize int
}

func (f BookingFilter) limits() (int, int) {
	page, size := f.Page, f.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return size, (page - 1) * size
}

func (s *BookingService) ListForStudent(ctx context.Context, studentID uuid.UUID, filter BookingFilter) ([]models.Booking, int64, error) {
	return s.list(ctx, "student_id = ?", studentID, "Tutor", filter)
}

func (s *BookingService) ListForTutor(ctx context.Context, tutorID uuid.UUID, filter BookingFilter) ([]models.Booking, int64, error) {
	return s.list(ctx, "tutor_id = ?", tutorID, "Student", filter)
}

func (s *BookingService) list(ctx context.Context, owner string, ownerID uuid.UUID, counterpart string, filter BookingFilter) ([]models.Booking, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Booking{}).Where(owner, ownerID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	limit, offset := filter.limits()
	var bookings []models.Booking
	if err := q.Preload(counterpart).Preload("Session").
		Order("scheduled_start_time desc").
		Limit(limit).Offset(offset).
		Find(&bookings).Error; err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, total, nil
}

func lockBooking(tx *gorm.DB, bookingID uuid.UUID, booking *models.Booking) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(booking, "id = ?", bookingID).Error; err != nil {
		return notFound(err, "booking")
	}
	return nil
}

func closeBooking(tx *gorm.DB, booking *models.Booking, status models.BookingStatus, by uuid.UUID, reason *string) error {
	if reason != nil {
		trimmed := strings.TrimSpace(*reason)
		if trimmed == "" {
			reason = nil
		} else {
			reason = &trimmed
		}
	}
	booking.Status = status
	booking.CancelledBy = &by
	booking.CancellationReason = reason
	err := tx.Model(booking).
		Select("status", "cancelled_by", "cancellation_reason").
		Updates(booking).Error
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	return nil
}
