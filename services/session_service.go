package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxMessageLength = 4000

// SessionService gates the live part of a booking: starting the session and
// the chat around it.
type SessionService struct {
	db    *gorm.DB
	clock Clock
}

func NewSessionService(db *gorm.DB, clock Clock) *SessionService {
	return &SessionService{db: db, clock: clock}
}

func loadSession(tx *gorm.DB, sessionID uuid.UUID, lock bool) (*models.Session, error) {
	q := tx.Preload("Booking")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var session models.Session
	if err := q.First(&session, "id = ?", sessionID).Error; err != nil {
		return nil, notFound(err, "session")
	}
	if session.Booking == nil {
		return nil, fmt.Errorf("%w: booking of session", ErrNotFound)
	}
	return &session, nil
}

func (s *SessionService) accessFor(session *models.Session, callerID uuid.UUID) (Access, error) {
	b := session.Booking
	if !b.IsParticipant(callerID) {
		return Access{}, forbiddenf("you are not part of this session")
	}
	access := EvaluateAccess(s.clock.Now(), b.ScheduledStartTime, b.ScheduledEndTime, session.Status, callerID == b.TutorID)
	// A booking called off after confirmation closes its session for good.
	if b.Status == models.BookingCancelled || b.Status == models.BookingRejected {
		access.State = AccessExpired
		access.CanMessage, access.CanStart = false, false
	}
	return access, nil
}

func (s *SessionService) Get(ctx context.Context, sessionID, callerID uuid.UUID) (*models.Session, error) {
	session, err := loadSession(s.db.WithContext(ctx), sessionID, false)
	if err != nil {
		return nil, err
	}
	if !session.Booking.IsParticipant(callerID) {
		return nil, forbiddenf("you are not part of this session")
	}
	return session, nil
}

func (s *SessionService) ForBooking(ctx context.Context, bookingID, callerID uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).Preload("Booking").First(&session, "booking_id = ?", bookingID).Error; err != nil {
		return nil, notFound(err, "session")
	}
	if session.Booking == nil || !session.Booking.IsParticipant(callerID) {
		return nil, forbiddenf("you are not part of this session")
	}
	return &session, nil
}

func (s *SessionService) CheckAccess(ctx context.Context, sessionID, callerID uuid.UUID) (Access, error) {
	session, err := loadSession(s.db.WithContext(ctx), sessionID, false)
	if err != nil {
		return Access{}, err
	}
	return s.accessFor(session, callerID)
}

// Start moves a scheduled session to active. Only the tutor may start it,
// from an hour before the scheduled start until the scheduled end.
func (s *SessionService) Start(ctx context.Context, sessionID, tutorID uuid.UUID) (*models.Session, error) {
	var session *models.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = loadSession(tx, sessionID, true)
		if err != nil {
			return err
		}
		if session.Booking.TutorID != tutorID {
			return forbiddenf("only the tutor can start this session")
		}
		if session.Status != models.SessionScheduled {
			return invalidStatef("session is %s", session.Status)
		}
		if session.Booking.Status != models.BookingConfirmed {
			return invalidStatef("booking is %s", session.Booking.Status)
		}
		access, err := s.accessFor(session, tutorID)
		if err != nil {
			return err
		}
		if !access.CanStart {
			return invalidStatef("session cannot be started while %s", access.State)
		}

		now := s.clock.Now()
		session.Status = models.SessionActive
		session.ActualStartTime = &now
		if err := tx.Model(session).Select("status", "actual_start_time").Updates(session).Error; err != nil {
			return fmt.Errorf("start session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SendMessage stores a chat line if the window is open. Every message of a
// session expires an hour after the scheduled end.
func (s *SessionService) SendMessage(ctx context.Context, sessionID, senderID uuid.UUID, content string) (*models.SessionMessage, *models.Booking, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, validationf("message content is required")
	}
	if len(content) > maxMessageLength {
		return nil, nil, validationf("message longer than %d bytes", maxMessageLength)
	}

	session, err := loadSession(s.db.WithContext(ctx), sessionID, false)
	if err != nil {
		return nil, nil, err
	}
	access, err := s.accessFor(session, senderID)
	if err != nil {
		return nil, nil, err
	}
	if !access.CanMessage {
		return nil, nil, invalidStatef("messaging is closed while %s", access.State)
	}

	msg := models.SessionMessage{
		SessionID:      session.ID,
		SenderID:       senderID,
		MessageContent: content,
		SentAt:         s.clock.Now(),
		ExpiresAt:      access.ClosesAt,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, nil, fmt.Errorf("save message: %w", err)
	}
	return &msg, session.Booking, nil
}

// Messages returns the session's messages that have not expired, oldest first.
func (s *SessionService) Messages(ctx context.Context, sessionID, callerID uuid.UUID) ([]models.SessionMessage, error) {
	session, err := loadSession(s.db.WithContext(ctx), sessionID, false)
	if err != nil {
		return nil, err
	}
	if !session.Booking.IsParticipant(callerID) {
		return nil, forbiddenf("you are not part of this session")
	}

	var messages []models.SessionMessage
	if err := s.db.WithContext(ctx).
		Where("session_id = ? AND expires_at >= ?", sessionID, s.clock.Now()).
		Order("sent_at asc").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return messages, nil
}

// PurgeExpired deletes messages that expired before cutoff. Reads already
// hide them; this only reclaims space.
func PurgeExpired(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at < ?", cutoff).Delete(&models.SessionMessage{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge messages: %w", res.Error)
	}
	return res.RowsAffected, nil
}
