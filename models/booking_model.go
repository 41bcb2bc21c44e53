package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Active reports whether the booking still holds its slot.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

const SessionLength = time.Hour

// Booking is a one-hour session request. SlotDate and SlotHour are derived
// from ScheduledStartTime and back the partial unique index that keeps at
// most one active booking per tutor slot.
type Booking struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	TutorID            uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_bookings_active_slot,where:status = 'pending' OR status = 'confirmed'" json:"tutor_id"`
	ScheduledStartTime time.Time      `gorm:"not null" json:"scheduled_start_time"`
	ScheduledEndTime   time.Time      `gorm:"not null" json:"scheduled_end_time"`
	SlotDate           datatypes.Date `gorm:"not null;uniqueIndex:idx_bookings_active_slot" json:"slot_date"`
	SlotHour           int            `gorm:"not null;uniqueIndex:idx_bookings_active_slot" json:"slot_hour"`
	Status             BookingStatus  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CancellationReason *string        `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledBy        *uuid.UUID     `gorm:"type:uuid" json:"cancelled_by,omitempty"`

	Student *User    `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Tutor   *User    `gorm:"foreignKey:TutorID" json:"tutor,omitempty"`
	Session *Session `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"session,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// IsParticipant reports whether userID is the booking's student or tutor.
func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return userID == b.StudentID || userID == b.TutorID
}
