package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionNoShow    SessionStatus = "no_show"
)

// Finished reports whether the session has left the live part of its lifecycle.
func (s SessionStatus) Finished() bool {
	return s == SessionCompleted || s == SessionNoShow
}

type Session struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID       uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"booking_id"`
	Status          SessionStatus `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	ActualStartTime *time.Time    `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time    `json:"actual_end_time,omitempty"`
	Notes           *string       `gorm:"type:text" json:"notes,omitempty"`

	Booking  *Booking         `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	Messages []SessionMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
