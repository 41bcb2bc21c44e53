package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const HoursPerDay = 24

// AvailabilitySlot is one row of a tutor's recurring template: is the tutor
// bookable at HourStart:00 on any day. A missing row reads as unavailable.
type AvailabilitySlot struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	TutorID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_availability_tutor_hour" json:"tutor_id"`
	HourStart   int       `gorm:"not null;uniqueIndex:idx_availability_tutor_hour" json:"hour_start"`
	IsAvailable bool      `gorm:"not null;default:false" json:"is_available"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *AvailabilitySlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
