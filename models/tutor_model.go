package models

import (
	"time"

	"github.com/google/uuid"
)

// Tutor is the profile side of a user with the tutor role. Deleting it
// cascades to the availability template and blackout dates.
type Tutor struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Headline  *string   `gorm:"size:255" json:"headline"`
	Bio       *string   `gorm:"type:text" json:"bio"`
	AvgRating float32   `gorm:"default:0" json:"avg_rating"`

	User         *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Availability []AvailabilitySlot `gorm:"foreignKey:TutorID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Blackouts    []BlackoutDate     `gorm:"foreignKey:TutorID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
