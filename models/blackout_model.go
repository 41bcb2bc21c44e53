package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BlackoutDate struct {
	ID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TutorID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_blackout_tutor_date" json:"tutor_id"`
	Date    datatypes.Date `gorm:"column:blackout_date;not null;uniqueIndex:idx_blackout_tutor_date" json:"date"`
	Reason  *string        `gorm:"type:text" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

func (b *BlackoutDate) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
