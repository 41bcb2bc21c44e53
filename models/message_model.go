package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionMessage is a chat line scoped to a session. Rows past ExpiresAt are
// hidden from reads; the cleanup job removes them later.
type SessionMessage struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID      uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	MessageContent string    `gorm:"type:text;not null" json:"message_content"`
	SentAt         time.Time `gorm:"not null" json:"sent_at"`
	ExpiresAt      time.Time `gorm:"not null;index" json:"expires_at"`
}

func (m *SessionMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
