package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageHistory is an immutable snapshot of a message's content before
// an edit. Rows are only ever written by the edit trigger, one per
// content change, and are never updated.
type MessageHistory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID  uuid.UUID `gorm:"type:uuid;not null;index" json:"message_id"`
	Message    Message   `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
	OldContent string    `gorm:"not null" json:"old_content"`
	EditedByID uuid.UUID `gorm:"type:uuid;not null;index" json:"edited_by_id"`
	EditedBy   User      `gorm:"foreignKey:EditedByID" json:"edited_by"`
	EditedAt   time.Time `gorm:"autoCreateTime" json:"edited_at"`
}

func (h *MessageHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
