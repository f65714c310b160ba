package models

import (
	"github.com/google/uuid"
)

// Notification ties a user to a message they received. Rows are only
// ever written by the message creation trigger; clients see them as a
// read-only projection.
type Notification struct {
	Model
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;index" json:"message_id"`
	Message   Message   `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
}
