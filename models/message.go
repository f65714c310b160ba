package models

import (
	"time"

	"github.com/google/uuid"
)

// Message belongs to exactly one conversation and has one sender and
// one receiver, both of whom must be participants. ParentMessageID, when
// set, must reference a message of the same conversation.
type Message struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Conversation    Conversation `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
	SenderID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender          User         `gorm:"foreignKey:SenderID" json:"sender"`
	ReceiverID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Receiver        User         `gorm:"foreignKey:ReceiverID" json:"-"`
	ParentMessageID *uuid.UUID   `gorm:"type:uuid;index" json:"parent_message_id,omitempty"`
	Content         string       `gorm:"not null" json:"content"`
	Edited          bool         `gorm:"default:false" json:"edited"`
	Read            bool         `gorm:"default:false" json:"read"`
	CreatedAt       time.Time    `json:"timestamp"`
}

type SendMessageRequest struct {
	ReceiverID      uuid.UUID  `json:"receiver_id" binding:"required"`
	ParentMessageID *uuid.UUID `json:"parent_message_id"`
	Content         string     `json:"content" binding:"required"`
}

type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// MessageThread mirrors a message with its replies nested recursively,
// ordered by timestamp ascending at every level.
type MessageThread struct {
	Message
	Replies []MessageThread `json:"replies"`
}
