package models

import (
	"github.com/google/uuid"
)

// Conversation is a set of participants exchanging messages. A
// conversation with no participants left is deleted by the user
// deletion cascade.
type Conversation struct {
	Model
	Participants []User    `gorm:"many2many:conversation_participants;" json:"participants"`
	Messages     []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

// HasParticipant reports whether the given user currently belongs to
// the conversation. Participants must be preloaded.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	for _, p := range c.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

type CreateConversationRequest struct {
	ParticipantIDs []uuid.UUID `json:"participant_ids" binding:"required,min=1"`
}

type ConversationResponse struct {
	ID           uuid.UUID      `json:"id"`
	Participants []UserResponse `json:"participants"`
	CreatedAt    string         `json:"created_at"`
}
