package models

// ConversationHolder is implemented by every entity that access checks
// can target. Instead of branching on the concrete type, policy code
// asks the entity for the conversation that owns it.
type ConversationHolder interface {
	OwningConversation() *Conversation
}

func (c *Conversation) OwningConversation() *Conversation { return c }

func (m *Message) OwningConversation() *Conversation { return &m.Conversation }
