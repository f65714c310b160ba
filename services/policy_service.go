package services

import (
	apiError "github.com/techagentng/messaging/errors"
	"github.com/techagentng/messaging/models"
)

// AccessPolicy gates reads and writes against conversation-owned
// entities. It is the last stage of the request pipeline: identity,
// time window and role checks run in middleware before it.
type AccessPolicy interface {
	CheckParticipant(actor *models.User, target models.ConversationHolder) *apiError.Error
}

type accessPolicy struct{}

func NewAccessPolicy() AccessPolicy {
	return &accessPolicy{}
}

// CheckParticipant denies unauthenticated actors, then requires the
// actor to be a current participant of the conversation owning the
// target. The same rule applies to reads and writes.
func (p *accessPolicy) CheckParticipant(actor *models.User, target models.ConversationHolder) *apiError.Error {
	if actor == nil {
		return apiError.ErrUnauthorized
	}
	conversation := target.OwningConversation()
	if conversation == nil {
		return apiError.ErrForbidden
	}
	if !conversation.HasParticipant(actor.ID) {
		return apiError.ForbiddenError("you are not a participant in this conversation")
	}
	return nil
}
