package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/techagentng/messaging/db"
	apiError "github.com/techagentng/messaging/errors"
	"github.com/techagentng/messaging/models"
	"gorm.io/gorm"
)

type ConversationService interface {
	CreateConversation(creator *models.User, request *models.CreateConversationRequest) (*models.Conversation, *apiError.Error)
	GetUserConversations(actor *models.User) ([]models.Conversation, *apiError.Error)
	GetConversation(actor *models.User, conversationID uuid.UUID) (*models.Conversation, *apiError.Error)
}

type conversationService struct {
	store  db.Store
	policy AccessPolicy
}

func NewConversationService(store db.Store, policy AccessPolicy) ConversationService {
	return &conversationService{
		store:  store,
		policy: policy,
	}
}

// CreateConversation creates a conversation with the requested
// participants; the creator is always added even when omitted from the
// request.
func (s *conversationService) CreateConversation(creator *models.User, request *models.CreateConversationRequest) (*models.Conversation, *apiError.Error) {
	if creator == nil {
		return nil, apiError.ErrUnauthorized
	}

	ids := request.ParticipantIDs
	hasCreator := false
	for _, id := range ids {
		if id == creator.ID {
			hasCreator = true
			break
		}
	}
	if !hasCreator {
		ids = append(ids, creator.ID)
	}

	participants := make([]models.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.store.Users.FindUserByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apiError.ValidationError("participant " + id.String() + " does not exist")
			}
			log.Printf("CreateConversation error: %v", err)
			return nil, apiError.ErrInternalServerError
		}
		participants = append(participants, *user)
	}

	conversation := &models.Conversation{
		Model:        models.Model{ID: uuid.New()},
		Participants: participants,
	}
	if err := s.store.Conversations.CreateConversation(conversation); err != nil {
		log.Printf("CreateConversation error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return conversation, nil
}

func (s *conversationService) GetUserConversations(actor *models.User) ([]models.Conversation, *apiError.Error) {
	if actor == nil {
		return nil, apiError.ErrUnauthorized
	}
	conversations, err := s.store.Conversations.GetUserConversations(actor.ID)
	if err != nil {
		log.Printf("GetUserConversations error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return conversations, nil
}

func (s *conversationService) GetConversation(actor *models.User, conversationID uuid.UUID) (*models.Conversation, *apiError.Error) {
	conversation, err := s.store.Conversations.FindConversationByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFoundError("conversation")
		}
		log.Printf("GetConversation error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if apiErr := s.policy.CheckParticipant(actor, conversation); apiErr != nil {
		return nil, apiErr
	}
	return conversation, nil
}
