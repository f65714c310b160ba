package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/techagentng/messaging/db"
	apiError "github.com/techagentng/messaging/errors"
	"github.com/techagentng/messaging/models"
	"github.com/techagentng/messaging/services/ws"
	"gorm.io/gorm"
)

type MessageService interface {
	SendMessage(sender *models.User, conversationID uuid.UUID, request *models.SendMessageRequest) (*models.Message, *apiError.Error)
	EditMessage(editor *models.User, conversationID, messageID uuid.UUID, request *models.EditMessageRequest) (*models.Message, *apiError.Error)
	ListMessages(actor *models.User, conversationID uuid.UUID) ([]models.Message, *apiError.Error)
	GetMessageThread(actor *models.User, conversationID, messageID uuid.UUID) (*models.MessageThread, *apiError.Error)
	GetEditHistory(actor *models.User) ([]models.MessageHistory, *apiError.Error)
}

type messageService struct {
	store     db.Store
	txManager db.TxManager
	policy    AccessPolicy
	triggers  *TriggerEngine
	hub       *ws.Hub
}

func NewMessageService(store db.Store, txManager db.TxManager, policy AccessPolicy, triggers *TriggerEngine, hub *ws.Hub) MessageService {
	return &messageService{
		store:     store,
		txManager: txManager,
		policy:    policy,
		triggers:  triggers,
		hub:       hub,
	}
}

// SendMessage validates the write, then creates the message and its
// side effects (receiver notification) in one transaction.
func (s *messageService) SendMessage(sender *models.User, conversationID uuid.UUID, request *models.SendMessageRequest) (*models.Message, *apiError.Error) {
	conversation, err := s.store.Conversations.FindConversationByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFoundError("conversation")
		}
		log.Printf("SendMessage error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if apiErr := s.policy.CheckParticipant(sender, conversation); apiErr != nil {
		return nil, apiErr
	}
	if !conversation.HasParticipant(request.ReceiverID) {
		return nil, apiError.ValidationError("receiver must be a participant in the conversation")
	}

	if request.ParentMessageID != nil {
		_, err := s.store.Messages.FindMessageInConversation(*request.ParentMessageID, conversationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apiError.ValidationError("parent message must belong to the same conversation")
			}
			log.Printf("SendMessage error: %v", err)
			return nil, apiError.ErrInternalServerError
		}
	}

	message := &models.Message{
		ID:              uuid.New(),
		ConversationID:  conversationID,
		SenderID:        sender.ID,
		ReceiverID:      request.ReceiverID,
		ParentMessageID: request.ParentMessageID,
		Content:         request.Content,
	}

	err = s.txManager.Run(func(store db.Store) error {
		if err := store.Messages.CreateMessage(message); err != nil {
			return err
		}
		return s.triggers.MessageCreated(store, message)
	})
	if err != nil {
		log.Printf("SendMessage error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	// Best-effort push after commit; persistence of the notification is
	// already guaranteed by the trigger.
	if s.hub != nil {
		s.hub.PushToUser(request.ReceiverID, ws.Event{Type: "message.created", Data: message})
	}

	message.Sender = *sender
	return message, nil
}

// EditMessage applies a content update; the pre-write trigger snapshots
// the old content and flips the edited flag in the same transaction.
func (s *messageService) EditMessage(editor *models.User, conversationID, messageID uuid.UUID, request *models.EditMessageRequest) (*models.Message, *apiError.Error) {
	conversation, err := s.store.Conversations.FindConversationByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFoundError("conversation")
		}
		log.Printf("EditMessage error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if apiErr := s.policy.CheckParticipant(editor, conversation); apiErr != nil {
		return nil, apiErr
	}

	var updated *models.Message
	err = s.txManager.Run(func(store db.Store) error {
		old, err := store.Messages.FindMessageInConversation(messageID, conversationID)
		if err != nil {
			return err
		}

		incoming := *old
		incoming.Content = request.Content

		if err := s.triggers.MessageUpdating(store, old, &incoming, editor.ID); err != nil {
			return err
		}
		if err := store.Messages.UpdateMessage(&incoming); err != nil {
			return err
		}
		updated = &incoming
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFoundError("message")
		}
		log.Printf("EditMessage error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return updated, nil
}

func (s *messageService) ListMessages(actor *models.User, conversationID uuid.UUID) ([]models.Message, *apiError.Error) {
	conversation, err := s.store.Conversations.FindConversationByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFoundError("conversation")
		}
		log.Printf("ListMessages error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if apiErr := s.policy.CheckParticipant(actor, conversation); apiErr != nil {
		return nil, apiErr
	}

	messages, err := s.store.Messages.GetConversationMessages(conversationID)
	if err != nil {
		log.Printf("ListMessages error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return messages, nil
}

// GetMessageThread materializes the reply tree under a root message.
// Children are ordered by timestamp ascending at every level and a leaf
// yields an empty replies slice.
func (s *messageService) GetMessageThread(actor *models.User, conversationID, messageID uuid.UUID) (*models.MessageThread, *apiError.Error) {
	conversation, err := s.store.Conversations.FindConversationByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFoundError("conversation")
		}
		log.Printf("GetMessageThread error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if apiErr := s.policy.CheckParticipant(actor, conversation); apiErr != nil {
		return nil, apiErr
	}

	root, err := s.store.Messages.FindMessageInConversation(messageID, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFoundError("message")
		}
		log.Printf("GetMessageThread error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	visited := map[uuid.UUID]bool{}
	thread, err := s.buildThread(root, visited)
	if err != nil {
		log.Printf("GetMessageThread error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return thread, nil
}

// buildThread recurses over parent references. The visited set is a
// guard against corrupted data: parent links are validated to form a
// DAG at write time, but a cycle in stored rows degrades to a truncated
// tree instead of unbounded recursion.
func (s *messageService) buildThread(message *models.Message, visited map[uuid.UUID]bool) (*models.MessageThread, error) {
	visited[message.ID] = true

	thread := &models.MessageThread{
		Message: *message,
		Replies: []models.MessageThread{},
	}

	replies, err := s.store.Messages.FindReplies(message.ID)
	if err != nil {
		return nil, err
	}
	for i := range replies {
		if visited[replies[i].ID] {
			continue
		}
		child, err := s.buildThread(&replies[i], visited)
		if err != nil {
			return nil, err
		}
		thread.Replies = append(thread.Replies, *child)
	}
	return thread, nil
}

// GetEditHistory returns the history rows the actor authored as editor.
func (s *messageService) GetEditHistory(actor *models.User) ([]models.MessageHistory, *apiError.Error) {
	if actor == nil {
		return nil, apiError.ErrUnauthorized
	}
	histories, err := s.store.Messages.GetHistoriesByEditor(actor.ID)
	if err != nil {
		log.Printf("GetEditHistory error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return histories, nil
}
