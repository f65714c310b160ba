package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/messaging/models"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	CreateConversation(conversation *models.Conversation) error
	FindConversationByID(id uuid.UUID) (*models.Conversation, error)
	GetUserConversations(userID uuid.UUID) ([]models.Conversation, error)
	RemoveParticipant(conversation *models.Conversation, userID uuid.UUID) error
	CountParticipants(conversationID uuid.UUID) (int64, error)
	DeleteConversation(conversation *models.Conversation) error
}

type conversationRepo struct {
	DB *gorm.DB
}

func NewConversationRepo(db *GormDB) ConversationRepository {
	return &conversationRepo{db.DB}
}

func (r *conversationRepo) CreateConversation(conversation *models.Conversation) error {
	if err := r.DB.Create(conversation).Error; err != nil {
		return errors.Wrap(err, "gorm create error")
	}
	return nil
}

func (r *conversationRepo) FindConversationByID(id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.DB.Preload("Participants.Role").Where("id = ?", id).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("error finding conversation: %w", err)
	}
	return &conversation, nil
}

func (r *conversationRepo) GetUserConversations(userID uuid.UUID) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.DB.Preload("Participants").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Order("conversations.created_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm find error")
	}
	return conversations, nil
}

func (r *conversationRepo) RemoveParticipant(conversation *models.Conversation, userID uuid.UUID) error {
	err := r.DB.Model(conversation).
		Association("Participants").
		Delete(&models.User{Model: models.Model{ID: userID}})
	if err != nil {
		return errors.Wrap(err, "gorm association delete error")
	}
	return nil
}

func (r *conversationRepo) CountParticipants(conversationID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB.Table("conversation_participants").
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "gorm count error")
	}
	return count, nil
}

func (r *conversationRepo) DeleteConversation(conversation *models.Conversation) error {
	if err := r.DB.Select("Participants").Delete(conversation).Error; err != nil {
		return errors.Wrap(err, "gorm delete error")
	}
	return nil
}
