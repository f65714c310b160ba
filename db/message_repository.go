package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/messaging/models"
	"gorm.io/gorm"
)

type MessageRepository interface {
	CreateMessage(message *models.Message) error
	FindMessageByID(id uuid.UUID) (*models.Message, error)
	FindMessageInConversation(messageID, conversationID uuid.UUID) (*models.Message, error)
	GetConversationMessages(conversationID uuid.UUID) ([]models.Message, error)
	FindReplies(parentID uuid.UUID) ([]models.Message, error)
	UpdateMessage(message *models.Message) error
	CreateMessageHistory(history *models.MessageHistory) error
	GetHistoriesByEditor(userID uuid.UUID) ([]models.MessageHistory, error)
	DeleteMessagesByUser(userID uuid.UUID) error
	DeleteHistoriesByEditor(userID uuid.UUID) error
}

type messageRepo struct {
	DB *gorm.DB
}

func NewMessageRepo(db *GormDB) MessageRepository {
	return &messageRepo{db.DB}
}

func (r *messageRepo) CreateMessage(message *models.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if err := r.DB.Create(message).Error; err != nil {
		return errors.Wrap(err, "gorm create error")
	}
	return nil
}

func (r *messageRepo) FindMessageByID(id uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := r.DB.Preload("Sender.Role").
		Preload("Conversation.Participants").
		Where("id = ?", id).
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("error finding message: %w", err)
	}
	return &message, nil
}

func (r *messageRepo) FindMessageInConversation(messageID, conversationID uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := r.DB.Preload("Sender").
		Where("id = ? AND conversation_id = ?", messageID, conversationID).
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("error finding message in conversation: %w", err)
	}
	return &message, nil
}

func (r *messageRepo) GetConversationMessages(conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.DB.Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm find error")
	}
	return messages, nil
}

func (r *messageRepo) FindReplies(parentID uuid.UUID) ([]models.Message, error) {
	var replies []models.Message
	err := r.DB.Preload("Sender").
		Where("parent_message_id = ?", parentID).
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm find error")
	}
	return replies, nil
}

func (r *messageRepo) UpdateMessage(message *models.Message) error {
	if err := r.DB.Save(message).Error; err != nil {
		return errors.Wrap(err, "gorm save error")
	}
	return nil
}

func (r *messageRepo) CreateMessageHistory(history *models.MessageHistory) error {
	if err := r.DB.Create(history).Error; err != nil {
		return errors.Wrap(err, "gorm create error")
	}
	return nil
}

func (r *messageRepo) GetHistoriesByEditor(userID uuid.UUID) ([]models.MessageHistory, error) {
	var histories []models.MessageHistory
	err := r.DB.Preload("EditedBy").
		Where("edited_by_id = ?", userID).
		Order("edited_at DESC").
		Find(&histories).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm find error")
	}
	return histories, nil
}

func (r *messageRepo) DeleteMessagesByUser(userID uuid.UUID) error {
	err := r.DB.Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Delete(&models.Message{}).Error
	if err != nil {
		return errors.Wrap(err, "gorm delete error")
	}
	return nil
}

func (r *messageRepo) DeleteHistoriesByEditor(userID uuid.UUID) error {
	err := r.DB.Where("edited_by_id = ?", userID).
		Delete(&models.MessageHistory{}).Error
	if err != nil {
		return errors.Wrap(err, "gorm delete error")
	}
	return nil
}
