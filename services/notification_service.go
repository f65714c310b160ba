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

// NotificationService exposes notifications as a read-only projection;
// creation happens exclusively in the message creation trigger.
type NotificationService interface {
	GetUserNotifications(actor *models.User) ([]models.Notification, *apiError.Error)
	MarkNotificationRead(actor *models.User, notificationID uuid.UUID) *apiError.Error
}

type notificationService struct {
	store db.Store
}

func NewNotificationService(store db.Store) NotificationService {
	return &notificationService{store: store}
}

func (s *notificationService) GetUserNotifications(actor *models.User) ([]models.Notification, *apiError.Error) {
	if actor == nil {
		return nil, apiError.ErrUnauthorized
	}
	notifications, err := s.store.Notifications.GetUserNotifications(actor.ID)
	if err != nil {
		log.Printf("GetUserNotifications error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return notifications, nil
}

func (s *notificationService) MarkNotificationRead(actor *models.User, notificationID uuid.UUID) *apiError.Error {
	if actor == nil {
		return apiError.ErrUnauthorized
	}
	err := s.store.Notifications.MarkNotificationRead(notificationID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.NotFoundError("notification")
		}
		log.Printf("MarkNotificationRead error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}
