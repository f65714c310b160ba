package db

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/messaging/models"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetUserNotifications(userID uuid.UUID) ([]models.Notification, error)
	MarkNotificationRead(notificationID, userID uuid.UUID) error
	DeleteNotificationsByUser(userID uuid.UUID) error
}

type notificationRepo struct {
	DB *gorm.DB
}

func NewNotificationRepo(db *GormDB) NotificationRepository {
	return &notificationRepo{db.DB}
}

func (r *notificationRepo) CreateNotification(notification *models.Notification) error {
	if err := r.DB.Create(notification).Error; err != nil {
		return errors.Wrap(err, "gorm create error")
	}
	return nil
}

func (r *notificationRepo) GetUserNotifications(userID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.DB.Preload("Message.Sender").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm find error")
	}
	return notifications, nil
}

func (r *notificationRepo) MarkNotificationRead(notificationID, userID uuid.UUID) error {
	result := r.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return errors.Wrap(result.Error, "gorm update error")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepo) DeleteNotificationsByUser(userID uuid.UUID) error {
	err := r.DB.Where("user_id = ?", userID).Delete(&models.Notification{}).Error
	if err != nil {
		return errors.Wrap(err, "gorm delete error")
	}
	return nil
}
