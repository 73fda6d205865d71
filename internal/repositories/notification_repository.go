package repositories

import (
	"errors"

	"threadchat/internal/errs"
	"threadchat/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

func (nr *NotificationRepository) CreateNotification(notification *models.Notification) (*models.Notification, error) {
	if err := nr.db.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

func (nr *NotificationRepository) GetNotificationByID(notificationID uint) (*models.Notification, error) {
	var notification models.Notification
	if err := nr.db.First(&notification, notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// MarkNotificationRead flags a notification as read. Only the recipient may
// do so; marking twice is harmless.
func (nr *NotificationRepository) MarkNotificationRead(notificationID, actorID uint) error {
	notification, err := nr.GetNotificationByID(notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != actorID {
		return errs.ErrNotNotificationRecipient
	}
	if notification.IsRead {
		return nil
	}
	return nr.db.Model(notification).Update("is_read", true).Error
}

func (nr *NotificationRepository) GetNotificationsForUser(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := nr.db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}
