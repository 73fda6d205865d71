package services

import (
	"context"
	"encoding/json"
	"log"

	"threadchat/internal/enums"
	"threadchat/internal/models"
	redisModels "threadchat/internal/models/redis"
	"threadchat/internal/repositories"

	"github.com/redis/go-redis/v9"
)

// NotificationService reacts to message creation: every successful send gets
// exactly one notification row for the receiver, and the event is published
// on the redis channel so connected sockets hear about it live.
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository
	redis            *redis.Client
	ctx              context.Context
}

func NewNotificationService(
	notificationRepo *repositories.NotificationRepository,
	redis *redis.Client,
	ctx context.Context,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		redis:            redis,
		ctx:              ctx,
	}
}

func (ns *NotificationService) MessageCreated(message *models.Message) error {
	notification, err := ns.notificationRepo.CreateNotification(&models.Notification{
		UserID:    message.ReceiverID,
		MessageID: message.ID,
	})
	if err != nil {
		return err
	}

	ns.publishMessageEvent(message, notification)
	return nil
}

// publishMessageEvent is best effort: live fan-out failing must not fail the
// send, the notification row is already stored.
func (ns *NotificationService) publishMessageEvent(message *models.Message, notification *models.Notification) {
	if ns.redis == nil {
		return
	}

	event := redisModels.PublishedMessageEvent{
		Event:          enums.SOCKET_EVENT_NEW_MESSAGE,
		MessageID:      message.ID,
		SenderID:       message.SenderID,
		ReceiverID:     message.ReceiverID,
		Content:        message.Content,
		NotificationID: notification.ID,
	}

	jsonEvent, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling message event: %v", err)
		return
	}

	if err := ns.redis.Publish(ns.ctx, redisModels.REDIS_CHANNEL_MESSAGE_EVENTS, jsonEvent).Err(); err != nil {
		log.Printf("Error publishing message event: %v", err)
	}
}

func (ns *NotificationService) MarkAsRead(notificationID, actorID uint) error {
	return ns.notificationRepo.MarkNotificationRead(notificationID, actorID)
}

func (ns *NotificationService) GetNotificationsForUser(userID uint) ([]models.Notification, error) {
	return ns.notificationRepo.GetNotificationsForUser(userID)
}
