package models

const REDIS_CHANNEL_MESSAGE_EVENTS = "message_events"

// PublishedMessageEvent is the payload fanned out over redis whenever a
// message is created, consumed by the socket notification handler.
type PublishedMessageEvent struct {
	Event          string `json:"event"`
	MessageID      uint   `json:"message_id"`
	SenderID       uint   `json:"sender_id"`
	ReceiverID     uint   `json:"receiver_id"`
	Content        string `json:"content"`
	NotificationID uint   `json:"notification_id"`
}
