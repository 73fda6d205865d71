package services

import (
	"time"

	"threadchat/internal/cache"
	"threadchat/internal/models"
	"threadchat/internal/repositories"
	"threadchat/internal/validators"
)

type MessagingService struct {
	messagingRepo       *repositories.MessagingRepository
	notificationService *NotificationService
	viewCache           *cache.ViewCache
}

func NewMessagingService(
	messagingRepo *repositories.MessagingRepository,
	notificationService *NotificationService,
	viewCache *cache.ViewCache,
) *MessagingService {
	return &MessagingService{
		messagingRepo:       messagingRepo,
		notificationService: notificationService,
		viewCache:           viewCache,
	}
}

// SendMessage stores a new message and dispatches its creation event. The
// parent, when given, must exist.
func (ms *MessagingService) SendMessage(senderID uint, body *models.SendMessageRequestBody) (*models.Message, error) {
	if validationErrs := validators.ValidateSendMessage(body); len(validationErrs) > 0 {
		return nil, validationErrs[0]
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: body.ReceiverID,
		Content:    body.Content,
		ParentID:   body.ParentID,
	}

	message, err := ms.messagingRepo.CreateMessage(message)
	if err != nil {
		return nil, err
	}

	if err := ms.notificationService.MessageCreated(message); err != nil {
		return nil, err
	}

	return message, nil
}

func (ms *MessagingService) EditMessage(messageID uint, body *models.EditMessageRequestBody, actorID uint) (*models.Message, error) {
	if validationErrs := validators.ValidateEditMessage(body); len(validationErrs) > 0 {
		return nil, validationErrs[0]
	}
	return ms.messagingRepo.UpdateMessageContent(messageID, body.Content, actorID)
}

// GetThread returns a message with all descendant replies nested
// recursively. The rows come back from a single bulk fetch already in
// creation order; assembly walks an adjacency map and refuses to visit a
// message twice, so even cyclic data cannot loop it.
func (ms *MessagingService) GetThread(messageID uint) (*models.ThreadResponse, error) {
	thread, err := ms.messagingRepo.GetThreadMessages(messageID)
	if err != nil {
		return nil, err
	}

	usernames, err := ms.usernamesFor(thread)
	if err != nil {
		return nil, err
	}

	children := make(map[uint][]*models.Message)
	byID := make(map[uint]*models.Message, len(thread))
	for i := range thread {
		message := &thread[i]
		byID[message.ID] = message
		if message.ID != messageID && message.ParentID != nil {
			children[*message.ParentID] = append(children[*message.ParentID], message)
		}
	}

	visited := make(map[uint]bool)
	return ms.assembleThread(byID[messageID], children, usernames, visited), nil
}

func (ms *MessagingService) assembleThread(
	message *models.Message,
	children map[uint][]*models.Message,
	usernames map[uint]string,
	visited map[uint]bool,
) *models.ThreadResponse {
	visited[message.ID] = true

	node := &models.ThreadResponse{
		ID:        message.ID,
		Sender:    usernames[message.SenderID],
		Content:   message.Content,
		Timestamp: message.CreatedAt,
		Edited:    message.Edited,
		Replies:   []*models.ThreadResponse{},
	}
	for _, reply := range children[message.ID] {
		if visited[reply.ID] {
			continue
		}
		node.Replies = append(node.Replies, ms.assembleThread(reply, children, usernames, visited))
	}
	return node
}

// GetMessageHistory returns prior contents of a message, newest first.
func (ms *MessagingService) GetMessageHistory(messageID uint) ([]models.HistoryResponse, error) {
	history, err := ms.messagingRepo.GetMessageHistory(messageID)
	if err != nil {
		return nil, err
	}

	responses := make([]models.HistoryResponse, 0, len(history))
	for _, entry := range history {
		responses = append(responses, entry.ToHistoryResponse())
	}
	return responses, nil
}

// GetConversation serves the message list between two users through the view
// cache. The returned TTL is the entry's remaining validity; cached reports
// whether the view was served from cache.
func (ms *MessagingService) GetConversation(userID, otherUserID uint) (view []models.MessageResponse, cached bool, ttl time.Duration, err error) {
	key := cache.ConversationKey(userID, otherUserID)
	if view, remaining, ok := ms.viewCache.Get(key); ok {
		return view, true, remaining, nil
	}

	messages, err := ms.messagingRepo.GetConversation(userID, otherUserID)
	if err != nil {
		return nil, false, 0, err
	}

	view, err = ms.toMessageResponses(messages)
	if err != nil {
		return nil, false, 0, err
	}

	ms.viewCache.Put(key, view)
	return view, false, ms.viewCache.TTL(), nil
}

func (ms *MessagingService) GetUnreadMessages(userID uint) ([]models.MessageResponse, error) {
	messages, err := ms.messagingRepo.GetUnreadMessages(userID)
	if err != nil {
		return nil, err
	}
	return ms.toMessageResponses(messages)
}

func (ms *MessagingService) MarkMessageRead(messageID, actorID uint) error {
	return ms.messagingRepo.MarkMessageRead(messageID, actorID)
}

// DeleteAccount cascades: the user, their sent and received messages with
// entire reply subtrees, and all dependent history and notification rows go
// together.
func (ms *MessagingService) DeleteAccount(userID uint) error {
	return ms.messagingRepo.DeleteUserData(userID)
}

func (ms *MessagingService) toMessageResponses(messages []models.Message) ([]models.MessageResponse, error) {
	usernames, err := ms.usernamesFor(messages)
	if err != nil {
		return nil, err
	}

	responses := make([]models.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, message.ToMessageResponse(usernames[message.SenderID]))
	}
	return responses, nil
}

func (ms *MessagingService) usernamesFor(messages []models.Message) (map[uint]string, error) {
	seen := make(map[uint]bool)
	ids := make([]uint, 0, len(messages))
	for _, message := range messages {
		if !seen[message.SenderID] {
			seen[message.SenderID] = true
			ids = append(ids, message.SenderID)
		}
	}
	return ms.messagingRepo.GetUsernamesByID(ids)
}
