package repositories

import (
	"errors"
	"sync"

	"threadchat/internal/errs"
	"threadchat/internal/models"

	"gorm.io/gorm"
)

type MessagingRepository struct {
	db *gorm.DB

	// Per-message edit locks. Concurrent edits to the same message must be
	// serialized so each content change records exactly one history row.
	mu        sync.Mutex
	editLocks map[uint]*sync.Mutex
}

func NewMessagingRepository(db *gorm.DB) *MessagingRepository {
	return &MessagingRepository{
		db:        db,
		editLocks: make(map[uint]*sync.Mutex),
	}
}

func (mr *MessagingRepository) editLock(messageID uint) *sync.Mutex {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	lock, ok := mr.editLocks[messageID]
	if !ok {
		lock = &sync.Mutex{}
		mr.editLocks[messageID] = lock
	}
	return lock
}

// CreateMessage persists a new message. When a parent is given it must
// resolve to an existing message.
func (mr *MessagingRepository) CreateMessage(message *models.Message) (*models.Message, error) {
	transactionErr := mr.db.Transaction(func(tx *gorm.DB) error {
		if message.ParentID != nil {
			var count int64
			if err := tx.Model(&models.Message{}).Where("id = ?", *message.ParentID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return errs.ErrParentMessageNotFound
			}
		}
		return tx.Create(message).Error
	})
	if transactionErr != nil {
		return nil, transactionErr
	}
	return message, nil
}

func (mr *MessagingRepository) GetMessageByID(messageID uint) (*models.Message, error) {
	var message models.Message
	if err := mr.db.First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

// UpdateMessageContent applies an edit. Only the original sender may edit.
// When the content actually changes, the previous content is recorded as a
// history row and the edited flag is set, atomically; a save with identical
// content is a no-op and records nothing.
func (mr *MessagingRepository) UpdateMessageContent(messageID uint, newContent string, actorID uint) (*models.Message, error) {
	lock := mr.editLock(messageID)
	lock.Lock()
	defer lock.Unlock()

	var message models.Message
	transactionErr := mr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&message, messageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrMessageNotFound
			}
			return err
		}
		if message.SenderID != actorID {
			return errs.ErrNotMessageSender
		}
		if message.Content == newContent {
			return nil
		}

		history := models.MessageHistory{
			MessageID:  message.ID,
			OldContent: message.Content,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		message.Content = newContent
		message.Edited = true
		return tx.Model(&message).Updates(map[string]interface{}{
			"content": newContent,
			"edited":  true,
		}).Error
	})
	if transactionErr != nil {
		return nil, transactionErr
	}
	return &message, nil
}

// GetThreadMessages bulk-fetches a message and every transitive reply in one
// recursive query, ordered by creation time so siblings keep reply order.
// UNION (not UNION ALL) makes the traversal terminate even on corrupt,
// cyclic data.
func (mr *MessagingRepository) GetThreadMessages(rootID uint) ([]models.Message, error) {
	var root models.Message
	if err := mr.db.First(&root, rootID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMessageNotFound
		}
		return nil, err
	}

	var thread []models.Message
	err := mr.db.Raw(`
		WITH RECURSIVE thread AS (
			SELECT * FROM messages WHERE id = ? AND deleted_at IS NULL
			UNION
			SELECT m.* FROM messages m
			INNER JOIN thread t ON m.parent_id = t.id
			WHERE m.deleted_at IS NULL
		)
		SELECT * FROM thread ORDER BY created_at ASC, id ASC`, rootID).
		Scan(&thread).Error
	if err != nil {
		return nil, err
	}
	return thread, nil
}

// GetMessageHistory returns the edit trail of a message, newest first.
func (mr *MessagingRepository) GetMessageHistory(messageID uint) ([]models.MessageHistory, error) {
	if _, err := mr.GetMessageByID(messageID); err != nil {
		return nil, err
	}

	var history []models.MessageHistory
	err := mr.db.
		Where("message_id = ?", messageID).
		Order("created_at DESC, id DESC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// GetConversation returns every message exchanged between the two users, in
// either direction, oldest first with id as the tie-break.
func (mr *MessagingRepository) GetConversation(userID1, userID2 uint) ([]models.Message, error) {
	var messages []models.Message
	err := mr.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID1, userID2, userID2, userID1).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (mr *MessagingRepository) GetUnreadMessages(userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := mr.db.
		Where("receiver_id = ? AND read = ?", userID, false).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessageRead sets the read flag. Only the receiver may do so; repeated
// calls are idempotent.
func (mr *MessagingRepository) MarkMessageRead(messageID, actorID uint) error {
	message, err := mr.GetMessageByID(messageID)
	if err != nil {
		return err
	}
	if message.ReceiverID != actorID {
		return errs.ErrNotMessageReceiver
	}
	if message.Read {
		return nil
	}
	return mr.db.Model(message).Update("read", true).Error
}

// GetUsernamesByID resolves sender names for response rendering in one query.
func (mr *MessagingRepository) GetUsernamesByID(ids []uint) (map[uint]string, error) {
	usernames := make(map[uint]string)
	if len(ids) == 0 {
		return usernames, nil
	}

	var users []models.User
	if err := mr.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, user := range users {
		usernames[user.ID] = user.Username
	}
	return usernames, nil
}

// DeleteUserData removes a user and everything hanging off them: all messages
// they sent or received, each such message's entire reply subtree, the
// history and notification rows of those messages, and every notification
// addressed to the user. One transaction, so the store never holds a partial
// cascade.
func (mr *MessagingRepository) DeleteUserData(userID uint) error {
	return mr.db.Transaction(func(tx *gorm.DB) error {
		var doomedIDs []uint
		err := tx.Raw(`
			WITH RECURSIVE doomed AS (
				SELECT id FROM messages
				WHERE (sender_id = ? OR receiver_id = ?) AND deleted_at IS NULL
				UNION
				SELECT m.id FROM messages m
				INNER JOIN doomed d ON m.parent_id = d.id
				WHERE m.deleted_at IS NULL
			)
			SELECT id FROM doomed`, userID, userID).
			Scan(&doomedIDs).Error
		if err != nil {
			return err
		}

		if len(doomedIDs) > 0 {
			if err := tx.Where("message_id IN ?", doomedIDs).Delete(&models.MessageHistory{}).Error; err != nil {
				return err
			}
			if err := tx.Where("message_id IN ?", doomedIDs).Delete(&models.Notification{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", doomedIDs).Delete(&models.Message{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, userID).Error
	})
}
