package models

import (
	"gorm.io/gorm"
)

// Message is a direct message between two users. ParentID points at the
// message this one replies to, forming a tree rooted at messages with a nil
// parent. Read is toggled by the receiver, Edited by content-changing edits.
type Message struct {
	gorm.Model
	SenderID   uint   `gorm:"index;not null" json:"sender_id"`
	ReceiverID uint   `gorm:"index;not null" json:"receiver_id"`
	Content    string `gorm:"not null" json:"content"`
	Edited     bool   `gorm:"not null;default:false" json:"edited"`
	Read       bool   `gorm:"not null;default:false" json:"read"`
	ParentID   *uint  `gorm:"index" json:"parent_id,omitempty"`

	Replies []Message `gorm:"foreignKey:ParentID" json:"-"`
}

func (message *Message) ToMessageResponse(sender string) MessageResponse {
	return MessageResponse{
		ID:        message.ID,
		Sender:    sender,
		Content:   message.Content,
		Timestamp: message.CreatedAt,
		Edited:    message.Edited,
	}
}
