package models

import (
	"gorm.io/gorm"
)

// MessageHistory holds the content a message had before an edit. One row is
// written per content-changing edit, never for a no-op save.
type MessageHistory struct {
	gorm.Model
	MessageID  uint   `gorm:"index;not null" json:"message_id"`
	OldContent string `gorm:"not null" json:"old_content"`
}

func (history *MessageHistory) ToHistoryResponse() HistoryResponse {
	return HistoryResponse{
		OldContent: history.OldContent,
		Timestamp:  history.CreatedAt,
	}
}
