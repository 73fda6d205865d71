package models

import (
	"gorm.io/gorm"
)

// Notification is a weak (user, message) pair created once per new message
// for its receiver. Deleting either side removes it.
type Notification struct {
	gorm.Model
	UserID    uint `gorm:"index;not null" json:"user_id"`
	MessageID uint `gorm:"index;not null" json:"message_id"`
	IsRead    bool `gorm:"not null;default:false" json:"is_read"`
}
