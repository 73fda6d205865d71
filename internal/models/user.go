package models

import (
	"gorm.io/gorm"
)

const (
	RoleGuest = "guest"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// User represents an account in the application. Authentication data lives
// here; everything else references users by id only.
type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	Role         string `gorm:"not null;default:guest" json:"role"`
	PasswordHash string `gorm:"not null" json:"-"`
	Password     string `gorm:"-" json:"password"`
}

func (user *User) HasElevatedRole() bool {
	return user.Role == RoleStaff || user.Role == RoleAdmin
}

func (user *User) ToUserResponse() *UserResponse {
	return &UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}
