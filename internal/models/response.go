package models

import "time"

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  []error     `json:"errors,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type MessageResponse struct {
	ID        uint      `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Edited    bool      `json:"edited"`
}

// ThreadResponse is a message with its replies nested recursively.
type ThreadResponse struct {
	ID        uint              `json:"id"`
	Sender    string            `json:"sender"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Edited    bool              `json:"edited"`
	Replies   []*ThreadResponse `json:"replies"`
}

type HistoryResponse struct {
	OldContent string    `json:"old_content"`
	Timestamp  time.Time `json:"timestamp"`
}

type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type GetUsersResponse struct {
	Users []*UserResponse `json:"users"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
	Total int64           `json:"total"`
}

type AttachmentResponse struct {
	URL string `json:"url"`
}
