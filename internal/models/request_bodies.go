package models

type LoginRequestBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SendMessageRequestBody struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
	ParentID   *uint  `json:"parent_id,omitempty"`
}

type EditMessageRequestBody struct {
	Content string `json:"content"`
}
