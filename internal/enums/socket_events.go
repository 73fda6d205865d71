package enums

const (
	SOCKET_EVENT_NEW_MESSAGE = "new_message"
	SOCKET_EVENT_PING        = "ping"
)

const FILE_BUCKET_ATTACHMENTS = "message-attachments"
