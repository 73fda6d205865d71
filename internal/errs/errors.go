package errs

import (
	"errors"
	"net/http"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody = Error("invalid request body")
	ErrInvalidParams      = Error("invalid params")
	ErrInvalidPageOrSize  = Error("invalid page or size")
	ErrUnauthorized       = Error("unauthorized")
	ErrUserAlreadyExists  = Error("user already exists")
	ErrUserNotFound       = Error("user not found")
	ErrWrongPassword      = Error("wrong password")
	ErrInvalidUsername    = Error("username is empty or too short")
	ErrInvalidPassword    = Error("invalid password")
	ErrEmptyContent       = Error("message content is empty")
	ErrInvalidReceiver    = Error("invalid receiver")

	ErrMessageNotFound          = Error("message not found")
	ErrParentMessageNotFound    = Error("parent message not found")
	ErrNotificationNotFound     = Error("notification not found")
	ErrNotMessageSender         = Error("only the sender can edit this message")
	ErrNotMessageReceiver       = Error("only the receiver can mark this message read")
	ErrNotNotificationRecipient = Error("only the recipient can mark this notification read")
	ErrInsufficientPermission   = Error("insufficient permission")
	ErrBusinessHoursOnly        = Error("Access restricted to business hours")
	ErrTooManyMessages          = Error("Too many messages sent")
	ErrStoreUnavailable         = Error("store temporarily unavailable")
)

// HttpStatus maps the error taxonomy onto response codes: absent entities
// are 404, rights violations and policy rejections 403, bad input 400.
func HttpStatus(err error) int {
	switch {
	case errors.Is(err, ErrMessageNotFound),
		errors.Is(err, ErrParentMessageNotFound),
		errors.Is(err, ErrNotificationNotFound),
		errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotMessageSender),
		errors.Is(err, ErrNotMessageReceiver),
		errors.Is(err, ErrNotNotificationRecipient),
		errors.Is(err, ErrInsufficientPermission),
		errors.Is(err, ErrBusinessHoursOnly),
		errors.Is(err, ErrTooManyMessages):
		return http.StatusForbidden
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
