package validators

import (
	"strings"

	"threadchat/internal/errs"
	"threadchat/internal/models"
)

func ValidateSendMessage(body *models.SendMessageRequestBody) []error {
	var errors []error
	if body == nil {
		errors = append(errors, errs.ErrInvalidRequestBody)
		return errors
	}

	if strings.TrimSpace(body.Content) == "" {
		errors = append(errors, errs.ErrEmptyContent)
	}

	if body.ReceiverID == 0 {
		errors = append(errors, errs.ErrInvalidReceiver)
	}

	return errors
}

func ValidateEditMessage(body *models.EditMessageRequestBody) []error {
	var errors []error
	if body == nil || strings.TrimSpace(body.Content) == "" {
		errors = append(errors, errs.ErrEmptyContent)
	}
	return errors
}
