package validators

import (
	"threadchat/internal/errs"
	"threadchat/internal/models"
)

func ValidateUser(user *models.User) []error {
	var errors []error
	if user == nil {
		errors = append(errors, errs.ErrInvalidRequestBody)
		return errors
	}

	if len(user.Username) < 3 {
		errors = append(errors, errs.ErrInvalidUsername)
	}

	if len(user.Password) < 8 {
		errors = append(errors, errs.ErrInvalidPassword)
	}

	if user.Role != "" && user.Role != models.RoleGuest && user.Role != models.RoleStaff && user.Role != models.RoleAdmin {
		errors = append(errors, errs.ErrInvalidParams)
	}

	return errors
}
