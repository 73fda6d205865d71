package repositories

import (
	"errors"

	"threadchat/internal/errs"
	"threadchat/internal/models"
	"threadchat/internal/utils"

	"gorm.io/gorm"
)

type AuthenticationRepository struct {
	db *gorm.DB
}

func NewAuthenticationRepository(db *gorm.DB) *AuthenticationRepository {
	return &AuthenticationRepository{
		db: db,
	}
}

func (ar *AuthenticationRepository) CreateUser(user *models.User) (*models.User, error) {
	result := ar.db.Create(user)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.ErrUserNotFound
	}
	return user, nil
}

func (ar *AuthenticationRepository) FindUserByUsername(username string) *models.User {
	var user models.User
	result := ar.db.Where("username = ?", username).First(&user)
	if result.Error == nil && result.RowsAffected > 0 {
		return &user
	}
	return nil
}

func (ar *AuthenticationRepository) FindUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := ar.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (ar *AuthenticationRepository) Login(login *models.LoginRequestBody) (*models.User, error) {
	user := ar.FindUserByUsername(login.Username)
	if user == nil {
		// Same error as a bad password, so login does not reveal which
		// usernames exist.
		return nil, errs.ErrWrongPassword
	}
	if err := utils.CompareHashAndPassword(user.PasswordHash, login.Password); err != nil {
		return nil, errs.ErrWrongPassword
	}
	return user, nil
}

func (ar *AuthenticationRepository) GetAllUsersWithPagination(page, size int) (*models.GetUsersResponse, error) {
	var users []models.User
	var total int64

	transactionErr := ar.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Scopes(utils.Paginate(page, size)).
			Order("id ASC").
			Find(&users).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Count(&total).Error
	})
	if transactionErr != nil {
		return nil, transactionErr
	}

	userResponses := make([]*models.UserResponse, 0, len(users))
	for _, user := range users {
		userResponses = append(userResponses, user.ToUserResponse())
	}

	return &models.GetUsersResponse{
		Users: userResponses,
		Page:  page,
		Size:  size,
		Total: total,
	}, nil
}
