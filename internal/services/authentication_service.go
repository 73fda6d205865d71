package services

import (
	"time"

	"threadchat/configs"
	"threadchat/internal/errs"
	"threadchat/internal/models"
	"threadchat/internal/repositories"
	"threadchat/internal/utils"
	"threadchat/internal/validators"
)

type AuthenticationService struct {
	authRepo *repositories.AuthenticationRepository
	config   *configs.Config
}

func NewAuthenticationService(
	authRepo *repositories.AuthenticationRepository,
	config *configs.Config,
) *AuthenticationService {
	return &AuthenticationService{
		authRepo: authRepo,
		config:   config,
	}
}

func (as *AuthenticationService) Register(user *models.User) (*models.User, error) {
	if as.authRepo.FindUserByUsername(user.Username) != nil {
		return nil, errs.ErrUserAlreadyExists
	}
	if validationErrs := validators.ValidateUser(user); len(validationErrs) > 0 {
		return nil, validationErrs[0]
	}

	password, err := utils.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = password
	if user.Role == "" {
		user.Role = models.RoleGuest
	}
	return as.authRepo.CreateUser(user)
}

func (as *AuthenticationService) Login(loginData *models.LoginRequestBody) (*models.LoginResponse, error) {
	user, err := as.authRepo.Login(loginData)
	if err != nil {
		return nil, err
	}

	expiration := time.Now().Add(time.Duration(as.config.Viper.GetInt("jwt.expiration_time")) * time.Second)
	token, err := utils.CreateJwtToken(
		user.ID,
		user.Username,
		user.Role,
		utils.GetJwtKey(),
		expiration,
	)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		User:  *user.ToUserResponse(),
		Token: token,
	}, nil
}

func (as *AuthenticationService) GetUserByID(userID uint) (*models.User, error) {
	return as.authRepo.FindUserByID(userID)
}

func (as *AuthenticationService) GetAllUsersWithPagination(page, size int) (*models.GetUsersResponse, error) {
	if page < 1 || size < 1 {
		return nil, errs.ErrInvalidPageOrSize
	}
	return as.authRepo.GetAllUsersWithPagination(page, size)
}
