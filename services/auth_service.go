package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/techagentng/messaging/config"
	"github.com/techagentng/messaging/db"
	apiError "github.com/techagentng/messaging/errors"
	"github.com/techagentng/messaging/mailingservices"
	"github.com/techagentng/messaging/models"
	"github.com/techagentng/messaging/services/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService interface
type AuthService interface {
	SignupUser(request *models.User) (*models.User, *apiError.Error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	LogoutUser(email, accessToken string) *apiError.Error
	SendEmailForPasswordReset(request *models.ForgotPassword) *apiError.Error
	ResetPassword(request *models.ResetPassword, token string) *apiError.Error
	DeleteUserAccount(user *models.User, password string) *apiError.Error
}

type authService struct {
	Config    *config.Config
	authRepo  db.AuthRepository
	txManager db.TxManager
	triggers  *TriggerEngine
	mail      *mailingservices.Mailgun
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, txManager db.TxManager, triggers *TriggerEngine, mail *mailingservices.Mailgun, conf *config.Config) AuthService {
	return &authService{
		Config:    conf,
		authRepo:  authRepo,
		txManager: txManager,
		triggers:  triggers,
		mail:      mail,
	}
}

func (s *authService) SignupUser(user *models.User) (*models.User, *apiError.Error) {
	if user == nil {
		return nil, apiError.ErrBadRequest
	}
	if user.Email == "" {
		return nil, apiError.ValidationError("email is empty")
	}
	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.ValidationError(err.Error())
	}

	if err := s.authRepo.IsEmailExist(user.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = string(hashedPassword)
	user.Password = ""

	user, err = s.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	createdUser, err := s.authRepo.FindUserByEmail(user.Email)
	if err != nil {
		log.Printf("SignupUser error fetching created user: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return createdUser, nil
}

func (s *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	user, err := s.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("invalid email or password", 401)
		}
		log.Printf("LoginUser error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if err := user.VerifyPassword(loginRequest.Password); err != nil {
		return nil, apiError.New("invalid email or password", 401)
	}

	accessToken, err := jwt.GenerateToken(user.ID, user.Role.Name, s.Config.JWTSecret)
	if err != nil {
		log.Printf("LoginUser error generating token: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: user.Response(),
		AccessToken:  accessToken,
	}, nil
}

func (s *authService) LogoutUser(email, accessToken string) *apiError.Error {
	blacklist := &models.Blacklist{
		Email: email,
		Token: accessToken,
	}
	if err := s.authRepo.AddToBlackList(blacklist); err != nil {
		log.Printf("LogoutUser error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *authService) SendEmailForPasswordReset(request *models.ForgotPassword) *apiError.Error {
	user, err := s.authRepo.FindUserByEmail(request.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the address exists.
			return nil
		}
		log.Printf("SendEmailForPasswordReset error: %v", err)
		return apiError.ErrInternalServerError
	}

	resetToken, err := jwt.GenerateResetToken(user.Email, s.Config.JWTSecret)
	if err != nil {
		log.Printf("SendEmailForPasswordReset error generating token: %v", err)
		return apiError.ErrInternalServerError
	}
	if err := s.authRepo.SetResetToken(user.Email, resetToken); err != nil {
		log.Printf("SendEmailForPasswordReset error: %v", err)
		return apiError.ErrInternalServerError
	}

	resetLink := fmt.Sprintf("%s/password/reset/%s", s.Config.BaseUrl, resetToken)
	if s.mail != nil {
		if err := s.mail.SendResetPassword(user.Email, resetLink); err != nil {
			log.Printf("SendEmailForPasswordReset mail error: %v", err)
			return apiError.ErrInternalServerError
		}
	}
	return nil
}

func (s *authService) ResetPassword(request *models.ResetPassword, token string) *apiError.Error {
	if request.Password != request.ConfirmPassword {
		return apiError.ValidationError("passwords do not match")
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return apiError.ValidationError(err.Error())
	}

	if _, err := jwt.ValidateAndGetClaims(token, s.Config.JWTSecret); err != nil {
		return apiError.New("invalid or expired reset token", 401)
	}
	user, err := s.authRepo.FindUserByResetToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("invalid or expired reset token", 401)
		}
		log.Printf("ResetPassword error: %v", err)
		return apiError.ErrInternalServerError
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ResetPassword error hashing password: %v", err)
		return apiError.ErrInternalServerError
	}
	if err := s.authRepo.UpdatePassword(string(hashedPassword), user.Email); err != nil {
		log.Printf("ResetPassword error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

// DeleteUserAccount deletes the user row after password confirmation,
// then runs the cleanup cascade. The cascade is best-effort: it runs in
// its own transaction after the delete has committed, and a failure is
// logged rather than surfaced, since the account is already gone.
func (s *authService) DeleteUserAccount(user *models.User, password string) *apiError.Error {
	if user == nil {
		return apiError.ErrUnauthorized
	}
	if password != "" {
		if err := user.VerifyPassword(password); err != nil {
			return apiError.ForbiddenError("incorrect password")
		}
	}

	if err := s.authRepo.DeleteUser(user); err != nil {
		log.Printf("DeleteUserAccount error: %v", err)
		return apiError.ErrInternalServerError
	}

	if err := s.txManager.Run(func(store db.Store) error {
		s.triggers.UserDeleted(store, user)
		return nil
	}); err != nil {
		log.Printf("error running cleanup cascade for user %s: %v", user.ID, err)
	}
	return nil
}
