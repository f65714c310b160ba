package db

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/messaging/models"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uuid.UUID) (*models.User, error)
	UpdateUser(user *models.User) error
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
	SetResetToken(email string, token string) error
	FindUserByResetToken(token string) (*models.User, error)
	UpdatePassword(hashedPassword string, email string) error
	FindRoleByName(name string) (*models.Role, error)
	DeleteUser(user *models.User) error
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}

	if user.RoleID == uuid.Nil {
		defaultRole, err := a.FindRoleByName(models.RoleGuest)
		if err != nil {
			log.Printf("CreateUser error fetching default role: %v", err)
			return nil, err
		}
		user.RoleID = defaultRole.ID
	}

	if err := a.DB.Create(user).Error; err != nil {
		log.Printf("CreateUser error: %v", err)
		return nil, err
	}

	return user, nil
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("email already in use")
	}
	return nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := a.DB.Preload("Role").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := a.DB.Preload("Role").Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("error finding user by id: %w", err)
	}
	return &user, nil
}

func (a *authRepo) UpdateUser(user *models.User) error {
	return a.DB.Save(user).Error
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	return a.DB.Create(blacklist).Error
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	a.DB.Model(&models.Blacklist{}).Where("token = ?", token).Count(&count)
	return count > 0
}

func (a *authRepo) SetResetToken(email string, token string) error {
	return a.DB.Model(&models.User{}).Where("email = ?", email).
		Update("reset_token", token).Error
}

func (a *authRepo) FindUserByResetToken(token string) (*models.User, error) {
	var user models.User
	err := a.DB.Where("reset_token = ?", token).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("error finding user by reset token: %w", err)
	}
	return &user, nil
}

func (a *authRepo) UpdatePassword(hashedPassword string, email string) error {
	return a.DB.Model(&models.User{}).Where("email = ?", email).
		Updates(map[string]interface{}{"hashed_password": hashedPassword, "reset_token": ""}).Error
}

func (a *authRepo) FindRoleByName(name string) (*models.Role, error) {
	var role models.Role
	err := a.DB.Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, fmt.Errorf("could not find role %q: %v", name, err)
	}
	return &role, nil
}

func (a *authRepo) DeleteUser(user *models.User) error {
	if err := a.DB.Delete(user).Error; err != nil {
		return errors.Wrap(err, "gorm delete error")
	}
	return nil
}
