package service

import (
	"errors"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

type AdminService interface {
	Login(username, password string) (*model.Admin, error)
	ListAdmins() ([]model.Admin, error)
	CreateAdmin(username, password string) (*model.Admin, error)
	ChangePassword(id uint, newPassword string) (*model.Admin, error)
}

type adminService struct {
	adminRepo repository.AdminRepository
}

func NewAdminService(aRepo repository.AdminRepository) AdminService {
	return &adminService{adminRepo: aRepo}
}

// Login verifies the credentials. A failed lookup and a wrong password are
// indistinguishable to the caller.
func (s *adminService) Login(username, password string) (*model.Admin, error) {
	admin, err := s.adminRepo.FindByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !admin.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

func (s *adminService) ListAdmins() ([]model.Admin, error) {
	return s.adminRepo.FindAll()
}

func (s *adminService) CreateAdmin(username, password string) (*model.Admin, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.adminRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	}

	admin := &model.Admin{Username: username}
	if err := admin.SetPassword(password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.adminRepo.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *adminService) ChangePassword(id uint, newPassword string) (*model.Admin, error) {
	if len(newPassword) < 6 {
		return nil, ErrPasswordTooShort
	}

	admin, err := s.adminRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	if err := admin.SetPassword(newPassword); err != nil {
		return nil, errors.New("failed to hash new password")
	}
	if err := s.adminRepo.UpdatePassword(admin.ID, admin.Password); err != nil {
		return nil, err
	}
	return admin, nil
}
