package repository

import (
	"go-storefront/internal/model"

	"gorm.io/gorm"
)

type AdminRepository interface {
	FindAll() ([]model.Admin, error)
	FindByID(id uint) (*model.Admin, error)
	FindByUsername(username string) (*model.Admin, error)
	Create(admin *model.Admin) error
	UpdatePassword(id uint, hashedPassword string) error
	Count() (int64, error)
}

type adminRepo struct {
	db *gorm.DB
}

func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db}
}

func (r *adminRepo) FindAll() ([]model.Admin, error) {
	var admins []model.Admin
	err := r.db.Order("id ASC").Find(&admins).Error
	return admins, err
}

func (r *adminRepo) FindByID(id uint) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) FindByUsername(username string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.First(&admin, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) Create(admin *model.Admin) error {
	return r.db.Create(admin).Error
}

func (r *adminRepo) UpdatePassword(id uint, hashedPassword string) error {
	return r.db.Model(&model.Admin{}).Where("id = ?", id).Update("password", hashedPassword).Error
}

func (r *adminRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Admin{}).Count(&count).Error
	return count, err
}
