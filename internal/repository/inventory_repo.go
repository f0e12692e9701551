package repository

import (
	"go-storefront/internal/model"

	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(tx *gorm.DB, entry *model.InventoryTransaction) error
	FindAll() ([]model.InventoryTransaction, error)
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) Create(tx *gorm.DB, entry *model.InventoryTransaction) error {
	return tx.Create(entry).Error
}

func (r *inventoryRepo) FindAll() ([]model.InventoryTransaction, error) {
	var entries []model.InventoryTransaction
	// Preload Product, newest first
	err := r.db.Preload("Product").Order("created_at DESC").Find(&entries).Error
	return entries, err
}
