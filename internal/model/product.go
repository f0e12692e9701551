package model

import "time"

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price" validate:"gt=0"`
	Image       string    `gorm:"type:varchar(200)" json:"image"`
	Stock       int       `gorm:"default:0" json:"stock" validate:"gte=0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relasi
	InventoryTransactions []InventoryTransaction `json:"inventory_transactions,omitempty"`
}
