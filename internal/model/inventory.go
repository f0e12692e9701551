package model

import "time"

// InventoryTransaction is an append-only log of manual stock top-ups. Sales
// decrement stock directly and are visible through order items instead.
type InventoryTransaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"index;not null" json:"product_id"`
	Product    Product   `json:"product" validate:"-"` // Relasi - skip validation
	AddedStock int       `gorm:"not null" json:"added_stock" validate:"gt=0"` // Qty harus > 0
	CreatedAt  time.Time `json:"created_at"`
}
