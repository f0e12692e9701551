package model

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// statusTransitions defines the allowed moves. Cancellation is only possible
// while the order has not shipped.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether the move from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type OnlineOrder struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	OrderNo       string      `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_no"`
	CustomerName  string      `gorm:"type:varchar(100);not null" json:"customer_name" validate:"required"`
	Email         string      `gorm:"type:varchar(120);not null" json:"email" validate:"required,email"`
	Phone         string      `gorm:"type:varchar(20)" json:"phone" validate:"required"`
	Address       string      `gorm:"type:text" json:"address" validate:"required"`
	Receipt       string      `gorm:"type:varchar(200)" json:"receipt"`
	PaymentMethod string      `gorm:"type:varchar(50)" json:"payment_method" validate:"required"`
	Status        OrderStatus `gorm:"type:varchar(30);default:'pending'" json:"status"`
	CreatedAt     time.Time   `json:"created_at"`

	// Relasi
	Items []OnlineOrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OnlineOrderItem is a snapshot of one purchased line. Product name and price
// are frozen at checkout time; there is no foreign key back to Product, so
// later catalog edits or deletes never touch placed orders.
type OnlineOrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index;not null" json:"order_id"`
	ProductName string  `gorm:"type:varchar(100);not null" json:"product_name"`
	Qty         int     `gorm:"not null" json:"qty" validate:"gt=0"`
	Price       float64 `gorm:"not null" json:"price"`
}

// OrderCounter backs date-scoped order numbering. One row per day, bumped
// atomically inside the checkout transaction.
type OrderCounter struct {
	ID  uint   `gorm:"primaryKey" json:"id"`
	Day string `gorm:"type:varchar(8);uniqueIndex;not null" json:"day"` // YYYYMMDD
	Seq int    `gorm:"not null;default:0" json:"seq"`
}
