package repository

import (
	"fmt"
	"time"

	"go-storefront/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.OnlineOrder) error
	CreateItem(tx *gorm.DB, item *model.OnlineOrderItem) error
	FindAll() ([]model.OnlineOrder, error)
	FindByID(id uint) (*model.OnlineOrder, error)
	FindByOrderNo(orderNo string) (*model.OnlineOrder, error)
	FindItems(orderID uint) ([]model.OnlineOrderItem, error)
	UpdateStatus(id uint, status model.OrderStatus) error
	NextOrderNo(tx *gorm.DB, now time.Time) (string, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.OnlineOrder) error {
	return tx.Create(order).Error
}

func (r *orderRepo) CreateItem(tx *gorm.DB, item *model.OnlineOrderItem) error {
	return tx.Create(item).Error
}

func (r *orderRepo) FindAll() ([]model.OnlineOrder, error) {
	var orders []model.OnlineOrder
	err := r.db.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(id uint) (*model.OnlineOrder, error) {
	var order model.OnlineOrder
	err := r.db.Preload("Items").First(&order, "id = ?", id).Error
	return &order, err
}

func (r *orderRepo) FindByOrderNo(orderNo string) (*model.OnlineOrder, error) {
	var order model.OnlineOrder
	err := r.db.Preload("Items").First(&order, "order_no = ?", orderNo).Error
	return &order, err
}

func (r *orderRepo) FindItems(orderID uint) ([]model.OnlineOrderItem, error) {
	var items []model.OnlineOrderItem
	err := r.db.Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *orderRepo) UpdateStatus(id uint, status model.OrderStatus) error {
	return r.db.Model(&model.OnlineOrder{}).Where("id = ?", id).Update("status", status).Error
}

// NextOrderNo allocates the next date-scoped order number (YYYYMMDD-NNNN).
// The per-day counter row is bumped with a single upsert so two checkouts on
// the same day can never be handed the same sequence value.
func (r *orderRepo) NextOrderNo(tx *gorm.DB, now time.Time) (string, error) {
	day := now.Format("20060102")

	var seq int
	err := tx.Raw(`
		INSERT INTO order_counters (day, seq) VALUES (?, 1)
		ON CONFLICT (day) DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq
	`, day).Scan(&seq).Error
	if err != nil {
		return "", fmt.Errorf("failed to generate unique order number: %w", err)
	}

	return fmt.Sprintf("%s-%04d", day, seq), nil
}
