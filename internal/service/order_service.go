package service

import (
	"errors"

	"go-storefront/internal/model"
	"go-storefront/internal/notify"
	"go-storefront/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrIllegalTransition = errors.New("illegal status transition")
)

type OrderService interface {
	ListOrders() ([]model.OnlineOrder, error)
	GetOrder(id uint) (*model.OnlineOrder, float64, error)
	Track(orderNo string) (*model.OnlineOrder, []model.OnlineOrderItem, float64, error)
	UpdateStatus(id uint, status model.OrderStatus) (*model.OnlineOrder, error)
	SendInvoice(id uint) (*model.OnlineOrder, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	notifier  notify.Notifier
}

func NewOrderService(oRepo repository.OrderRepository, notifier notify.Notifier) OrderService {
	return &orderService{orderRepo: oRepo, notifier: notifier}
}

func (s *orderService) ListOrders() ([]model.OnlineOrder, error) {
	return s.orderRepo.FindAll()
}

// GetOrder returns the order with its items and the total derived from the
// persisted line snapshots.
func (s *orderService) GetOrder(id uint) (*model.OnlineOrder, float64, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrOrderNotFound
		}
		return nil, 0, err
	}
	return order, itemsTotal(order.Items), nil
}

// Track is the public lookup by order number. The number itself is the only
// credential.
func (s *orderService) Track(orderNo string) (*model.OnlineOrder, []model.OnlineOrderItem, float64, error) {
	order, err := s.orderRepo.FindByOrderNo(orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, 0, ErrOrderNotFound
		}
		return nil, nil, 0, err
	}
	return order, order.Items, itemsTotal(order.Items), nil
}

// UpdateStatus applies an admin status change, enforcing the transition
// table. Setting the current status again is accepted as a no-op.
func (s *orderService) UpdateStatus(id uint, status model.OrderStatus) (*model.OnlineOrder, error) {
	if !status.Valid() {
		return nil, ErrUnknownStatus
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if status != order.Status {
		if !order.Status.CanTransitionTo(status) {
			return nil, ErrIllegalTransition
		}
		if err := s.orderRepo.UpdateStatus(id, status); err != nil {
			return nil, err
		}
		order.Status = status
	}

	return order, nil
}

// SendInvoice emails the HTML invoice to the order's customer. The caller
// surfaces a failure as a warning; the order itself is untouched either way.
func (s *orderService) SendInvoice(id uint) (*model.OnlineOrder, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.notifier.Invoice(order, order.Items, itemsTotal(order.Items)); err != nil {
		return order, err
	}
	return order, nil
}

func itemsTotal(items []model.OnlineOrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Qty)
	}
	return total
}
