package service

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"go-storefront/internal/cart"
	"go-storefront/internal/model"
	"go-storefront/internal/notify"
	"go-storefront/internal/repository"
	"go-storefront/internal/ws"
	"go-storefront/pkg/storage"
	"go-storefront/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrReceiptMissing = errors.New("payment receipt is required")
)

// InsufficientStockError names the product whose stock ran out so the
// storefront can show a useful warning.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s", e.ProductName)
}

// CheckoutRequest carries the submitted customer fields.
type CheckoutRequest struct {
	CustomerName  string `json:"name" form:"name" validate:"required"`
	Email         string `json:"email" form:"email" validate:"required,email"`
	Phone         string `json:"phone" form:"phone" validate:"required"`
	Address       string `json:"address" form:"address" validate:"required"`
	PaymentMethod string `json:"payment_method" form:"payment_method" validate:"required"`
}

type CheckoutService interface {
	Checkout(c cart.Cart, req *CheckoutRequest, receipt io.Reader, receiptName string) (*model.OnlineOrder, float64, error)
}

type checkoutService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	db          *gorm.DB
	store       storage.FileStore
	notifier    notify.Notifier
	wsHub       *ws.Hub
	loc         *time.Location
}

func NewCheckoutService(
	pRepo repository.ProductRepository,
	oRepo repository.OrderRepository,
	db *gorm.DB,
	store storage.FileStore,
	notifier notify.Notifier,
	hub *ws.Hub,
) CheckoutService {
	loc, err := time.LoadLocation("Asia/Kuala_Lumpur")
	if err != nil {
		loc = time.UTC
	}
	return &checkoutService{
		productRepo: pRepo,
		orderRepo:   oRepo,
		db:          db,
		store:       store,
		notifier:    notifier,
		wsHub:       hub,
		loc:         loc,
	}
}

// Checkout runs the whole purchase as one transaction: order number
// allocation, order header, line items, and the conditional stock decrements
// commit together or not at all. The receipt file is written first so the
// order row never references a missing upload. Email goes out only after the
// commit and never affects the result.
func (s *checkoutService) Checkout(c cart.Cart, req *CheckoutRequest, receipt io.Reader, receiptName string) (*model.OnlineOrder, float64, error) {
	if c.Empty() {
		return nil, 0, ErrEmptyCart
	}
	if receipt == nil {
		return nil, 0, ErrReceiptMissing
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, 0, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	receiptKey, err := s.store.Save("receipts", receiptName, receipt)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to save receipt: %w", err)
	}

	// Deterministic line order keeps item rows and stock updates stable.
	ids := make([]uint, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var order *model.OnlineOrder
	type stockChange struct {
		productID uint
		name      string
		newStock  int
	}
	var changes []stockChange

	err = s.db.Transaction(func(tx *gorm.DB) error {
		orderNo, err := s.orderRepo.NextOrderNo(tx, time.Now().In(s.loc))
		if err != nil {
			return err
		}

		order = &model.OnlineOrder{
			OrderNo:       orderNo,
			CustomerName:  req.CustomerName,
			Email:         req.Email,
			Phone:         req.Phone,
			Address:       req.Address,
			PaymentMethod: req.PaymentMethod,
			Receipt:       receiptKey,
			Status:        model.StatusPending,
		}
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}

		for _, id := range ids {
			line := c[id]

			if err := s.productRepo.DecrementStock(tx, id, line.Qty); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) || errors.Is(err, gorm.ErrRecordNotFound) {
					return &InsufficientStockError{ProductName: line.Name}
				}
				return err
			}

			item := &model.OnlineOrderItem{
				OrderID:     order.ID,
				ProductName: line.Name,
				Qty:         line.Qty,
				Price:       line.Price,
			}
			if err := s.orderRepo.CreateItem(tx, item); err != nil {
				return err
			}

			var p model.Product
			if err := tx.First(&p, "id = ?", id).Error; err == nil {
				changes = append(changes, stockChange{productID: p.ID, name: p.Name, newStock: p.Stock})
			}
		}

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	total := c.Total()

	s.notifier.OrderPlaced(order, c, total)
	for _, ch := range changes {
		s.wsHub.StockChanged(ch.productID, ch.name, ch.newStock, "checkout")
	}

	return order, total, nil
}
