package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"go-storefront/internal/cart"
	"go-storefront/internal/model"
	"go-storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *CheckoutRequest {
	return &CheckoutRequest{
		CustomerName:  "Aminah",
		Email:         "aminah@example.com",
		Phone:         "0123456789",
		Address:       "1 Jalan Besar, Kuala Lumpur",
		PaymentMethod: "bank_transfer",
	}
}

func TestCheckoutEndToEnd(t *testing.T) {
	db := newTestDB(t)
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	notifier := &mockNotifier{}
	store := &memStore{}
	svc := NewCheckoutService(productRepo, orderRepo, db, store, notifier, newTestHub())

	productA := seedProduct(t, db, "Produk A", 10.00, 5)
	productB := seedProduct(t, db, "Produk B", 25.00, 2)

	crt := cart.New()
	crt.Add(productA.ID, productA.Name, productA.Price, 2)
	crt.Add(productB.ID, productB.Name, productB.Price, 1)

	order, total, err := svc.Checkout(crt, validRequest(), strings.NewReader("receipt-bytes"), "resit.PNG")
	require.NoError(t, err)

	assert.InDelta(t, 45.00, total, 0.001)
	assert.Equal(t, model.StatusPending, order.Status)
	assert.NotZero(t, order.ID)

	today := time.Now().In(storeTimezone(t)).Format("20060102")
	assert.True(t, strings.HasPrefix(order.OrderNo, today+"-"), "order no %q should be date scoped", order.OrderNo)

	// Stock decremented by exactly the purchased quantities
	var a, b model.Product
	require.NoError(t, db.First(&a, productA.ID).Error)
	require.NoError(t, db.First(&b, productB.ID).Error)
	assert.Equal(t, 3, a.Stock)
	assert.Equal(t, 1, b.Stock)

	// One line item per cart line, with the snapshots frozen
	items, err := orderRepo.FindItems(order.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Produk A", items[0].ProductName)
	assert.Equal(t, 2, items[0].Qty)
	assert.InDelta(t, 10.00, items[0].Price, 0.001)

	// Receipt stored under a generated key, not the client filename
	require.Len(t, store.saved, 1)
	assert.True(t, strings.HasPrefix(store.saved[0], "receipts/"))
	assert.True(t, strings.HasSuffix(store.saved[0], ".png"))
	assert.NotContains(t, store.saved[0], "resit")

	// Notification dispatched with the cart totals
	require.Len(t, notifier.placed, 1)
	assert.Equal(t, order.OrderNo, notifier.placed[0].Order.OrderNo)
	assert.InDelta(t, 45.00, notifier.placed[0].Total, 0.001)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(
		repository.NewProductRepo(db),
		repository.NewOrderRepo(db),
		db, &memStore{}, &mockNotifier{}, newTestHub(),
	)

	_, _, err := svc.Checkout(cart.New(), validRequest(), strings.NewReader("x"), "r.png")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutInsufficientStockIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	notifier := &mockNotifier{}
	svc := NewCheckoutService(productRepo, orderRepo, db, &memStore{}, notifier, newTestHub())

	productA := seedProduct(t, db, "Produk A", 10.00, 5)
	productB := seedProduct(t, db, "Produk B", 25.00, 2)

	crt := cart.New()
	crt.Add(productA.ID, productA.Name, productA.Price, 2)
	crt.Add(productB.ID, productB.Name, productB.Price, 3) // only 2 in stock

	_, _, err := svc.Checkout(crt, validRequest(), strings.NewReader("x"), "r.png")

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Produk B", stockErr.ProductName)

	// Nothing committed: no orders, no items, stock untouched
	var orderCount, itemCount int64
	db.Model(&model.OnlineOrder{}).Count(&orderCount)
	db.Model(&model.OnlineOrderItem{}).Count(&itemCount)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)

	var a, b model.Product
	require.NoError(t, db.First(&a, productA.ID).Error)
	require.NoError(t, db.First(&b, productB.ID).Error)
	assert.Equal(t, 5, a.Stock)
	assert.Equal(t, 2, b.Stock)

	assert.Empty(t, notifier.placed, "no notification without a committed order")
}

func TestCheckoutDeletedProductFailsWholeOrder(t *testing.T) {
	db := newTestDB(t)
	productRepo := repository.NewProductRepo(db)
	svc := NewCheckoutService(productRepo, repository.NewOrderRepo(db), db, &memStore{}, &mockNotifier{}, newTestHub())

	productA := seedProduct(t, db, "Produk A", 10.00, 5)

	crt := cart.New()
	crt.Add(productA.ID, productA.Name, productA.Price, 1)
	crt.Add(999, "Produk Hantu", 5.00, 1) // never existed

	_, _, err := svc.Checkout(crt, validRequest(), strings.NewReader("x"), "r.png")

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Produk Hantu", stockErr.ProductName)

	var a model.Product
	require.NoError(t, db.First(&a, productA.ID).Error)
	assert.Equal(t, 5, a.Stock)
}

func TestCheckoutRejectsInvalidCustomerFields(t *testing.T) {
	db := newTestDB(t)
	productRepo := repository.NewProductRepo(db)
	svc := NewCheckoutService(productRepo, repository.NewOrderRepo(db), db, &memStore{}, &mockNotifier{}, newTestHub())

	p := seedProduct(t, db, "Produk A", 10.00, 5)
	crt := cart.New()
	crt.Add(p.ID, p.Name, p.Price, 1)

	req := validRequest()
	req.Email = "not-an-email"

	_, _, err := svc.Checkout(crt, req, strings.NewReader("x"), "r.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestOrderNumbersIncreaseWithinADay(t *testing.T) {
	db := newTestDB(t)
	productRepo := repository.NewProductRepo(db)
	svc := NewCheckoutService(productRepo, repository.NewOrderRepo(db), db, &memStore{}, &mockNotifier{}, newTestHub())

	p := seedProduct(t, db, "Produk A", 10.00, 10)

	var orderNos []string
	for i := 0; i < 3; i++ {
		crt := cart.New()
		crt.Add(p.ID, p.Name, p.Price, 1)
		order, _, err := svc.Checkout(crt, validRequest(), strings.NewReader("x"), fmt.Sprintf("r%d.png", i))
		require.NoError(t, err)
		orderNos = append(orderNos, order.OrderNo)
	}

	today := time.Now().In(storeTimezone(t)).Format("20060102")
	for i, no := range orderNos {
		assert.Equal(t, fmt.Sprintf("%s-%04d", today, i+1), no)
	}
}
