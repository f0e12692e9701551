package service

import (
	"fmt"
	"io"
	"testing"
	"time"

	"go-storefront/internal/cart"
	"go-storefront/internal/model"
	"go-storefront/internal/ws"
	"go-storefront/pkg/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Product{},
		&model.Admin{},
		&model.OnlineOrder{},
		&model.OnlineOrderItem{},
		&model.InventoryTransaction{},
		&model.OrderCounter{},
	))
	return db
}

func newTestHub() *ws.Hub {
	hub := ws.NewHub()
	go hub.Run()
	return hub
}

// memStore keeps uploads out of the filesystem during tests.
type memStore struct {
	saved []string
}

func (m *memStore) Save(dir, originalName string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	key := fmt.Sprintf("upload-%d%s", len(m.saved)+1, storage.SanitizeExt(originalName))
	m.saved = append(m.saved, dir+"/"+key)
	return key, nil
}

type placedCall struct {
	Order *model.OnlineOrder
	Lines cart.Cart
	Total float64
}

// mockNotifier records calls synchronously so tests stay deterministic.
type mockNotifier struct {
	placed     []placedCall
	invoices   int
	invoiceErr error
}

func (m *mockNotifier) OrderPlaced(order *model.OnlineOrder, lines cart.Cart, total float64) {
	m.placed = append(m.placed, placedCall{Order: order, Lines: lines, Total: total})
}

func (m *mockNotifier) Invoice(order *model.OnlineOrder, items []model.OnlineOrderItem, total float64) error {
	m.invoices++
	return m.invoiceErr
}

// storeTimezone mirrors the fixed zone checkout stamps order numbers in.
func storeTimezone(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kuala_Lumpur")
	if err != nil {
		return time.UTC
	}
	return loc
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Description: "Contoh " + name, Price: price, Stock: stock}
	require.NoError(t, db.Create(p).Error)
	return p
}
