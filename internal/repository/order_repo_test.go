package repository

import (
	"testing"
	"time"

	"go-storefront/internal/model"

	"github.com/stretchr/testify/assert"
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
		&model.OnlineOrder{},
		&model.OnlineOrderItem{},
		&model.OrderCounter{},
	))
	return db
}

func TestNextOrderNoSequencesWithinADay(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepo(db)

	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first, err := repo.NextOrderNo(db, day)
	require.NoError(t, err)
	assert.Equal(t, "20240501-0001", first)

	second, err := repo.NextOrderNo(db, day)
	require.NoError(t, err)
	assert.Equal(t, "20240501-0002", second)

	// A new day starts its own sequence
	nextDay, err := repo.NextOrderNo(db, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "20240502-0001", nextDay)

	// The first day's counter keeps counting
	third, err := repo.NextOrderNo(db, day)
	require.NoError(t, err)
	assert.Equal(t, "20240501-0003", third)
}

func TestDecrementStockIsConditional(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)

	p := &model.Product{Name: "Produk A", Price: 10, Stock: 3}
	require.NoError(t, db.Create(p).Error)

	require.NoError(t, repo.DecrementStock(db, p.ID, 2))

	// More than remains: rejected, stock untouched
	err := repo.DecrementStock(db, p.ID, 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var fresh model.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 1, fresh.Stock)

	// Unknown product looks the same as no stock
	assert.ErrorIs(t, repo.DecrementStock(db, 999, 1), ErrInsufficientStock)
}

func TestFindAvailableFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)

	require.NoError(t, db.Create(&model.Product{Name: "Batik Shirt", Description: "pakaian tradisional", Price: 80, Stock: 3}).Error)
	require.NoError(t, db.Create(&model.Product{Name: "Songket Scarf", Description: "pakaian", Price: 120, Stock: 0}).Error)
	require.NoError(t, db.Create(&model.Product{Name: "Keropok", Description: "makanan ringan", Price: 5, Stock: 50}).Error)

	all, err := repo.FindAvailable("", "")
	require.NoError(t, err)
	assert.Len(t, all, 2, "zero-stock products never listed")

	byName, err := repo.FindAvailable("BATIK", "")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Batik Shirt", byName[0].Name)

	byCategory, err := repo.FindAvailable("", "Pakaian")
	require.NoError(t, err)
	require.Len(t, byCategory, 1, "out-of-stock songket excluded even when matching")
	assert.Equal(t, "Batik Shirt", byCategory[0].Name)
}
