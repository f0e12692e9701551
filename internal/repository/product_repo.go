package repository

import (
	"errors"

	"go-storefront/internal/model"

	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("insufficient stock remaining")

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindAvailable(search, category string) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	DecrementStock(tx *gorm.DB, id uint, qty int) error
	IncrementStock(tx *gorm.DB, id uint, qty int) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("id ASC").Find(&products).Error
	return products, err
}

// FindAvailable returns in-stock products, optionally narrowed by a
// case-insensitive substring match on name (search) and description
// (category). The description match stands in for a real category column.
func (r *productRepo) FindAvailable(search, category string) ([]model.Product, error) {
	query := r.db.Where("stock > 0")

	if search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}
	if category != "" {
		query = query.Where("LOWER(description) LIKE LOWER(?)", "%"+category+"%")
	}

	var products []model.Product
	err := query.Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uint) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

// DecrementStock menerima *gorm.DB (tx) agar bisa berjalan dalam transaksi.
// The decrement is conditional on remaining stock so concurrent checkouts can
// never drive it negative.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uint, qty int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *productRepo) IncrementStock(tx *gorm.DB, id uint, qty int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
