package service

import (
	"errors"
	"fmt"
	"io"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"
	"go-storefront/internal/ws"
	"go-storefront/pkg/storage"
	"go-storefront/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("added stock must be a positive quantity")
)

// ProductInput is the admin product form. Stock is a pointer so an omitted
// value on edit leaves the current stock untouched.
type ProductInput struct {
	Name        string  `json:"name" form:"name" validate:"required"`
	Description string  `json:"description" form:"description"`
	Price       float64 `json:"price" form:"price" validate:"gt=0"`
	Stock       *int    `json:"stock" form:"stock" validate:"omitempty,gte=0"`
}

type InventoryService interface {
	ListProducts() ([]model.Product, error)
	CreateProduct(input *ProductInput, image io.Reader, imageName string) (*model.Product, error)
	UpdateProduct(id uint, input *ProductInput, image io.Reader, imageName string) (*model.Product, error)
	DeleteProduct(id uint) error
	AddStock(productID uint, qty int) (*model.Product, error)
	ListTransactions() ([]model.InventoryTransaction, error)
}

type inventoryService struct {
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	db            *gorm.DB
	store         storage.FileStore
	wsHub         *ws.Hub
}

func NewInventoryService(
	pRepo repository.ProductRepository,
	iRepo repository.InventoryRepository,
	db *gorm.DB,
	store storage.FileStore,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		productRepo:   pRepo,
		inventoryRepo: iRepo,
		db:            db,
		store:         store,
		wsHub:         hub,
	}
}

// ListProducts is the admin listing; unlike the storefront it includes
// out-of-stock products.
func (s *inventoryService) ListProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) CreateProduct(input *ProductInput, image io.Reader, imageName string) (*model.Product, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	if image != nil {
		key, err := s.store.Save("products", imageName, image)
		if err != nil {
			return nil, fmt.Errorf("failed to save product image: %w", err)
		}
		product.Image = key
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *inventoryService) UpdateProduct(id uint, input *ProductInput, image io.Reader, imageName string) (*model.Product, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	if image != nil {
		key, err := s.store.Save("products", imageName, image)
		if err != nil {
			return nil, fmt.Errorf("failed to save product image: %w", err)
		}
		product.Image = key
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	s.wsHub.StockChanged(product.ID, product.Name, product.Stock, "product_edited")
	return product, nil
}

// DeleteProduct removes the catalog row. Placed order items keep their name
// and price snapshots, so order history survives the delete.
func (s *inventoryService) DeleteProduct(id uint) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.productRepo.Delete(id)
}

// AddStock is the manual top-up: increment the product's stock and append the
// inventory log entry in one transaction. Non-positive quantities are
// rejected without touching anything.
func (s *inventoryService) AddStock(productID uint, qty int) (*model.Product, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	var product *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.IncrementStock(tx, productID, qty); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		entry := &model.InventoryTransaction{
			ProductID:  productID,
			AddedStock: qty,
		}
		if err := s.inventoryRepo.Create(tx, entry); err != nil {
			return err
		}

		var p model.Product
		if err := tx.First(&p, "id = ?", productID).Error; err != nil {
			return err
		}
		product = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.StockChanged(product.ID, product.Name, product.Stock, "inventory_topup")
	return product, nil
}

func (s *inventoryService) ListTransactions() ([]model.InventoryTransaction, error) {
	return s.inventoryRepo.FindAll()
}
