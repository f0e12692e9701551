package service

import (
	"go-storefront/internal/model"
	"go-storefront/internal/repository"
)

type CatalogService interface {
	ListProducts(search, category string) ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(pRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: pRepo}
}

// ListProducts returns the public storefront listing: in-stock products only,
// optionally filtered by name search and the description-based category match.
func (s *catalogService) ListProducts(search, category string) ([]model.Product, error) {
	return s.productRepo.FindAvailable(search, category)
}

func (s *catalogService) GetProduct(id uint) (*model.Product, error) {
	return s.productRepo.FindByID(id)
}
