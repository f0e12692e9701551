package service

import (
	"testing"

	"go-storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProductsExcludesOutOfStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewProductRepo(db))

	seedProduct(t, db, "Produk A", 10, 5)
	seedProduct(t, db, "Produk B", 25, 0)
	seedProduct(t, db, "Produk C", 8, 1)

	products, err := svc.ListProducts("", "")
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Greater(t, p.Stock, 0)
	}
}

func TestListProductsSearchIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewProductRepo(db))

	seedProduct(t, db, "Batik Shirt", 80, 3)
	seedProduct(t, db, "Songket Scarf", 120, 2)

	products, err := svc.ListProducts("bAtIk", "")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Batik Shirt", products[0].Name)
}

func TestListProductsCategoryMatchesDescription(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewProductRepo(db))

	// The category filter is a substring match on description, not a real
	// taxonomy.
	seedProduct(t, db, "Produk A", 10, 5) // description "Contoh Produk A"
	seedProduct(t, db, "Lain", 9, 4)

	products, err := svc.ListProducts("", "contoh produk")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Produk A", products[0].Name)
}

func TestGetProductNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewProductRepo(db))

	_, err := svc.GetProduct(123)
	assert.Error(t, err)
}
