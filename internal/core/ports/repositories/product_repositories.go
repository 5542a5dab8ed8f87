package repositories

import (
	"context"

	"github.com/aadil-nv/invoise-management/internal/core/domain"
)

// ProductReader defines read operations for product data
type ProductReader interface {
	// FindProductByID retrieves one of the owner's products.
	FindProductByID(ctx context.Context, ownerID string, productID string) (*domain.Product, error)

	// ListProducts retrieves all of the owner's products ordered by name.
	ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error)
}

// ProductWriter defines write operations for product data
type ProductWriter interface {
	// SaveProduct persists a new product. A duplicate name for the owner returns apperrors.ErrDuplicate.
	SaveProduct(ctx context.Context, product domain.Product) error
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}
