package services

import (
	"context"

	"github.com/aadil-nv/invoise-management/internal/core/domain"
	"github.com/aadil-nv/invoise-management/internal/dto"
)

// ProductReaderSvc defines read operations for product data
type ProductReaderSvc interface {
	GetProduct(ctx context.Context, ownerID string, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error)
}

// ProductWriterSvc defines write operations for product data
type ProductWriterSvc interface {
	CreateProduct(ctx context.Context, ownerID string, req dto.CreateProductRequest) (*domain.Product, error)
}

// ProductSvcFacade combines all product-related service interfaces
type ProductSvcFacade interface {
	ProductReaderSvc
	ProductWriterSvc
}
