package services

import (
	"context"

	"github.com/aadil-nv/invoise-management/internal/core/domain"
	"github.com/aadil-nv/invoise-management/internal/dto"
)

// SaleReaderSvc defines read operations for sale data
type SaleReaderSvc interface {
	// GetSale retrieves one of the owner's sales.
	GetSale(ctx context.Context, ownerID string, saleID string) (*domain.Sale, error)

	// ListSales retrieves the owner's sales, newest first.
	ListSales(ctx context.Context, ownerID string) ([]domain.Sale, error)
}

// SaleWriterSvc defines the operations that record, amend and remove sales.
// CreateSale, UpdateSale and DeleteSale adjust product stock atomically with the sale.
type SaleWriterSvc interface {
	// CreateSale deducts every line item from stock and persists the sale, or does neither.
	CreateSale(ctx context.Context, ownerID string, req dto.CreateSaleRequest) (*domain.Sale, error)

	// UpdateSale reverses the sale's previous line items and applies the new ones.
	UpdateSale(ctx context.Context, ownerID string, saleID string, req dto.UpdateSaleRequest) (*domain.Sale, error)

	// SetPaymentStatus flips the paid flag without touching stock.
	SetPaymentStatus(ctx context.Context, ownerID string, saleID string, isPaid bool) (*domain.Sale, error)

	// SetActiveStatus flips the active flag without touching stock.
	SetActiveStatus(ctx context.Context, ownerID string, saleID string, isActive bool) (*domain.Sale, error)

	// DeleteSale removes the sale.
	DeleteSale(ctx context.Context, ownerID string, saleID string) error
}

// SaleSvcFacade combines all sale-related service interfaces
type SaleSvcFacade interface {
	SaleReaderSvc
	SaleWriterSvc
}
