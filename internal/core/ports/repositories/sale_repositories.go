package repositories

import (
	"context"
	"time"

	"github.com/aadil-nv/invoise-management/internal/core/domain"
)

// SaleReader defines read operations for sale data
type SaleReader interface {
	// FindSaleByID retrieves one of the owner's sales.
	FindSaleByID(ctx context.Context, ownerID string, saleID string) (*domain.Sale, error)

	// ListSales retrieves all of the owner's sales, newest sale date first.
	ListSales(ctx context.Context, ownerID string) ([]domain.Sale, error)
}

// SaleStatusWriter defines the flag updates that never touch stock
type SaleStatusWriter interface {
	// UpdateSalePaid sets the paid flag and returns the updated sale.
	UpdateSalePaid(ctx context.Context, ownerID string, saleID string, isPaid bool, userID string, now time.Time) (*domain.Sale, error)

	// UpdateSaleActive sets the active flag and returns the updated sale.
	UpdateSaleActive(ctx context.Context, ownerID string, saleID string, isActive bool, userID string, now time.Time) (*domain.Sale, error)
}

// SaleRepositoryFacade combines all sale-related repository interfaces
type SaleRepositoryFacade interface {
	SaleReader
	SaleStatusWriter
}

// SaleRepositoryWithTx extends SaleRepositoryFacade with the stock unit of work
type SaleRepositoryWithTx interface {
	SaleRepositoryFacade
	StockAdjuster
}
