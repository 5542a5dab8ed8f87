package repositories

import (
	"context"
	"time"

	"github.com/aadil-nv/invoise-management/internal/core/domain"
)

// StockTx is the unit of work a stock-affecting sale operation runs in.
// Every read made through it observes, and every write made through it is
// committed together with, the other operations of the same unit.
type StockTx interface {
	// FindProductsForUpdate loads and locks the owner's products with the given IDs.
	// Products that do not exist (or belong to another owner) are absent from the map.
	FindProductsForUpdate(ctx context.Context, ownerID string, productIDs []string) (map[string]domain.Product, error)

	// ApplyStockDeltas adds each delta to the product's quantity. A delta that
	// would take a quantity below zero fails with apperrors.ErrStockConflict.
	ApplyStockDeltas(ctx context.Context, ownerID string, deltas map[string]int64, userID string, now time.Time) error

	// FindSaleForUpdate loads and locks one of the owner's sales.
	FindSaleForUpdate(ctx context.Context, ownerID string, saleID string) (*domain.Sale, error)

	// SaveSale inserts a new sale.
	SaveSale(ctx context.Context, sale domain.Sale) error

	// UpdateSale replaces an existing sale's line items and settlement fields.
	UpdateSale(ctx context.Context, sale domain.Sale) error

	// DeleteSale removes one of the owner's sales.
	DeleteSale(ctx context.Context, ownerID string, saleID string) error
}

// StockAdjuster runs sale operations atomically against product stock.
// Implementations decide how exclusivity is achieved (row locks, document
// transactions, a process lock) without the sale logic knowing.
type StockAdjuster interface {
	// RunInStockTx executes fn in a single unit of work. If fn returns an error
	// nothing fn wrote is kept.
	RunInStockTx(ctx context.Context, fn func(ctx context.Context, tx StockTx) error) error
}
