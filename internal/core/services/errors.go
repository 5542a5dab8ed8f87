package services

import (
	"errors"
	"fmt"

	"github.com/aadil-nv/invoise-management/internal/apperrors"
	"github.com/aadil-nv/invoise-management/internal/core/domain"
)

var (
	ErrSaleNotFound      = fmt.Errorf("sale %w", apperrors.ErrNotFound)
	ErrProductNotFound   = fmt.Errorf("product %w", apperrors.ErrNotFound)
	ErrCustomerNotFound  = fmt.Errorf("customer %w", apperrors.ErrNotFound)
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductNotListed  = errors.New("product is not listed")
	ErrNoLineItems       = fmt.Errorf("%w: a sale needs at least one product", apperrors.ErrValidation)

	errTotalOutOfRange = fmt.Errorf("%w: total price must be between 0 and %s", apperrors.ErrValidation, domain.MaxAmount)
	errPriceOutOfRange = fmt.Errorf("%w: price must be between 0 and %s", apperrors.ErrValidation, domain.MaxAmount)
)

// StockError reports a line item that the product's stock cannot satisfy.
// It matches apperrors.ErrStockConflict and one of ErrInsufficientStock or
// ErrProductNotListed under errors.Is.
type StockError struct {
	ProductID   string
	ProductName string
	Requested   int64
	Available   int64
	Unlisted    bool
}

func (e *StockError) Error() string {
	if e.Unlisted {
		return fmt.Sprintf("Product %q is not listed and cannot be used in sales.", e.ProductName)
	}
	return "Insufficient stock for product: " + e.ProductName
}

func (e *StockError) Unwrap() []error {
	if e.Unlisted {
		return []error{apperrors.ErrStockConflict, ErrProductNotListed}
	}
	return []error{apperrors.ErrStockConflict, ErrInsufficientStock}
}
