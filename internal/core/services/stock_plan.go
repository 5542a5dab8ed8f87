package services

import (
	"fmt"
	"sort"

	"github.com/aadil-nv/invoise-management/internal/apperrors"
	"github.com/aadil-nv/invoise-management/internal/core/domain"
	"github.com/shopspring/decimal"
)

// validateItems checks the shape of requested line items.
func validateItems(items []domain.SaleItem) error {
	if len(items) == 0 {
		return ErrNoLineItems
	}
	for i, item := range items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: product id is required for line %d", apperrors.ErrValidation, i+1)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: quantity for product %s must be at least 1", apperrors.ErrValidation, item.ProductID)
		}
		if item.Quantity > domain.MaxQuantity {
			return fmt.Errorf("%w: quantity for product %s cannot exceed %d", apperrors.ErrValidation, item.ProductID, domain.MaxQuantity)
		}
	}
	demand, err := demandOf(items)
	if err != nil {
		return err
	}
	for _, id := range domain.ItemProductIDs(items) {
		if demand[id] > domain.MaxQuantity {
			return fmt.Errorf("%w: total quantity for product %s cannot exceed %d", apperrors.ErrValidation, id, domain.MaxQuantity)
		}
	}
	return nil
}

// demandOf sums quantities per product, reporting an overflow as a validation error.
func demandOf(items []domain.SaleItem) (map[string]int64, error) {
	demand, err := domain.Demand(items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return demand, nil
}

// stockOverflowError reports a product whose stock would leave the int64 range.
func stockOverflowError(product domain.Product) error {
	return fmt.Errorf("%w: stock of product %s is out of range", apperrors.ErrValidation, product.Name)
}

// lockOrder returns the distinct product ids of every item list, sorted so
// that concurrent units of work always lock rows in the same order.
func lockOrder(itemLists ...[]domain.SaleItem) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, items := range itemLists {
		for _, item := range items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	sort.Strings(ids)
	return ids
}

// planCreate checks every requested item against the locked products and
// returns the stock deltas to apply. Nothing is applied when any item fails.
// Quantities of repeated product ids are summed before the check.
func planCreate(products map[string]domain.Product, items []domain.SaleItem) (map[string]int64, error) {
	return planReplace(products, nil, items, false)
}

// planUpdate returns the net deltas for replacing oldItems with newItems.
// The new items are checked against stock as it would be after oldItems were
// returned; products of oldItems that no longer exist are skipped.
func planUpdate(products map[string]domain.Product, oldItems, newItems []domain.SaleItem) (map[string]int64, error) {
	return planReplace(products, oldItems, newItems, true)
}

// planRestore returns the deltas that put items back into stock, skipping
// products that no longer exist.
func planRestore(products map[string]domain.Product, items []domain.SaleItem) (map[string]int64, error) {
	restored, err := demandOf(items)
	if err != nil {
		return nil, err
	}
	deltas := make(map[string]int64)
	for id, qty := range restored {
		product, ok := products[id]
		if !ok || qty == 0 {
			continue
		}
		if _, err := domain.AddQuantity(product.Quantity, qty); err != nil {
			return nil, stockOverflowError(product)
		}
		deltas[id] = qty
	}
	return deltas, nil
}

func planReplace(products map[string]domain.Product, oldItems, newItems []domain.SaleItem, requireListed bool) (map[string]int64, error) {
	restored, err := demandOf(oldItems)
	if err != nil {
		return nil, err
	}
	demand, err := demandOf(newItems)
	if err != nil {
		return nil, err
	}

	for _, id := range domain.ItemProductIDs(newItems) {
		product, ok := products[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		if requireListed && !product.IsListed {
			return nil, &StockError{ProductID: id, ProductName: product.Name, Requested: demand[id], Unlisted: true}
		}

		available, err := domain.AddQuantity(product.Quantity, restored[id])
		if err != nil {
			return nil, stockOverflowError(product)
		}
		if demand[id] < 0 || available < demand[id] {
			return nil, &StockError{
				ProductID:   id,
				ProductName: product.Name,
				Requested:   demand[id],
				Available:   available,
			}
		}
	}

	deltas := make(map[string]int64)
	for id, qty := range restored {
		if _, ok := products[id]; ok {
			deltas[id] = qty
		}
	}
	for id, qty := range demand {
		// restored and demand are both non-negative, so the difference fits.
		deltas[id] -= qty
	}
	for id, delta := range deltas {
		if delta == 0 {
			delete(deltas, id)
			continue
		}
		if _, err := domain.AddQuantity(products[id].Quantity, delta); err != nil {
			return nil, stockOverflowError(products[id])
		}
	}
	return deltas, nil
}

// saleTotal prices items at the products' current prices.
func saleTotal(products map[string]domain.Product, items []domain.SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if product, ok := products[item.ProductID]; ok {
			total = total.Add(product.Price.Mul(decimal.NewFromInt(item.Quantity)))
		}
	}
	return total
}
