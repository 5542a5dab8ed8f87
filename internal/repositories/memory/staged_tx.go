package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/aadil-nv/invoise-management/internal/apperrors"
	"github.com/aadil-nv/invoise-management/internal/core/domain"
	portsrepo "github.com/aadil-nv/invoise-management/internal/core/ports/repositories"
)

// stagedTx buffers writes on top of the store. The caller holds the store lock.
type stagedTx struct {
	store        *Store
	products     map[string]domain.Product
	sales        map[string]domain.Sale
	deletedSales map[string]struct{}
}

var _ portsrepo.StockTx = (*stagedTx)(nil)

func newStagedTx(store *Store) *stagedTx {
	return &stagedTx{
		store:        store,
		products:     make(map[string]domain.Product),
		sales:        make(map[string]domain.Sale),
		deletedSales: make(map[string]struct{}),
	}
}

func (t *stagedTx) product(id string) (domain.Product, bool) {
	if p, ok := t.products[id]; ok {
		return p, true
	}
	p, ok := t.store.products[id]
	return p, ok
}

func (t *stagedTx) sale(id string) (domain.Sale, bool) {
	if _, gone := t.deletedSales[id]; gone {
		return domain.Sale{}, false
	}
	if s, ok := t.sales[id]; ok {
		return s, true
	}
	s, ok := t.store.sales[id]
	return s, ok
}

func (t *stagedTx) FindProductsForUpdate(_ context.Context, ownerID string, productIDs []string) (map[string]domain.Product, error) {
	found := make(map[string]domain.Product, len(productIDs))
	for _, id := range productIDs {
		if p, ok := t.product(id); ok && p.OwnerID == ownerID {
			found[id] = p
		}
	}
	return found, nil
}

func (t *stagedTx) ApplyStockDeltas(_ context.Context, ownerID string, deltas map[string]int64, userID string, now time.Time) error {
	// Check every delta first so a failure leaves nothing staged.
	next := make(map[string]domain.Product, len(deltas))
	for id, delta := range deltas {
		if delta == 0 {
			continue
		}
		p, ok := t.product(id)
		if !ok || p.OwnerID != ownerID {
			return fmt.Errorf("%w: product %s not found during stock update", apperrors.ErrNotFound, id)
		}
		qty, err := domain.AddQuantity(p.Quantity, delta)
		if err != nil {
			return fmt.Errorf("%w: stock for product %s is out of range", apperrors.ErrValidation, id)
		}
		if qty < 0 {
			return fmt.Errorf("%w: stock for product %s cannot go below zero", apperrors.ErrStockConflict, id)
		}
		p.Quantity = qty
		p.Touch(userID, now)
		next[id] = p
	}
	for id, p := range next {
		t.products[id] = p
	}
	return nil
}

func (t *stagedTx) FindSaleForUpdate(_ context.Context, ownerID string, saleID string) (*domain.Sale, error) {
	s, ok := t.sale(saleID)
	if !ok || s.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	s = cloneSale(s)
	return &s, nil
}

func (t *stagedTx) SaveSale(_ context.Context, sale domain.Sale) error {
	if _, ok := t.sale(sale.SaleID); ok {
		return fmt.Errorf("%w: sale %s already exists", apperrors.ErrDuplicate, sale.SaleID)
	}
	delete(t.deletedSales, sale.SaleID)
	t.sales[sale.SaleID] = cloneSale(sale)
	return nil
}

func (t *stagedTx) UpdateSale(_ context.Context, sale domain.Sale) error {
	existing, ok := t.sale(sale.SaleID)
	if !ok || existing.OwnerID != sale.OwnerID {
		return apperrors.ErrNotFound
	}
	t.sales[sale.SaleID] = cloneSale(sale)
	return nil
}

func (t *stagedTx) DeleteSale(_ context.Context, ownerID string, saleID string) error {
	existing, ok := t.sale(saleID)
	if !ok || existing.OwnerID != ownerID {
		return apperrors.ErrNotFound
	}
	delete(t.sales, saleID)
	t.deletedSales[saleID] = struct{}{}
	return nil
}

// publish copies the staged writes into the store.
func (t *stagedTx) publish() {
	for id, p := range t.products {
		t.store.products[id] = p
	}
	for id := range t.deletedSales {
		delete(t.store.sales, id)
	}
	for id, s := range t.sales {
		t.store.sales[id] = s
	}
}
