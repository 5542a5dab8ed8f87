package pgsql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aadil-nv/invoise-management/internal/apperrors"
	"github.com/aadil-nv/invoise-management/internal/core/domain"
	portsrepo "github.com/aadil-nv/invoise-management/internal/core/ports/repositories"
	"github.com/aadil-nv/invoise-management/internal/models"
	"github.com/aadil-nv/invoise-management/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// pgxStockTx is the StockTx of one open pgx transaction.
type pgxStockTx struct {
	tx pgx.Tx
}

var _ portsrepo.StockTx = (*pgxStockTx)(nil)

func (t *pgxStockTx) FindProductsForUpdate(ctx context.Context, ownerID string, productIDs []string) (map[string]domain.Product, error) {
	return findProductsForUpdate(ctx, t.tx, ownerID, productIDs)
}

// ApplyStockDeltas updates quantities with a conditional UPDATE so that a
// row is never taken below zero even if a caller skipped the locking read.
func (t *pgxStockTx) ApplyStockDeltas(ctx context.Context, ownerID string, deltas map[string]int64, userID string, now time.Time) error {
	if len(deltas) == 0 {
		return nil
	}

	query := `
		UPDATE products
		SET quantity = quantity + $3, last_updated_at = $4, last_updated_by = $5
		WHERE owner_id = $1 AND product_id = $2 AND quantity + $3 >= 0;
	`

	productIDs := make([]string, 0, len(deltas))
	for id, delta := range deltas {
		if delta != 0 {
			productIDs = append(productIDs, id)
		}
	}
	sort.Strings(productIDs)

	batch := &pgx.Batch{}
	for _, id := range productIDs {
		batch.Queue(query, ownerID, id, deltas[id], now, userID)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := t.tx.SendBatch(ctx, batch)
	var batchErr error
	for _, id := range productIDs {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil && isNumericOutOfRange(err) {
				batchErr = fmt.Errorf("%w: stock for product %s is out of range", apperrors.ErrValidation, id)
			} else if batchErr == nil {
				batchErr = fmt.Errorf("failed to update stock for product %s: %w", id, err)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: stock for product %s cannot go below zero", apperrors.ErrStockConflict, id)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close stock update batch: %w", err)
	}
	return batchErr
}

func (t *pgxStockTx) FindSaleForUpdate(ctx context.Context, ownerID string, saleID string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE owner_id = $1 AND sale_id = $2 FOR UPDATE;`
	return loadSale(ctx, t.tx, query, ownerID, saleID)
}

func (t *pgxStockTx) SaveSale(ctx context.Context, sale domain.Sale) error {
	m := mapping.ToModelSale(sale)

	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := t.tx.Exec(ctx, query,
		m.SaleID,
		m.OwnerID,
		m.CustomerID,
		m.PaymentMethod,
		m.TotalPrice,
		m.SaleDate,
		m.IsPaid,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sale %s already exists", apperrors.ErrDuplicate, m.SaleID)
		}
		if isNumericOutOfRange(err) {
			return fmt.Errorf("%w: total price of sale %s is out of range", apperrors.ErrValidation, m.SaleID)
		}
		return apperrors.NewAppError(500, "failed to insert sale "+m.SaleID, err)
	}

	return t.insertItems(ctx, m.Items)
}

func (t *pgxStockTx) UpdateSale(ctx context.Context, sale domain.Sale) error {
	m := mapping.ToModelSale(sale)

	query := `
		UPDATE sales
		SET payment_method = $3, total_price = $4, is_paid = $5, last_updated_at = $6, last_updated_by = $7
		WHERE owner_id = $1 AND sale_id = $2;
	`
	ct, err := t.tx.Exec(ctx, query, m.OwnerID, m.SaleID, m.PaymentMethod, m.TotalPrice, m.IsPaid, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isNumericOutOfRange(err) {
			return fmt.Errorf("%w: total price of sale %s is out of range", apperrors.ErrValidation, m.SaleID)
		}
		return apperrors.NewAppError(500, "failed to update sale "+m.SaleID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := t.tx.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1;`, m.SaleID); err != nil {
		return apperrors.NewAppError(500, "failed to clear items of sale "+m.SaleID, err)
	}
	return t.insertItems(ctx, m.Items)
}

func (t *pgxStockTx) DeleteSale(ctx context.Context, ownerID string, saleID string) error {
	// sale_items rows go with the sale through ON DELETE CASCADE.
	ct, err := t.tx.Exec(ctx, `DELETE FROM sales WHERE owner_id = $1 AND sale_id = $2;`, ownerID, saleID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete sale "+saleID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (t *pgxStockTx) insertItems(ctx context.Context, items []models.SaleItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `INSERT INTO sale_items (sale_id, line_no, product_id, quantity) VALUES ($1, $2, $3, $4);`
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.SaleID, item.LineNo, item.ProductID, item.Quantity)
	}

	// Close the batch results to surface an error from any queued insert
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert sale items", err)
	}
	return nil
}
