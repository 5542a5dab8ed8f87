package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aadil-nv/invoise-management/internal/apperrors"
	"github.com/aadil-nv/invoise-management/internal/core/domain"
	portsrepo "github.com/aadil-nv/invoise-management/internal/core/ports/repositories"
	"github.com/aadil-nv/invoise-management/internal/models"
	"github.com/aadil-nv/invoise-management/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const saleColumns = `sale_id, owner_id, customer_id, payment_method, total_price, sale_date, is_paid, is_active, created_at, created_by, last_updated_at, last_updated_by`

// PgxSaleRepository stores sales and runs the stock unit of work on Postgres.
type PgxSaleRepository struct {
	BaseRepository
}

func newPgxSaleRepository(pool *pgxpool.Pool) portsrepo.SaleRepositoryWithTx {
	return &PgxSaleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxSaleRepository implements portsrepo.SaleRepositoryWithTx
var _ portsrepo.SaleRepositoryWithTx = (*PgxSaleRepository)(nil)

// RunInStockTx runs fn inside a single database transaction. Row locks taken
// through the StockTx are held until fn returns.
func (r *PgxSaleRepository) RunInStockTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.StockTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Defer rollback in case of error
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	if err := fn(ctx, &pgxStockTx{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindSaleByID retrieves one of the owner's sales with its line items.
func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, ownerID string, saleID string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE owner_id = $1 AND sale_id = $2;`
	return loadSale(ctx, r.Pool, query, ownerID, saleID)
}

// ListSales retrieves the owner's sales, newest sale date first.
func (r *PgxSaleRepository) ListSales(ctx context.Context, ownerID string) ([]domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE owner_id = $1 ORDER BY sale_date DESC, created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var sales []models.Sale
	saleIDs := []string{}
	for rows.Next() {
		m, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale row: %w", err)
		}
		sales = append(sales, m)
		saleIDs = append(saleIDs, m.SaleID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale rows: %w", err)
	}

	items, err := loadSaleItems(ctx, r.Pool, saleIDs)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Sale, len(sales))
	for i, m := range sales {
		m.Items = items[m.SaleID]
		result[i] = mapping.ToDomainSale(m)
	}
	return result, nil
}

// UpdateSalePaid sets the paid flag and returns the updated sale.
func (r *PgxSaleRepository) UpdateSalePaid(ctx context.Context, ownerID string, saleID string, isPaid bool, userID string, now time.Time) (*domain.Sale, error) {
	query := `
		UPDATE sales SET is_paid = $3, last_updated_at = $4, last_updated_by = $5
		WHERE owner_id = $1 AND sale_id = $2
		RETURNING ` + saleColumns + `;`
	return loadSale(ctx, r.Pool, query, ownerID, saleID, isPaid, now, userID)
}

// UpdateSaleActive sets the active flag and returns the updated sale.
func (r *PgxSaleRepository) UpdateSaleActive(ctx context.Context, ownerID string, saleID string, isActive bool, userID string, now time.Time) (*domain.Sale, error) {
	query := `
		UPDATE sales SET is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE owner_id = $1 AND sale_id = $2
		RETURNING ` + saleColumns + `;`
	return loadSale(ctx, r.Pool, query, ownerID, saleID, isActive, now, userID)
}

// loadSale runs a query returning one sale row and attaches its line items.
func loadSale(ctx context.Context, q querier, query string, args ...any) (*domain.Sale, error) {
	m, err := scanSale(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}

	items, err := loadSaleItems(ctx, q, []string{m.SaleID})
	if err != nil {
		return nil, err
	}
	m.Items = items[m.SaleID]

	sale := mapping.ToDomainSale(m)
	return &sale, nil
}

// loadSaleItems retrieves the line items of the given sales in line order.
func loadSaleItems(ctx context.Context, q querier, saleIDs []string) (map[string][]models.SaleItem, error) {
	result := make(map[string][]models.SaleItem, len(saleIDs))
	if len(saleIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT sale_id, line_no, product_id, quantity
		FROM sale_items
		WHERE sale_id = ANY($1)
		ORDER BY sale_id, line_no;
	`
	rows, err := q.Query(ctx, query, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.SaleItem
		if err := rows.Scan(&item.SaleID, &item.LineNo, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan sale item row: %w", err)
		}
		result[item.SaleID] = append(result[item.SaleID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale item rows: %w", err)
	}
	return result, nil
}

func scanSale(row pgx.Row) (models.Sale, error) {
	var m models.Sale
	err := row.Scan(
		&m.SaleID,
		&m.OwnerID,
		&m.CustomerID,
		&m.PaymentMethod,
		&m.TotalPrice,
		&m.SaleDate,
		&m.IsPaid,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
