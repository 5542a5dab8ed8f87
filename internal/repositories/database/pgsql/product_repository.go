package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/aadil-nv/invoise-management/internal/apperrors"
	"github.com/aadil-nv/invoise-management/internal/core/domain"
	portsrepo "github.com/aadil-nv/invoise-management/internal/core/ports/repositories"
	"github.com/aadil-nv/invoise-management/internal/models"
	"github.com/aadil-nv/invoise-management/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `product_id, owner_id, name, description, quantity, price, is_listed, created_at, created_by, last_updated_at, last_updated_by`

type PgxProductRepository struct {
	pool *pgxpool.Pool
}

// newPgxProductRepository creates a new repository for product data.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{pool: pool}
}

// Ensure PgxProductRepository implements portsrepo.ProductRepositoryFacade
var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

// SaveProduct inserts a new product.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		m.ProductID,
		m.OwnerID,
		m.Name,
		m.Description,
		m.Quantity,
		m.Price,
		m.IsListed,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: product named %q already exists", apperrors.ErrDuplicate, m.Name)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: product quantity and price cannot be negative", apperrors.ErrValidation)
		}
		if isNumericOutOfRange(err) {
			return fmt.Errorf("%w: product price is out of range", apperrors.ErrValidation)
		}
		return fmt.Errorf("failed to save product %s: %w", m.ProductID, err)
	}
	return nil
}

// FindProductByID retrieves one of the owner's products.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, ownerID string, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 AND product_id = $2;`

	m, err := scanProduct(r.pool.QueryRow(ctx, query, ownerID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}

	product := mapping.ToDomainProduct(m)
	return &product, nil
}

// ListProducts retrieves the owner's products ordered by name.
func (r *PgxProductRepository) ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 ORDER BY name;`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, mapping.ToDomainProduct(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

// findProductsForUpdate retrieves the owner's products by IDs and locks the rows.
// Must be called within a transaction. Missing products are left out of the map.
func findProductsForUpdate(ctx context.Context, q querier, ownerID string, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	// ORDER BY makes every transaction take row locks in the same order.
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE owner_id = $1 AND product_id = ANY($2)
		ORDER BY product_id
		FOR UPDATE;
	`
	rows, err := q.Query(ctx, query, ownerID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs for update: %w", err)
	}
	defer rows.Close()

	products := make(map[string]domain.Product, len(productIDs))
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked product row: %w", err)
		}
		products[m.ProductID] = mapping.ToDomainProduct(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked product rows: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.OwnerID,
		&m.Name,
		&m.Description,
		&m.Quantity,
		&m.Price,
		&m.IsListed,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
