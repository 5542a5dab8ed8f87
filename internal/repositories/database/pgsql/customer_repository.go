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

type PgxCustomerRepository struct {
	pool *pgxpool.Pool
}

func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{pool: pool}
}

var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

// SaveCustomer inserts a new customer.
func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)

	query := `
		INSERT INTO customers (customer_id, owner_id, name, email, mobile, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.CustomerID,
		m.OwnerID,
		m.Name,
		m.Email,
		m.Mobile,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: customer with mobile %s already exists", apperrors.ErrDuplicate, m.Mobile)
		}
		return fmt.Errorf("failed to save customer %s: %w", m.CustomerID, err)
	}
	return nil
}

// FindCustomerByID retrieves one of the owner's customers.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, ownerID string, customerID string) (*domain.Customer, error) {
	query := `
		SELECT customer_id, owner_id, name, email, mobile, created_at, created_by, last_updated_at, last_updated_by
		FROM customers
		WHERE owner_id = $1 AND customer_id = $2;
	`
	var m models.Customer
	err := r.pool.QueryRow(ctx, query, ownerID, customerID).Scan(
		&m.CustomerID,
		&m.OwnerID,
		&m.Name,
		&m.Email,
		&m.Mobile,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID %s: %w", customerID, err)
	}

	customer := mapping.ToDomainCustomer(m)
	return &customer, nil
}
