package pgsql

import (
	portsrepo "github.com/aadil-nv/invoise-management/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres implementations of every repository port.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ProductRepo:  newPgxProductRepository(dbPool),
		CustomerRepo: newPgxCustomerRepository(dbPool),
		SaleRepo:     newPgxSaleRepository(dbPool),
	}
}
