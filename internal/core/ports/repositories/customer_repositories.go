package repositories

import (
	"context"

	"github.com/aadil-nv/invoise-management/internal/core/domain"
)

// CustomerReader defines read operations for customer data
type CustomerReader interface {
	// FindCustomerByID retrieves one of the owner's customers.
	FindCustomerByID(ctx context.Context, ownerID string, customerID string) (*domain.Customer, error)
}

// CustomerWriter defines write operations for customer data
type CustomerWriter interface {
	// SaveCustomer persists a new customer. A duplicate mobile number for the owner returns apperrors.ErrDuplicate.
	SaveCustomer(ctx context.Context, customer domain.Customer) error
}

// CustomerRepositoryFacade combines all customer-related repository interfaces
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
}
