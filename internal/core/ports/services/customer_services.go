package services

import (
	"context"

	"github.com/aadil-nv/invoise-management/internal/core/domain"
	"github.com/aadil-nv/invoise-management/internal/dto"
)

// CustomerReaderSvc defines read operations for customer data
type CustomerReaderSvc interface {
	GetCustomer(ctx context.Context, ownerID string, customerID string) (*domain.Customer, error)
}

// CustomerWriterSvc defines write operations for customer data
type CustomerWriterSvc interface {
	CreateCustomer(ctx context.Context, ownerID string, req dto.CreateCustomerRequest) (*domain.Customer, error)
}

// CustomerSvcFacade combines all customer-related service interfaces
type CustomerSvcFacade interface {
	CustomerReaderSvc
	CustomerWriterSvc
}
