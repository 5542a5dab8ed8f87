package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/aadil-nv/invoise-management/internal/apperrors"
	"github.com/aadil-nv/invoise-management/internal/core/domain"
	portsrepo "github.com/aadil-nv/invoise-management/internal/core/ports/repositories"
	portssvc "github.com/aadil-nv/invoise-management/internal/core/ports/services"
	"github.com/aadil-nv/invoise-management/internal/dto"
)

type customerService struct {
	BaseService
	customerRepo portsrepo.CustomerRepositoryFacade
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customerRepo portsrepo.CustomerRepositoryFacade) portssvc.CustomerSvcFacade {
	return &customerService{customerRepo: customerRepo}
}

var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

func (s *customerService) CreateCustomer(ctx context.Context, ownerID string, req dto.CreateCustomerRequest) (*domain.Customer, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	name := strings.TrimSpace(req.Name)
	mobile := strings.TrimSpace(req.Mobile)
	if name == "" || mobile == "" {
		return nil, fmt.Errorf("%w: customer name and mobile are required", apperrors.ErrValidation)
	}

	now := s.Now()
	customer := domain.Customer{
		CustomerID:  uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Mobile:      mobile,
		AuditFields: domain.NewAuditFields(ownerID, now),
	}

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save customer", slog.String("customer_id", customer.CustomerID))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, ownerID string, customerID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, ownerID, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
		}
		return nil, fmt.Errorf("failed to get customer %s: %w", customerID, err)
	}
	return customer, nil
}
