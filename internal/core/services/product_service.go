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

type productService struct {
	BaseService
	productRepo portsrepo.ProductRepositoryFacade
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade) portssvc.ProductSvcFacade {
	return &productService{productRepo: productRepo}
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

func (s *productService) CreateProduct(ctx context.Context, ownerID string, req dto.CreateProductRequest) (*domain.Product, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", apperrors.ErrValidation)
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be zero or more", apperrors.ErrValidation)
	}
	if !domain.AmountInRange(req.Price) {
		return nil, errPriceOutOfRange
	}

	now := s.Now()
	product := domain.Product{
		ProductID:   uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Quantity:    *req.Quantity,
		Price:       req.Price,
		IsListed:    req.IsListed == nil || *req.IsListed,
		AuditFields: domain.NewAuditFields(ownerID, now),
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, err, "Duplicate product name", slog.String("name", name))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save product", slog.String("product_id", product.ProductID))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.LogInfo(ctx, "Product created", slog.String("product_id", product.ProductID))
	return &product, nil
}

func (s *productService) GetProduct(ctx context.Context, ownerID string, productID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, ownerID, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	products, err := s.productRepo.ListProducts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		return []domain.Product{}, nil
	}
	return products, nil
}
