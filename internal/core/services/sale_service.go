package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aadil-nv/invoise-management/internal/apperrors"
	"github.com/aadil-nv/invoise-management/internal/core/domain"
	portsrepo "github.com/aadil-nv/invoise-management/internal/core/ports/repositories"
	portssvc "github.com/aadil-nv/invoise-management/internal/core/ports/services"
	"github.com/aadil-nv/invoise-management/internal/dto"
)

// saleService records sales and keeps product stock consistent with them.
type saleService struct {
	BaseService
	saleRepo            portsrepo.SaleRepositoryWithTx
	customerRepo        portsrepo.CustomerReader
	productRepo         portsrepo.ProductReader
	deleteRestoresStock bool
}

// SaleServiceOption is a functional option for configuring the sale service
type SaleServiceOption func(*saleService)

// WithDeleteRestoresStock makes DeleteSale return the sale's items to stock.
func WithDeleteRestoresStock(restore bool) SaleServiceOption {
	return func(s *saleService) {
		s.deleteRestoresStock = restore
	}
}

// WithRelatedRecords makes GetSale and ListSales attach the current product
// of every line and the sale's customer.
func WithRelatedRecords(productRepo portsrepo.ProductReader) SaleServiceOption {
	return func(s *saleService) {
		s.productRepo = productRepo
	}
}

// WithSaleClock overrides the time source used for sale dates and audit fields.
func WithSaleClock(clock func() time.Time) SaleServiceOption {
	return func(s *saleService) {
		s.Clock = clock
	}
}

// NewSaleService creates a new SaleService.
func NewSaleService(saleRepo portsrepo.SaleRepositoryWithTx, customerRepo portsrepo.CustomerReader, options ...SaleServiceOption) portssvc.SaleSvcFacade {
	svc := &saleService{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure saleService implements the portssvc.SaleSvcFacade interface
var _ portssvc.SaleSvcFacade = (*saleService)(nil)

// CreateSale validates every line item against locked stock before deducting any of it.
func (s *saleService) CreateSale(ctx context.Context, ownerID string, req dto.CreateSaleRequest) (*domain.Sale, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	items := dto.ToSaleItems(req.Products)
	if err := validateItems(items); err != nil {
		return nil, err
	}
	if !req.PaymentMethod.IsValid() {
		return nil, fmt.Errorf("%w: invalid payment method %q", apperrors.ErrValidation, req.PaymentMethod)
	}
	if req.TotalPrice != nil && !domain.AmountInRange(*req.TotalPrice) {
		return nil, errTotalOutOfRange
	}

	var customerID *string
	if req.CustomerID != nil && *req.CustomerID != "" {
		if err := s.ensureCustomer(ctx, ownerID, *req.CustomerID); err != nil {
			return nil, err
		}
		id := *req.CustomerID
		customerID = &id
	}

	now := s.Now()
	sale := domain.Sale{
		SaleID:        uuid.NewString(),
		OwnerID:       ownerID,
		Items:         items,
		CustomerID:    customerID,
		PaymentMethod: req.PaymentMethod,
		SaleDate:      now,
		IsPaid:        req.IsPaid != nil && *req.IsPaid,
		IsActive:      true,
		AuditFields:   domain.NewAuditFields(ownerID, now),
	}
	if req.Date != nil && !req.Date.IsZero() {
		sale.SaleDate = req.Date.UTC()
	}

	err := s.saleRepo.RunInStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		products, err := tx.FindProductsForUpdate(ctx, ownerID, lockOrder(items))
		if err != nil {
			return fmt.Errorf("failed to lock products: %w", err)
		}

		deltas, err := planCreate(products, items)
		if err != nil {
			return err
		}

		if req.TotalPrice != nil {
			sale.TotalPrice = *req.TotalPrice
		} else {
			sale.TotalPrice = saleTotal(products, items)
			if !domain.AmountInRange(sale.TotalPrice) {
				return errTotalOutOfRange
			}
		}
		s.LogDebug(ctx, "Stock deltas planned", slog.String("sale_id", sale.SaleID), slog.Any("deltas", deltas))

		if err := tx.ApplyStockDeltas(ctx, ownerID, deltas, ownerID, now); err != nil {
			return err
		}
		return tx.SaveSale(ctx, sale)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create sale", slog.String("sale_id", sale.SaleID))
		return nil, err
	}

	s.LogInfo(ctx, "Sale created", slog.String("sale_id", sale.SaleID), slog.Int("line_items", len(items)))
	return &sale, nil
}

// UpdateSale returns the previous line items to stock and deducts the new ones in one unit.
// If any new item fails validation the sale and all stock are left as they were.
func (s *saleService) UpdateSale(ctx context.Context, ownerID string, saleID string, req dto.UpdateSaleRequest) (*domain.Sale, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	items := dto.ToSaleItems(req.Products)
	if err := validateItems(items); err != nil {
		return nil, err
	}
	if req.PaymentMethod != nil && !req.PaymentMethod.IsValid() {
		return nil, fmt.Errorf("%w: invalid payment method %q", apperrors.ErrValidation, *req.PaymentMethod)
	}
	if req.TotalPrice != nil && !domain.AmountInRange(*req.TotalPrice) {
		return nil, errTotalOutOfRange
	}

	now := s.Now()
	var updated domain.Sale

	err := s.saleRepo.RunInStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		existing, err := tx.FindSaleForUpdate(ctx, ownerID, saleID)
		if err != nil {
			return saleLookupError(err, saleID)
		}

		products, err := tx.FindProductsForUpdate(ctx, ownerID, lockOrder(existing.Items, items))
		if err != nil {
			return fmt.Errorf("failed to lock products: %w", err)
		}

		deltas, err := planUpdate(products, existing.Items, items)
		if err != nil {
			return err
		}
		s.LogDebug(ctx, "Stock deltas planned", slog.String("sale_id", saleID), slog.Any("deltas", deltas))
		if err := tx.ApplyStockDeltas(ctx, ownerID, deltas, ownerID, now); err != nil {
			return err
		}

		updated = *existing
		updated.Items = items
		if req.PaymentMethod != nil {
			updated.PaymentMethod = *req.PaymentMethod
		}
		if req.TotalPrice != nil {
			updated.TotalPrice = *req.TotalPrice
		}
		if req.IsPaid != nil {
			updated.IsPaid = *req.IsPaid
		}
		updated.Touch(ownerID, now)

		return tx.UpdateSale(ctx, updated)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update sale", slog.String("sale_id", saleID))
		return nil, err
	}

	s.LogInfo(ctx, "Sale updated", slog.String("sale_id", saleID), slog.Int("line_items", len(items)))
	return &updated, nil
}

// SetPaymentStatus records whether the sale has been paid.
func (s *saleService) SetPaymentStatus(ctx context.Context, ownerID string, saleID string, isPaid bool) (*domain.Sale, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	sale, err := s.saleRepo.UpdateSalePaid(ctx, ownerID, saleID, isPaid, ownerID, s.Now())
	if err != nil {
		err = saleLookupError(err, saleID)
		s.logFailure(ctx, err, "Failed to update sale payment status", slog.String("sale_id", saleID))
		return nil, err
	}
	return sale, nil
}

// SetActiveStatus marks the sale as active or voided. Stock is not adjusted.
func (s *saleService) SetActiveStatus(ctx context.Context, ownerID string, saleID string, isActive bool) (*domain.Sale, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	sale, err := s.saleRepo.UpdateSaleActive(ctx, ownerID, saleID, isActive, ownerID, s.Now())
	if err != nil {
		err = saleLookupError(err, saleID)
		s.logFailure(ctx, err, "Failed to update sale active status", slog.String("sale_id", saleID))
		return nil, err
	}
	return sale, nil
}

// DeleteSale removes the sale. Its items go back to stock only when the
// service was built WithDeleteRestoresStock(true).
func (s *saleService) DeleteSale(ctx context.Context, ownerID string, saleID string) error {
	if ownerID == "" {
		return apperrors.ErrUnauthenticated
	}

	now := s.Now()
	err := s.saleRepo.RunInStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		existing, err := tx.FindSaleForUpdate(ctx, ownerID, saleID)
		if err != nil {
			return saleLookupError(err, saleID)
		}

		if s.deleteRestoresStock {
			products, err := tx.FindProductsForUpdate(ctx, ownerID, lockOrder(existing.Items))
			if err != nil {
				return fmt.Errorf("failed to lock products: %w", err)
			}
			deltas, err := planRestore(products, existing.Items)
			if err != nil {
				return err
			}
			if err := tx.ApplyStockDeltas(ctx, ownerID, deltas, ownerID, now); err != nil {
				return err
			}
		}

		if err := tx.DeleteSale(ctx, ownerID, saleID); err != nil {
			return saleLookupError(err, saleID)
		}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete sale", slog.String("sale_id", saleID))
		return err
	}

	s.LogInfo(ctx, "Sale deleted", slog.String("sale_id", saleID), slog.Bool("stock_restored", s.deleteRestoresStock))
	return nil
}

// GetSale retrieves one of the owner's sales.
func (s *saleService) GetSale(ctx context.Context, ownerID string, saleID string) (*domain.Sale, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	sale, err := s.saleRepo.FindSaleByID(ctx, ownerID, saleID)
	if err != nil {
		return nil, saleLookupError(err, saleID)
	}
	if s.productRepo == nil {
		return sale, nil
	}

	products := make(map[string]domain.Product)
	for _, id := range sale.ProductIDs() {
		product, err := s.productRepo.FindProductByID(ctx, ownerID, id)
		if errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			s.LogError(ctx, err, "Failed to load sale product", slog.String("sale_id", saleID), slog.String("product_id", id))
			return nil, fmt.Errorf("failed to load product %s: %w", id, err)
		}
		products[id] = *product
	}
	sales := []domain.Sale{*sale}
	if err := s.attachRelated(ctx, ownerID, sales, products); err != nil {
		return nil, err
	}
	return &sales[0], nil
}

// ListSales retrieves the owner's sales, newest sale date first.
func (s *saleService) ListSales(ctx context.Context, ownerID string) ([]domain.Sale, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	sales, err := s.saleRepo.ListSales(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sales")
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	if sales == nil {
		return []domain.Sale{}, nil
	}
	if s.productRepo == nil || len(sales) == 0 {
		return sales, nil
	}

	owned, err := s.productRepo.ListProducts(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load products for sales")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	products := make(map[string]domain.Product, len(owned))
	for _, p := range owned {
		products[p.ProductID] = p
	}
	if err := s.attachRelated(ctx, ownerID, sales, products); err != nil {
		return nil, err
	}
	return sales, nil
}

// attachRelated sets LineProducts and Customer on every sale. Products and
// customers removed since the sale are left out.
func (s *saleService) attachRelated(ctx context.Context, ownerID string, sales []domain.Sale, products map[string]domain.Product) error {
	customers := make(map[string]*domain.Customer)
	for i := range sales {
		sale := &sales[i]

		sale.LineProducts = make(map[string]domain.Product)
		for _, id := range sale.ProductIDs() {
			if p, ok := products[id]; ok {
				sale.LineProducts[id] = p
			}
		}

		if sale.IsCashSale() {
			continue
		}
		id := *sale.CustomerID
		customer, seen := customers[id]
		if !seen {
			found, err := s.customerRepo.FindCustomerByID(ctx, ownerID, id)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				s.LogError(ctx, err, "Failed to load sale customer", slog.String("customer_id", id))
				return fmt.Errorf("failed to load customer %s: %w", id, err)
			}
			customer = found
			customers[id] = found
		}
		sale.Customer = customer
	}
	return nil
}

func (s *saleService) ensureCustomer(ctx context.Context, ownerID, customerID string) error {
	_, err := s.customerRepo.FindCustomerByID(ctx, ownerID, customerID)
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
	}
	s.LogError(ctx, err, "Failed to look up customer", slog.String("customer_id", customerID))
	return fmt.Errorf("failed to look up customer %s: %w", customerID, err)
}

// logFailure logs rejected requests at warn level and everything else at error level.
func (s *saleService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrStockConflict) || errors.Is(err, apperrors.ErrNotFound) {
		s.LogWarn(ctx, err, msg, keyvals...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

// saleLookupError rewrites a repository not-found into ErrSaleNotFound.
func saleLookupError(err error, saleID string) error {
	if errors.Is(err, ErrSaleNotFound) || errors.Is(err, ErrProductNotFound) {
		return err
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrSaleNotFound, saleID)
	}
	return err
}
