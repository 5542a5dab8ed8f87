// Package memory keeps products, customers and sales in process memory.
// A single mutex serializes stock units of work, which gives the same
// all-or-nothing behaviour as the database drivers for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aadil-nv/invoise-management/internal/apperrors"
	"github.com/aadil-nv/invoise-management/internal/core/domain"
	portsrepo "github.com/aadil-nv/invoise-management/internal/core/ports/repositories"
)

// Store implements every repository port on plain maps.
type Store struct {
	mu        sync.Mutex
	products  map[string]domain.Product
	customers map[string]domain.Customer
	sales     map[string]domain.Sale
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]domain.Product),
		customers: make(map[string]domain.Customer),
		sales:     make(map[string]domain.Sale),
	}
}

var (
	_ portsrepo.ProductRepositoryFacade  = (*Store)(nil)
	_ portsrepo.CustomerRepositoryFacade = (*Store)(nil)
	_ portsrepo.SaleRepositoryWithTx     = (*Store)(nil)
)

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ProductRepo:  store,
		CustomerRepo: store,
		SaleRepo:     store,
	}
}

func (s *Store) SaveProduct(_ context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ProductID]; ok {
		return fmt.Errorf("%w: product %s already exists", apperrors.ErrDuplicate, product.ProductID)
	}
	for _, p := range s.products {
		if p.OwnerID == product.OwnerID && p.Name == product.Name {
			return fmt.Errorf("%w: product named %q already exists", apperrors.ErrDuplicate, product.Name)
		}
	}
	if product.Quantity < 0 || product.Price.IsNegative() {
		return fmt.Errorf("%w: product quantity and price cannot be negative", apperrors.ErrValidation)
	}
	s.products[product.ProductID] = product
	return nil
}

func (s *Store) FindProductByID(_ context.Context, ownerID string, productID string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok || p.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListProducts(_ context.Context, ownerID string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := []domain.Product{}
	for _, p := range s.products {
		if p.OwnerID == ownerID {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (s *Store) SaveCustomer(_ context.Context, customer domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.customers {
		if c.OwnerID == customer.OwnerID && c.Mobile == customer.Mobile {
			return fmt.Errorf("%w: customer with mobile %s already exists", apperrors.ErrDuplicate, customer.Mobile)
		}
	}
	s.customers[customer.CustomerID] = customer
	return nil
}

func (s *Store) FindCustomerByID(_ context.Context, ownerID string, customerID string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[customerID]
	if !ok || c.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (s *Store) FindSaleByID(_ context.Context, ownerID string, saleID string) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sales[saleID]
	if !ok || sale.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	sale = cloneSale(sale)
	return &sale, nil
}

func (s *Store) ListSales(_ context.Context, ownerID string) ([]domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sales := []domain.Sale{}
	for _, sale := range s.sales {
		if sale.OwnerID == ownerID {
			sales = append(sales, cloneSale(sale))
		}
	}
	sort.SliceStable(sales, func(i, j int) bool {
		if !sales[i].SaleDate.Equal(sales[j].SaleDate) {
			return sales[i].SaleDate.After(sales[j].SaleDate)
		}
		return sales[i].CreatedAt.After(sales[j].CreatedAt)
	})
	return sales, nil
}

func (s *Store) UpdateSalePaid(ctx context.Context, ownerID string, saleID string, isPaid bool, userID string, now time.Time) (*domain.Sale, error) {
	return s.updateSale(ownerID, saleID, userID, now, func(sale *domain.Sale) { sale.IsPaid = isPaid })
}

func (s *Store) UpdateSaleActive(ctx context.Context, ownerID string, saleID string, isActive bool, userID string, now time.Time) (*domain.Sale, error) {
	return s.updateSale(ownerID, saleID, userID, now, func(sale *domain.Sale) { sale.IsActive = isActive })
}

func (s *Store) updateSale(ownerID, saleID, userID string, now time.Time, change func(*domain.Sale)) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sales[saleID]
	if !ok || sale.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	change(&sale)
	sale.Touch(userID, now)
	s.sales[saleID] = sale

	out := cloneSale(sale)
	return &out, nil
}

// RunInStockTx holds the store lock for the whole of fn and publishes fn's
// writes only when it succeeds.
func (s *Store) RunInStockTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.StockTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := newStagedTx(s)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.publish()
	return nil
}

func cloneSale(sale domain.Sale) domain.Sale {
	items := make([]domain.SaleItem, len(sale.Items))
	copy(items, sale.Items)
	sale.Items = items
	if sale.CustomerID != nil {
		id := *sale.CustomerID
		sale.CustomerID = &id
	}
	sale.LineProducts = nil
	sale.Customer = nil
	return sale
}
