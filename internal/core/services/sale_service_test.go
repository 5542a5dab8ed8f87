package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aadil-nv/invoise-management/internal/apperrors"
	"github.com/aadil-nv/invoise-management/internal/core/domain"
	portsrepo "github.com/aadil-nv/invoise-management/internal/core/ports/repositories"
	portssvc "github.com/aadil-nv/invoise-management/internal/core/ports/services"
	"github.com/aadil-nv/invoise-management/internal/core/services"
	"github.com/aadil-nv/invoise-management/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock StockTx ---
type MockStockTx struct {
	mock.Mock
}

var _ portsrepo.StockTx = (*MockStockTx)(nil)

func (m *MockStockTx) FindProductsForUpdate(ctx context.Context, ownerID string, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, ownerID, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockStockTx) ApplyStockDeltas(ctx context.Context, ownerID string, deltas map[string]int64, userID string, now time.Time) error {
	args := m.Called(ctx, ownerID, deltas, userID, now)
	return args.Error(0)
}

func (m *MockStockTx) FindSaleForUpdate(ctx context.Context, ownerID string, saleID string) (*domain.Sale, error) {
	args := m.Called(ctx, ownerID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockStockTx) SaveSale(ctx context.Context, sale domain.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockStockTx) UpdateSale(ctx context.Context, sale domain.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockStockTx) DeleteSale(ctx context.Context, ownerID string, saleID string) error {
	args := m.Called(ctx, ownerID, saleID)
	return args.Error(0)
}

// --- Mock SaleRepository ---
type MockSaleRepository struct {
	mock.Mock
	tx *MockStockTx
}

var _ portsrepo.SaleRepositoryWithTx = (*MockSaleRepository)(nil)

func (m *MockSaleRepository) FindSaleByID(ctx context.Context, ownerID string, saleID string) (*domain.Sale, error) {
	args := m.Called(ctx, ownerID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockSaleRepository) ListSales(ctx context.Context, ownerID string) ([]domain.Sale, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Sale), args.Error(1)
}

func (m *MockSaleRepository) UpdateSalePaid(ctx context.Context, ownerID string, saleID string, isPaid bool, userID string, now time.Time) (*domain.Sale, error) {
	args := m.Called(ctx, ownerID, saleID, isPaid, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockSaleRepository) UpdateSaleActive(ctx context.Context, ownerID string, saleID string, isActive bool, userID string, now time.Time) (*domain.Sale, error) {
	args := m.Called(ctx, ownerID, saleID, isActive, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

// RunInStockTx hands the mocked StockTx to fn, unless the expectation returns an error.
func (m *MockSaleRepository) RunInStockTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.StockTx) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m.tx)
}

// --- Mock CustomerReader ---
type MockCustomerReader struct {
	mock.Mock
}

var _ portsrepo.CustomerReader = (*MockCustomerReader)(nil)

func (m *MockCustomerReader) FindCustomerByID(ctx context.Context, ownerID string, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, ownerID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

// --- Test Suite ---
type SaleServiceTestSuite struct {
	suite.Suite
	mockSaleRepo     *MockSaleRepository
	mockTx           *MockStockTx
	mockCustomerRepo *MockCustomerReader
	service          portssvc.SaleSvcFacade
	ownerID          string
	now              time.Time
	pen              domain.Product
	ink              domain.Product
}

func (suite *SaleServiceTestSuite) SetupTest() {
	suite.mockTx = new(MockStockTx)
	suite.mockSaleRepo = &MockSaleRepository{tx: suite.mockTx}
	suite.mockCustomerRepo = new(MockCustomerReader)
	suite.now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewSaleService(suite.mockSaleRepo, suite.mockCustomerRepo,
		services.WithSaleClock(func() time.Time { return suite.now }))

	suite.ownerID = uuid.NewString()
	suite.pen = domain.Product{ProductID: "pen", OwnerID: suite.ownerID, Name: "Pen", Quantity: 10, Price: decimal.NewFromInt(5), IsListed: true}
	suite.ink = domain.Product{ProductID: "ink", OwnerID: suite.ownerID, Name: "Ink", Quantity: 2, Price: decimal.RequireFromString("7.5"), IsListed: true}
}

func TestSaleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SaleServiceTestSuite))
}

// --- CreateSale ---

func (suite *SaleServiceTestSuite) TestCreateSale_Success_DerivesTotal() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		Products:      []dto.SaleItemRequest{{ProductID: "pen", Quantity: 4}, {ProductID: "ink", Quantity: 2}},
		PaymentMethod: domain.PaymentCash,
	}

	suite.mockSaleRepo.On("RunInStockTx", ctx, mock.Anything).Return(nil).Once()
	suite.mockTx.On("FindProductsForUpdate", ctx, suite.ownerID, []string{"ink", "pen"}).
		Return(map[string]domain.Product{"pen": suite.pen, "ink": suite.ink}, nil).Once()
	suite.mockTx.On("ApplyStockDeltas", ctx, suite.ownerID, map[string]int64{"pen": -4, "ink": -2}, suite.ownerID, suite.now).Return(nil).Once()
	suite.mockTx.On("SaveSale", ctx, mock.AnythingOfType("domain.Sale")).Return(nil).Once()

	sale, err := suite.service.CreateSale(ctx, suite.ownerID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(sale)
	suite.NotEmpty(sale.SaleID)
	suite.Equal(suite.ownerID, sale.OwnerID)
	suite.Equal("35", sale.TotalPrice.String()) // 4*5 + 2*7.5
	suite.False(sale.IsPaid)
	suite.True(sale.IsActive)
	suite.Nil(sale.CustomerID)
	suite.Equal(suite.now, sale.SaleDate)
	suite.Equal([]domain.SaleItem{{ProductID: "pen", Quantity: 4}, {ProductID: "ink", Quantity: 2}}, sale.Items)

	suite.mockSaleRepo.AssertExpectations(suite.T())
	suite.mockTx.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestCreateSale_UsesSuppliedTotalAndPaidFlag() {
	ctx := context.Background()
	paid := true
	total := decimal.NewFromInt(18)
	req := dto.CreateSaleRequest{
		Products:      []dto.SaleItemRequest{{ProductID: "pen", Quantity: 4}},
		PaymentMethod: domain.PaymentUPI,
		TotalPrice:    &total,
		IsPaid:        &paid,
	}

	suite.mockSaleRepo.On("RunInStockTx", ctx, mock.Anything).Return(nil).Once()
	suite.mockTx.On("FindProductsForUpdate", ctx, suite.ownerID, []string{"pen"}).Return(map[string]domain.Product{"pen": suite.pen}, nil).Once()
	suite.mockTx.On("ApplyStockDeltas", ctx, suite.ownerID, map[string]int64{"pen": -4}, suite.ownerID, suite.now).Return(nil).Once()
	suite.mockTx.On("SaveSale", ctx, mock.MatchedBy(func(s domain.Sale) bool {
		return s.TotalPrice.Equal(total) && s.IsPaid
	})).Return(nil).Once()

	sale, err := suite.service.CreateSale(ctx, suite.ownerID, req)

	suite.Require().NoError(err)
	suite.True(sale.TotalPrice.Equal(total))
	suite.True(sale.IsPaid)
	suite.mockTx.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestCreateSale_InsufficientStock_NothingApplied() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		Products:      []dto.SaleItemRequest{{ProductID: "pen", Quantity: 1}, {ProductID: "ink", Quantity: 5}},
		PaymentMethod: domain.PaymentCash,
	}

	suite.mockSaleRepo.On("RunInStockTx", ctx, mock.Anything).Return(nil).Once()
	suite.mockTx.On("FindProductsForUpdate", ctx, suite.ownerID, []string{"ink", "pen"}).
		Return(map[string]domain.Product{"pen": suite.pen, "ink": suite.ink}, nil).Once()

	sale, err := suite.service.CreateSale(ctx, suite.ownerID, req)

	suite.Nil(sale)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStockConflict)
	suite.ErrorIs(err, services.ErrInsufficientStock)
	suite.EqualError(err, "Insufficient stock for product: Ink")

	var stockErr *services.StockError
	suite.Require().True(errors.As(err, &stockErr))
	suite.Equal(int64(5), stockErr.Requested)
	suite.Equal(int64(2), stockErr.Available)

	suite.mockTx.AssertNotCalled(suite.T(), "ApplyStockDeltas", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockTx.AssertNotCalled(suite.T(), "SaveSale", mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestCreateSale_DuplicateProductLinesAreSummed() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		Products:      []dto.SaleItemRequest{{ProductID: "ink", Quantity: 1}, {ProductID: "ink", Quantity: 2}},
		PaymentMethod: domain.PaymentCash,
	}

	suite.mockSaleRepo.On("RunInStockTx", ctx, mock.Anything).Return(nil).Once()
	suite.mockTx.On("FindProductsForUpdate", ctx, suite.ownerID, []string{"ink"}).Return(map[string]domain.Product{"ink": suite.ink}, nil).Once()

	_, err := suite.service.CreateSale(ctx, suite.ownerID, req)

	suite.ErrorIs(err, services.ErrInsufficientStock)
}

func (suite *SaleServiceTestSuite) TestCreateSale_ProductNotFound() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		Products:      []dto.SaleItemRequest{{ProductID: "ghost", Quantity: 1}},
		PaymentMethod: domain.PaymentCash,
	}

	suite.mockSaleRepo.On("RunInStockTx", ctx, mock.Anything).Return(nil).Once()
	suite.mockTx.On("FindProductsForUpdate", ctx, suite.ownerID, []string{"ghost"}).Return(map[string]domain.Product{}, nil).Once()

	_, err := suite.service.CreateSale(ctx, suite.ownerID, req)

	suite.ErrorIs(err, services.ErrProductNotFound)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), "ghost")
}

func (suite *SaleServiceTestSuite) TestCreateSale_ValidationFailures() {
	ctx := context.Background()
	negative := decimal.NewFromInt(-1)

	cases := map[string]dto.CreateSaleRequest{
		"no items":        {PaymentMethod: domain.PaymentCash},
		"zero quantity":   {Products: []dto.SaleItemRequest{{ProductID: "pen", Quantity: 0}}, PaymentMethod: domain.PaymentCash},
		"empty product":   {Products: []dto.SaleItemRequest{{ProductID: "", Quantity: 1}}, PaymentMethod: domain.PaymentCash},
		"bad payment":     {Products: []dto.SaleItemRequest{{ProductID: "pen", Quantity: 1}}, PaymentMethod: "Barter"},
		"negative amount": {Products: []dto.SaleItemRequest{{ProductID: "pen", Quantity: 1}}, PaymentMethod: domain.PaymentCash, TotalPrice: &negative},
	}

	for name, req := range cases {
		suite.Run(name, func() {
			_, err := suite.service.CreateSale(ctx, suite.ownerID, req)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "RunInStockTx", mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestCreateSale_UnknownCustomer() {
	ctx := context.Background()
	customerID := "cust-404"
	req := dto.CreateSaleRequest{
		Products:      []dto.SaleItemRequest{{ProductID: "pen", Quantity: 1}},
		CustomerID:    &customerID,
		PaymentMethod: domain.PaymentCreditCard,
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateSale(ctx, suite.ownerID, req)

	suite.ErrorIs(err, services.ErrCustomerNotFound)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "RunInStockTx", mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestCreateSale_Unauthenticated() {
	_, err := suite.service.CreateSale(context.Background(), "", dto.CreateSaleRequest{})
	suite.ErrorIs(err, apperrors.ErrUnauthenticated)
}

// --- UpdateSale ---

func (suite *SaleServiceTestSuite) TestUpdateSale_AppliesNetDelta() {
	ctx := context.Background()
	existing := &domain.Sale{
		SaleID:        "sale-1",
		OwnerID:       suite.ownerID,
		Items:         []domain.SaleItem{{ProductID: "pen", Quantity: 4}},
		PaymentMethod: domain.PaymentCash,
		TotalPrice:    decimal.NewFromInt(20),
		IsActive:      true,
	}
	pen := suite.pen
	pen.Quantity = 6 // after the original sale
	method := domain.PaymentOnline
	req := dto.UpdateSaleRequest{
		Products:      []dto.SaleItemRequest{{ProductID: "pen", Quantity: 7}},
		PaymentMethod: &method,
	}

	suite.mockSaleRepo.On("RunInStockTx", ctx, mock.Anything).Return(nil).Once()
	suite.mockTx.On("FindSaleForUpdate", ctx, suite.ownerID, "sale-1").Return(existing, nil).Once()
	suite.mockTx.On("FindProductsForUpdate", ctx, suite.ownerID, []string{"pen"}).Return(map[string]domain.Product{"pen": pen}, nil).Once()
	suite.mockTx.On("ApplyStockDeltas", ctx, suite.ownerID, map[string]int64{"pen": -3}, suite.ownerID, suite.now).Return(nil).Once()
	suite.mockTx.On("UpdateSale", ctx, mock.AnythingOfType("domain.Sale")).Return(nil).Once()

	sale, err := suite.service.UpdateSale(ctx, suite.ownerID, "sale-1", req)

	suite.Require().NoError(err)
	suite.Equal([]domain.SaleItem{{ProductID: "pen", Quantity: 7}}, sale.Items)
	suite.Equal(domain.PaymentOnline, sale.PaymentMethod)
	suite.True(sale.TotalPrice.Equal(decimal.NewFromInt(20)), "total is kept when not supplied")
	suite.Equal(suite.now, sale.LastUpdatedAt)
	suite.mockTx.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestUpdateSale_UnlistedProductRejected() {
	ctx := context.Background()
	existing := &domain.Sale{SaleID: "sale-1", OwnerID: suite.ownerID, Items: []domain.SaleItem{{ProductID: "pen", Quantity: 1}}}
	hidden := domain.Product{ProductID: "hidden", OwnerID: suite.ownerID, Name: "Hidden", Quantity: 50, IsListed: false}
	req := dto.UpdateSaleRequest{Products: []dto.SaleItemRequest{{ProductID: "hidden", Quantity: 1}}}

	suite.mockSaleRepo.On("RunInStockTx", ctx, mock.Anything).Return(nil).Once()
	suite.mockTx.On("FindSaleForUpdate", ctx, suite.ownerID, "sale-1").Return(existing, nil).Once()
	suite.mockTx.On("FindProductsForUpdate", ctx, suite.ownerID, []string{"hidden", "pen"}).
		Return(map[string]domain.Product{"pen": suite.pen, "hidden": hidden}, nil).Once()

	_, err := suite.service.UpdateSale(ctx, suite.ownerID, "sale-1", req)

	suite.ErrorIs(err, services.ErrProductNotListed)
	suite.ErrorIs(err, apperrors.ErrStockConflict)
	suite.EqualError(err, `Product "Hidden" is not listed and cannot be used in sales.`)
	suite.mockTx.AssertNotCalled(suite.T(), "ApplyStockDeltas", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestUpdateSale_NotFound() {
	ctx := context.Background()
	req := dto.UpdateSaleRequest{Products: []dto.SaleItemRequest{{ProductID: "pen", Quantity: 1}}}

	suite.mockSaleRepo.On("RunInStockTx", ctx, mock.Anything).Return(nil).Once()
	suite.mockTx.On("FindSaleForUpdate", ctx, suite.ownerID, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UpdateSale(ctx, suite.ownerID, "missing", req)

	suite.ErrorIs(err, services.ErrSaleNotFound)
}

// --- Status toggles ---

func (suite *SaleServiceTestSuite) TestSetPaymentStatus() {
	ctx := context.Background()
	updated := &domain.Sale{SaleID: "sale-1", OwnerID: suite.ownerID, IsPaid: true}
	suite.mockSaleRepo.On("UpdateSalePaid", ctx, suite.ownerID, "sale-1", true, suite.ownerID, suite.now).Return(updated, nil).Once()

	sale, err := suite.service.SetPaymentStatus(ctx, suite.ownerID, "sale-1", true)

	suite.Require().NoError(err)
	suite.True(sale.IsPaid)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "RunInStockTx", mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestSetActiveStatus_NotFound() {
	ctx := context.Background()
	suite.mockSaleRepo.On("UpdateSaleActive", ctx, suite.ownerID, "sale-1", false, suite.ownerID, suite.now).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.SetActiveStatus(ctx, suite.ownerID, "sale-1", false)

	suite.ErrorIs(err, services.ErrSaleNotFound)
}

// --- DeleteSale ---

func (suite *SaleServiceTestSuite) TestDeleteSale_DoesNotRestoreByDefault() {
	ctx := context.Background()
	existing := &domain.Sale{SaleID: "sale-1", OwnerID: suite.ownerID, Items: []domain.SaleItem{{ProductID: "pen", Quantity: 3}}}

	suite.mockSaleRepo.On("RunInStockTx", ctx, mock.Anything).Return(nil).Once()
	suite.mockTx.On("FindSaleForUpdate", ctx, suite.ownerID, "sale-1").Return(existing, nil).Once()
	suite.mockTx.On("DeleteSale", ctx, suite.ownerID, "sale-1").Return(nil).Once()

	err := suite.service.DeleteSale(ctx, suite.ownerID, "sale-1")

	suite.Require().NoError(err)
	suite.mockTx.AssertNotCalled(suite.T(), "ApplyStockDeltas", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockTx.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestDeleteSale_RestoresWhenEnabled() {
	ctx := context.Background()
	svc := services.NewSaleService(suite.mockSaleRepo, suite.mockCustomerRepo,
		services.WithSaleClock(func() time.Time { return suite.now }),
		services.WithDeleteRestoresStock(true))
	existing := &domain.Sale{SaleID: "sale-1", OwnerID: suite.ownerID, Items: []domain.SaleItem{{ProductID: "pen", Quantity: 3}, {ProductID: "gone", Quantity: 1}}}

	suite.mockSaleRepo.On("RunInStockTx", ctx, mock.Anything).Return(nil).Once()
	suite.mockTx.On("FindSaleForUpdate", ctx, suite.ownerID, "sale-1").Return(existing, nil).Once()
	suite.mockTx.On("FindProductsForUpdate", ctx, suite.ownerID, []string{"gone", "pen"}).Return(map[string]domain.Product{"pen": suite.pen}, nil).Once()
	suite.mockTx.On("ApplyStockDeltas", ctx, suite.ownerID, map[string]int64{"pen": 3}, suite.ownerID, suite.now).Return(nil).Once()
	suite.mockTx.On("DeleteSale", ctx, suite.ownerID, "sale-1").Return(nil).Once()

	suite.Require().NoError(svc.DeleteSale(ctx, suite.ownerID, "sale-1"))
	suite.mockTx.AssertExpectations(suite.T())
}

// --- Reads ---

func (suite *SaleServiceTestSuite) TestGetSale_NotFound() {
	ctx := context.Background()
	suite.mockSaleRepo.On("FindSaleByID", ctx, suite.ownerID, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetSale(ctx, suite.ownerID, "nope")

	suite.ErrorIs(err, services.ErrSaleNotFound)
}

func (suite *SaleServiceTestSuite) TestListSales_NilBecomesEmpty() {
	ctx := context.Background()
	suite.mockSaleRepo.On("ListSales", ctx, suite.ownerID).Return(nil, nil).Once()

	sales, err := suite.service.ListSales(ctx, suite.ownerID)

	suite.Require().NoError(err)
	suite.NotNil(sales)
	suite.Empty(sales)
}

func (suite *SaleServiceTestSuite) TestRunInStockTxFailure_IsReturned() {
	ctx := context.Background()
	dbErr := errors.New("connection reset")
	req := dto.CreateSaleRequest{Products: []dto.SaleItemRequest{{ProductID: "pen", Quantity: 1}}, PaymentMethod: domain.PaymentCash}
	suite.mockSaleRepo.On("RunInStockTx", ctx, mock.Anything).Return(dbErr).Once()

	_, err := suite.service.CreateSale(ctx, suite.ownerID, req)

	suite.ErrorIs(err, dbErr)
}
