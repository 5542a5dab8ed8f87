package services_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aadil-nv/invoise-management/internal/apperrors"
	"github.com/aadil-nv/invoise-management/internal/core/domain"
	portssvc "github.com/aadil-nv/invoise-management/internal/core/ports/services"
	"github.com/aadil-nv/invoise-management/internal/core/services"
	"github.com/aadil-nv/invoise-management/internal/dto"
	"github.com/aadil-nv/invoise-management/internal/middleware"
	"github.com/aadil-nv/invoise-management/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "owner-1"

type stockFixture struct {
	store   *memory.Store
	sales   portssvc.SaleSvcFacade
	initial map[string]int64
}

func newStockFixture(t *testing.T, stock map[string]int64, opts ...services.SaleServiceOption) *stockFixture {
	t.Helper()
	store := memory.NewStore()
	now := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	for name, qty := range stock {
		require.NoError(t, store.SaveProduct(context.Background(), domain.Product{
			ProductID:   name,
			OwnerID:     owner,
			Name:        name,
			Quantity:    qty,
			Price:       decimal.NewFromInt(2),
			IsListed:    true,
			AuditFields: domain.NewAuditFields(owner, now),
		}))
	}
	initial := make(map[string]int64, len(stock))
	for k, v := range stock {
		initial[k] = v
	}
	return &stockFixture{
		store:   store,
		sales:   services.NewSaleService(store, store, opts...),
		initial: initial,
	}
}

func (f *stockFixture) qty(t *testing.T, productID string) int64 {
	t.Helper()
	p, err := f.store.FindProductByID(context.Background(), owner, productID)
	require.NoError(t, err)
	return p.Quantity
}

// assertConserved checks that on-hand stock plus everything recorded in
// persisted sales equals the initial stock for every product.
func (f *stockFixture) assertConserved(t *testing.T) {
	t.Helper()
	sales, err := f.store.ListSales(context.Background(), owner)
	require.NoError(t, err)

	sold := make(map[string]int64)
	for _, s := range sales {
		for _, item := range s.Items {
			sold[item.ProductID] += item.Quantity
		}
	}
	for id, initial := range f.initial {
		q := f.qty(t, id)
		assert.GreaterOrEqual(t, q, int64(0), "product %s went negative", id)
		assert.Equal(t, initial, q+sold[id], "stock of %s is not conserved", id)
	}
}

func items(pairs ...any) []dto.SaleItemRequest {
	out := make([]dto.SaleItemRequest, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, dto.SaleItemRequest{ProductID: pairs[i].(string), Quantity: int64(pairs[i+1].(int))})
	}
	return out
}

func TestStock_CreateThenUpdateScenario(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"P": 10})
	ctx := context.Background()

	sale, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("P", 4), PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)
	assert.Equal(t, int64(6), f.qty(t, "P"))

	_, err = f.sales.UpdateSale(ctx, owner, sale.SaleID, dto.UpdateSaleRequest{Products: items("P", 7)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.qty(t, "P"))

	f.assertConserved(t)
}

func TestStock_InsufficientStockLeavesNoTrace(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"P": 2})
	ctx := context.Background()

	_, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("P", 5), PaymentMethod: domain.PaymentCash})

	require.Error(t, err)
	assert.EqualError(t, err, "Insufficient stock for product: P")
	assert.Equal(t, int64(2), f.qty(t, "P"))

	sales, err := f.store.ListSales(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestStock_FailingLaterItemKeepsEarlierItemsUntouched(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"A": 10, "B": 1})
	ctx := context.Background()

	_, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("A", 3, "B", 2), PaymentMethod: domain.PaymentCash})

	assert.ErrorIs(t, err, services.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.qty(t, "A"))
	assert.Equal(t, int64(1), f.qty(t, "B"))
}

func TestStock_ConcurrentCreatesNeverOversell(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"P": 5})
	ctx := context.Background()

	var wg sync.WaitGroup
	var succeeded, rejected atomic.Int32
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("P", 5), PaymentMethod: domain.PaymentCash})
			if err == nil {
				succeeded.Add(1)
				return
			}
			if assert.ErrorIs(t, err, apperrors.ErrStockConflict) {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(1), rejected.Load())
	assert.Equal(t, int64(0), f.qty(t, "P"))
	f.assertConserved(t)
}

func TestStock_ManyConcurrentCreatesConserveStock(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"A": 20, "B": 7})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := dto.CreateSaleRequest{Products: items("A", 1+i%3, "B", 1), PaymentMethod: domain.PaymentCash}
			_, _ = f.sales.CreateSale(ctx, owner, req)
		}(i)
	}
	wg.Wait()

	f.assertConserved(t)
}

func TestStock_UpdateWithSameItemsIsIdempotent(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"A": 10, "B": 10})
	ctx := context.Background()

	sale, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("A", 3, "B", 4), PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = f.sales.UpdateSale(ctx, owner, sale.SaleID, dto.UpdateSaleRequest{Products: items("A", 3, "B", 4)})
		require.NoError(t, err)
	}

	assert.Equal(t, int64(7), f.qty(t, "A"))
	assert.Equal(t, int64(6), f.qty(t, "B"))
}

func TestStock_UpdateCanUseRestoredQuantity(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"P": 5})
	ctx := context.Background()

	sale, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("P", 5), PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)
	require.Equal(t, int64(0), f.qty(t, "P"))

	// 0 on hand + 5 restored covers the new 5.
	_, err = f.sales.UpdateSale(ctx, owner, sale.SaleID, dto.UpdateSaleRequest{Products: items("P", 5)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.qty(t, "P"))
}

func TestStock_FailedUpdateRollsBackRestoration(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"A": 10, "B": 1})
	ctx := context.Background()

	sale, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("A", 4), PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)

	_, err = f.sales.UpdateSale(ctx, owner, sale.SaleID, dto.UpdateSaleRequest{Products: items("A", 1, "B", 9)})
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	assert.Equal(t, int64(6), f.qty(t, "A"))
	assert.Equal(t, int64(1), f.qty(t, "B"))
	stored, err := f.sales.GetSale(ctx, owner, sale.SaleID)
	require.NoError(t, err)
	assert.Equal(t, []domain.SaleItem{{ProductID: "A", Quantity: 4}}, stored.Items)
	f.assertConserved(t)
}

func TestStock_UpdateRejectsUnlistedProduct(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"A": 10})
	ctx := context.Background()
	require.NoError(t, f.store.SaveProduct(ctx, domain.Product{ProductID: "H", OwnerID: owner, Name: "Hidden", Quantity: 100, IsListed: false}))

	sale, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("A", 2), PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)

	_, err = f.sales.UpdateSale(ctx, owner, sale.SaleID, dto.UpdateSaleRequest{Products: items("H", 1)})

	assert.ErrorIs(t, err, services.ErrProductNotListed)
	assert.Equal(t, int64(8), f.qty(t, "A"))
	assert.Equal(t, int64(100), f.qty(t, "H"))
}

func TestStock_DeleteKeepsStockByDefault(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"P": 10})
	ctx := context.Background()

	sale, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("P", 4), PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)

	require.NoError(t, f.sales.DeleteSale(ctx, owner, sale.SaleID))

	assert.Equal(t, int64(6), f.qty(t, "P"))
	_, err = f.sales.GetSale(ctx, owner, sale.SaleID)
	assert.ErrorIs(t, err, services.ErrSaleNotFound)
}

func TestStock_DeleteRestoresWhenConfigured(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"P": 10}, services.WithDeleteRestoresStock(true))
	ctx := context.Background()

	sale, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("P", 4), PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)

	require.NoError(t, f.sales.DeleteSale(ctx, owner, sale.SaleID))

	assert.Equal(t, int64(10), f.qty(t, "P"))
	f.assertConserved(t)
}

func TestStock_StatusTogglesDoNotTouchStock(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"P": 10})
	ctx := context.Background()

	sale, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("P", 4), PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)

	paid, err := f.sales.SetPaymentStatus(ctx, owner, sale.SaleID, true)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	voided, err := f.sales.SetActiveStatus(ctx, owner, sale.SaleID, false)
	require.NoError(t, err)
	assert.False(t, voided.IsActive)
	assert.True(t, voided.IsPaid)

	assert.Equal(t, int64(6), f.qty(t, "P"))
}

func TestStock_OtherOwnersCannotSeeOrChangeSales(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"P": 10})
	ctx := context.Background()

	sale, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("P", 1), PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)

	_, err = f.sales.GetSale(ctx, "intruder", sale.SaleID)
	assert.ErrorIs(t, err, services.ErrSaleNotFound)

	_, err = f.sales.UpdateSale(ctx, "intruder", sale.SaleID, dto.UpdateSaleRequest{Products: items("P", 9)})
	assert.ErrorIs(t, err, services.ErrSaleNotFound)

	assert.ErrorIs(t, f.sales.DeleteSale(ctx, "intruder", sale.SaleID), services.ErrSaleNotFound)

	// Another owner's products are invisible too.
	_, err = f.sales.CreateSale(ctx, "intruder", dto.CreateSaleRequest{Products: items("P", 1), PaymentMethod: domain.PaymentCash})
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	assert.Equal(t, int64(9), f.qty(t, "P"))
}

func TestStock_WrappingQuantitiesAreRejected(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"P": 0})
	ctx := context.Background()

	sale, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{
		Products:      []dto.SaleItemRequest{{ProductID: "P", Quantity: math.MaxInt64}, {ProductID: "P", Quantity: 2}},
		PaymentMethod: domain.PaymentCash,
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, sale)
	assert.Equal(t, int64(0), f.qty(t, "P"))
	f.assertConserved(t)
}

func TestStock_UpdateWithWrappingQuantitiesKeepsSale(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"P": 5})
	ctx := context.Background()

	sale, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("P", 3), PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)

	_, err = f.sales.UpdateSale(ctx, owner, sale.SaleID, dto.UpdateSaleRequest{
		Products: []dto.SaleItemRequest{{ProductID: "P", Quantity: math.MaxInt64}, {ProductID: "P", Quantity: math.MaxInt64}},
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, int64(2), f.qty(t, "P"))
	f.assertConserved(t)
}

func TestStock_TotalPriceBeyondStorableRangeIsRejected(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"P": 5})
	ctx := context.Background()
	tooLarge := decimal.New(1, 14)

	_, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{
		Products:      items("P", 1),
		PaymentMethod: domain.PaymentCash,
		TotalPrice:    &tooLarge,
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, int64(5), f.qty(t, "P"))
}

func TestStock_DerivedTotalBeyondStorableRangeIsRejected(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.SaveProduct(ctx, domain.Product{
		ProductID: "gold", OwnerID: owner, Name: "gold", Quantity: domain.MaxQuantity,
		Price: decimal.New(1, 10), IsListed: true,
	}))
	sales := services.NewSaleService(store, store)

	_, err := sales.CreateSale(ctx, owner, dto.CreateSaleRequest{
		Products:      []dto.SaleItemRequest{{ProductID: "gold", Quantity: 100_000}},
		PaymentMethod: domain.PaymentCash,
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	p, err := store.FindProductByID(ctx, owner, "gold")
	require.NoError(t, err)
	assert.Equal(t, domain.MaxQuantity, p.Quantity)
}

func TestStock_PlannedDeltasAreLoggedAtDebug(t *testing.T) {
	f := newStockFixture(t, map[string]int64{"P": 5})
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := middleware.WithLogger(context.Background(), logger)

	_, err := f.sales.CreateSale(ctx, owner, dto.CreateSaleRequest{Products: items("P", 2), PaymentMethod: domain.PaymentCash})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "Stock deltas planned")
}
