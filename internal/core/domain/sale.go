package domain

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a sale was settled.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentOnline       PaymentMethod = "Online"
	PaymentCreditCard   PaymentMethod = "Credit Card"
	PaymentDebitCard    PaymentMethod = "Debit Card"
	PaymentUPI          PaymentMethod = "UPI"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
)

// PaymentMethods lists every accepted payment method in display order.
var PaymentMethods = []PaymentMethod{
	PaymentCash,
	PaymentOnline,
	PaymentCreditCard,
	PaymentDebitCard,
	PaymentUPI,
	PaymentBankTransfer,
}

// IsValid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) IsValid() bool {
	for _, pm := range PaymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}

// SaleItem is a single line of a sale: a product and how many units left stock.
type SaleItem struct {
	ProductID string `json:"productID"`
	Quantity  int64  `json:"quantity"`
}

// Sale records goods leaving stock. Every line item has already been deducted
// from its product's quantity by the time the sale is persisted.
type Sale struct {
	SaleID        string          `json:"saleID"`
	OwnerID       string          `json:"ownerID"`
	Items         []SaleItem      `json:"items"`
	CustomerID    *string         `json:"customerID,omitempty"` // nil for cash sales
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	SaleDate      time.Time       `json:"saleDate"`
	IsPaid        bool            `json:"isPaid"`
	IsActive      bool            `json:"isActive"` // false marks a voided sale; stock is untouched
	AuditFields

	// Filled on reads from the owner's current records; never persisted.
	// Products that were removed since the sale are absent.
	LineProducts map[string]Product `json:"-"`
	Customer     *Customer          `json:"-"`
}

// IsCashSale reports whether the sale has no customer attached.
func (s Sale) IsCashSale() bool {
	return s.CustomerID == nil || *s.CustomerID == ""
}

// ProductIDs returns the distinct product ids referenced by the sale, in
// first-seen order.
func (s Sale) ProductIDs() []string {
	return ItemProductIDs(s.Items)
}

// ItemProductIDs returns the distinct product ids of items, in first-seen order.
func ItemProductIDs(items []SaleItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// MaxQuantity bounds a single line item and the summed quantity of a product
// within one sale.
const MaxQuantity int64 = 1_000_000_000

// MaxAmount is the exclusive upper bound of prices and sale totals, which are
// stored with 14 integer and 4 fractional digits.
var MaxAmount = decimal.New(1, 14)

// AmountInRange reports whether d is a storable, non-negative amount.
func AmountInRange(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(MaxAmount)
}

// ErrQuantityOutOfRange is returned when a quantity sum does not fit in an int64.
var ErrQuantityOutOfRange = errors.New("quantity out of range")

// AddQuantity returns a+b, or ErrQuantityOutOfRange when the sum overflows.
func AddQuantity(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrQuantityOutOfRange
	}
	return a + b, nil
}

// Demand sums the requested quantity per product.
func Demand(items []SaleItem) (map[string]int64, error) {
	demand := make(map[string]int64, len(items))
	for _, item := range items {
		sum, err := AddQuantity(demand[item.ProductID], item.Quantity)
		if err != nil {
			return nil, err
		}
		demand[item.ProductID] = sum
	}
	return demand, nil
}
