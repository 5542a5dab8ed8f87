package domain

import "github.com/shopspring/decimal"

// Product is an item of stock owned by a single user.
// The sales core only reads and adjusts Quantity; the rest of the record is
// owned by the product catalog.
type Product struct {
	ProductID   string          `json:"productID"`
	OwnerID     string          `json:"ownerID"`
	Name        string          `json:"name"` // Unique per owner
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"` // On-hand stock, never negative
	Price       decimal.Decimal `json:"price"`
	IsListed    bool            `json:"isListed"`
	AuditFields
}

// HasStock reports whether qty units can be taken from the product.
func (p Product) HasStock(qty int64) bool {
	return qty >= 0 && p.Quantity >= qty
}
