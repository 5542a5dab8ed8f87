package models

import (
	"github.com/shopspring/decimal"
)

// Product represents a row of the products table.
type Product struct {
	ProductID   string          `db:"product_id"`
	OwnerID     string          `db:"owner_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Quantity    int64           `db:"quantity"` // CHECK (quantity >= 0)
	Price       decimal.Decimal `db:"price"`
	IsListed    bool            `db:"is_listed"`
	AuditFields
}
