package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Sale represents a row of the sales table. Line items live in sale_items.
type Sale struct {
	SaleID        string          `db:"sale_id"`
	OwnerID       string          `db:"owner_id"`
	CustomerID    sql.NullString  `db:"customer_id"` // NULL for cash sales
	PaymentMethod string          `db:"payment_method"`
	TotalPrice    decimal.Decimal `db:"total_price"`
	SaleDate      time.Time       `db:"sale_date"`
	IsPaid        bool            `db:"is_paid"`
	IsActive      bool            `db:"is_active"`
	AuditFields
	Items []SaleItem `db:"-"`
}

// SaleItem represents a row of the sale_items table.
type SaleItem struct {
	SaleID    string `db:"sale_id"`
	LineNo    int    `db:"line_no"` // Preserves submitted order
	ProductID string `db:"product_id"`
	Quantity  int64  `db:"quantity"`
}
