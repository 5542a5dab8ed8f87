package mapping

import (
	"database/sql"

	"github.com/aadil-nv/invoise-management/internal/core/domain"
	"github.com/aadil-nv/invoise-management/internal/models"
)

// ToModelSale converts a domain Sale to a model Sale, numbering line items in order.
func ToModelSale(d domain.Sale) models.Sale {
	var customerID sql.NullString
	if !d.IsCashSale() {
		customerID = sql.NullString{String: *d.CustomerID, Valid: true}
	}

	items := make([]models.SaleItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = models.SaleItem{
			SaleID:    d.SaleID,
			LineNo:    i + 1,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	return models.Sale{
		SaleID:        d.SaleID,
		OwnerID:       d.OwnerID,
		CustomerID:    customerID,
		PaymentMethod: string(d.PaymentMethod),
		TotalPrice:    d.TotalPrice,
		SaleDate:      d.SaleDate,
		IsPaid:        d.IsPaid,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
		Items:         items,
	}
}

// ToDomainSale converts a model Sale to a domain Sale. Items are expected in line order.
func ToDomainSale(m models.Sale) domain.Sale {
	var customerID *string
	if m.CustomerID.Valid {
		id := m.CustomerID.String
		customerID = &id
	}

	items := make([]domain.SaleItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = domain.SaleItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	return domain.Sale{
		SaleID:        m.SaleID,
		OwnerID:       m.OwnerID,
		Items:         items,
		CustomerID:    customerID,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		TotalPrice:    m.TotalPrice,
		SaleDate:      m.SaleDate,
		IsPaid:        m.IsPaid,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
