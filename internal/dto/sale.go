package dto

import (
	"time"

	"github.com/aadil-nv/invoise-management/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one requested line of a sale.
type SaleItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1,max=1000000000"`
}

// CreateSaleRequest defines the data needed to record a new sale.
type CreateSaleRequest struct {
	Products      []SaleItemRequest    `json:"products" binding:"required,min=1,dive"`
	CustomerID    *string              `json:"customerId"` // Optional, nil for cash sales
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required,payment_method"`
	TotalPrice    *decimal.Decimal     `json:"totalPrice"` // Optional, derived from product prices when omitted
	IsPaid        *bool                `json:"isPaid"`     // Optional, defaults to false
	Date          *time.Time           `json:"date"`       // Optional, defaults to now
}

// UpdateSaleRequest defines the data allowed for updating a sale.
// The line items are always replaced; the other fields are left untouched when nil.
type UpdateSaleRequest struct {
	Products      []SaleItemRequest     `json:"products" binding:"required,min=1,dive"`
	PaymentMethod *domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,payment_method"`
	TotalPrice    *decimal.Decimal      `json:"totalPrice"`
	IsPaid        *bool                 `json:"isPaid"`
}

// UpdateSalePaidRequest toggles the paid flag. A pointer is used so that
// `false` passes the required check while a missing field does not.
type UpdateSalePaidRequest struct {
	IsPaid *bool `json:"isPaid" binding:"required"`
}

// UpdateSaleActiveRequest toggles the active flag.
type UpdateSaleActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SaleItemResponse is one line of a sale. Product details are present while
// the product still exists; UnitPrice is its current price.
type SaleItemResponse struct {
	ProductID   string           `json:"productId"`
	Quantity    int64            `json:"quantity"`
	ProductName string           `json:"productName,omitempty"`
	Description string           `json:"description,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unitPrice,omitempty"`
}

// SaleCustomerResponse is the customer attached to a sale.
type SaleCustomerResponse struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Mobile     string `json:"mobile"`
}

// SaleResponse defines the data returned for a sale.
type SaleResponse struct {
	SaleID        string                `json:"saleID"`
	Products      []SaleItemResponse    `json:"products"`
	CustomerID    *string               `json:"customerId,omitempty"`
	Customer      *SaleCustomerResponse `json:"customer,omitempty"`
	PaymentMethod domain.PaymentMethod  `json:"paymentMethod"`
	TotalPrice    decimal.Decimal       `json:"totalPrice"`
	Date          time.Time             `json:"date"`
	IsPaid        bool                  `json:"isPaid"`
	IsActive      bool                  `json:"isActive"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy string                `json:"lastUpdatedBy"`
}

// SaleEnvelope is the response body of sale mutations.
type SaleEnvelope struct {
	Message string       `json:"message,omitempty"`
	Sale    SaleResponse `json:"sale"`
}

// ListSalesResponse is the response body of the sale listing.
type ListSalesResponse struct {
	Sales []SaleResponse `json:"sales"`
}

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToSaleItems converts requested lines into domain line items, keeping order.
func ToSaleItems(items []SaleItemRequest) []domain.SaleItem {
	res := make([]domain.SaleItem, len(items))
	for i, item := range items {
		res[i] = domain.SaleItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return res
}

// ToSaleResponse converts a domain.Sale to SaleResponse DTO
func ToSaleResponse(s *domain.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemResponse{ProductID: item.ProductID, Quantity: item.Quantity}
		if p, ok := s.LineProducts[item.ProductID]; ok {
			price := p.Price
			items[i].ProductName = p.Name
			items[i].Description = p.Description
			items[i].UnitPrice = &price
		}
	}
	var customer *SaleCustomerResponse
	if s.Customer != nil {
		customer = &SaleCustomerResponse{
			CustomerID: s.Customer.CustomerID,
			Name:       s.Customer.Name,
			Email:      s.Customer.Email,
			Mobile:     s.Customer.Mobile,
		}
	}
	return SaleResponse{
		SaleID:        s.SaleID,
		Products:      items,
		CustomerID:    s.CustomerID,
		Customer:      customer,
		PaymentMethod: s.PaymentMethod,
		TotalPrice:    s.TotalPrice,
		Date:          s.SaleDate,
		IsPaid:        s.IsPaid,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		CreatedBy:     s.CreatedBy,
		LastUpdatedAt: s.LastUpdatedAt,
		LastUpdatedBy: s.LastUpdatedBy,
	}
}

// ToListSaleResponse converts a slice of domain.Sale to a slice of SaleResponse DTOs
func ToListSaleResponse(sales []domain.Sale) []SaleResponse {
	res := make([]SaleResponse, len(sales))
	for i, s := range sales {
		res[i] = ToSaleResponse(&s)
	}
	return res
}
