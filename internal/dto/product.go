package dto

import (
	"time"

	"github.com/aadil-nv/invoise-management/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the data needed to create a new product.
type CreateProductRequest struct {
	Name        string          `json:"productName" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Quantity    *int64          `json:"quantity" binding:"required,min=0"`
	Price       decimal.Decimal `json:"price"`
	IsListed    *bool           `json:"isListed"` // Optional, defaults to true
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID     string          `json:"productID"`
	Name          string          `json:"productName"`
	Description   string          `json:"description"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	IsListed      bool            `json:"isListed"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToProductResponse converts a domain.Product to ProductResponse DTO
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:     p.ProductID,
		Name:          p.Name,
		Description:   p.Description,
		Quantity:      p.Quantity,
		Price:         p.Price,
		IsListed:      p.IsListed,
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
}

// ToListProductResponse converts a slice of domain.Product to a slice of ProductResponse DTOs
func ToListProductResponse(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i, p := range products {
		res[i] = ToProductResponse(&p)
	}
	return res
}
