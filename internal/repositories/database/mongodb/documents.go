package mongodb

import (
	"fmt"

	"github.com/aadil-nv/invoise-management/internal/core/domain"
	"github.com/aadil-nv/invoise-management/internal/models"
	"github.com/aadil-nv/invoise-management/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	productsCollection  = "products"
	customersCollection = "customers"
	salesCollection     = "sales"
)

type productDocument struct {
	ID                 string               `bson:"_id"`
	OwnerID            string               `bson:"ownerId"`
	Name               string               `bson:"name"`
	Description        string               `bson:"description"`
	Quantity           int64                `bson:"quantity"`
	Price              primitive.Decimal128 `bson:"price"`
	IsListed           bool                 `bson:"isListed"`
	models.AuditFields `bson:",inline"`
}

type customerDocument struct {
	ID                 string `bson:"_id"`
	OwnerID            string `bson:"ownerId"`
	Name               string `bson:"name"`
	Email              string `bson:"email"`
	Mobile             string `bson:"mobile"`
	models.AuditFields `bson:",inline"`
}

type saleItemDocument struct {
	ProductID string `bson:"productId"`
	Quantity  int64  `bson:"quantity"`
}

type saleDocument struct {
	ID                 string               `bson:"_id"`
	OwnerID            string               `bson:"ownerId"`
	Items              []saleItemDocument   `bson:"products"`
	CustomerID         *string              `bson:"customerId,omitempty"`
	PaymentMethod      string               `bson:"paymentMethod"`
	TotalPrice         primitive.Decimal128 `bson:"totalPrice"`
	SaleDate           primitive.DateTime   `bson:"saleDate"`
	IsPaid             bool                 `bson:"isPaid"`
	IsActive           bool                 `bson:"isActive"`
	Version            int64                `bson:"version"` // Bumped by every write so concurrent transactions conflict
	models.AuditFields `bson:",inline"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	dec, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to encode decimal %s: %w", d.String(), err)
	}
	return dec, nil
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	dec, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode decimal %s: %w", d.String(), err)
	}
	return dec, nil
}

func toProductDocument(p domain.Product) (productDocument, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDocument{}, err
	}
	return productDocument{
		ID:          p.ProductID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		Quantity:    p.Quantity,
		Price:       price,
		IsListed:    p.IsListed,
		AuditFields: mapping.ToModelAuditFields(p.AuditFields),
	}, nil
}

func (d productDocument) toDomain() (domain.Product, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		ProductID:   d.ID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Description: d.Description,
		Quantity:    d.Quantity,
		Price:       price,
		IsListed:    d.IsListed,
		AuditFields: mapping.ToDomainAuditFields(d.AuditFields),
	}, nil
}

func toCustomerDocument(c domain.Customer) customerDocument {
	return customerDocument{
		ID:          c.CustomerID,
		OwnerID:     c.OwnerID,
		Name:        c.Name,
		Email:       c.Email,
		Mobile:      c.Mobile,
		AuditFields: mapping.ToModelAuditFields(c.AuditFields),
	}
}

func (d customerDocument) toDomain() domain.Customer {
	return domain.Customer{
		CustomerID:  d.ID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Email:       d.Email,
		Mobile:      d.Mobile,
		AuditFields: mapping.ToDomainAuditFields(d.AuditFields),
	}
}

func toSaleDocument(s domain.Sale) (saleDocument, error) {
	total, err := toDecimal128(s.TotalPrice)
	if err != nil {
		return saleDocument{}, err
	}
	items := make([]saleItemDocument, len(s.Items))
	for i, item := range s.Items {
		items[i] = saleItemDocument{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	var customerID *string
	if !s.IsCashSale() {
		id := *s.CustomerID
		customerID = &id
	}
	return saleDocument{
		ID:            s.SaleID,
		OwnerID:       s.OwnerID,
		Items:         items,
		CustomerID:    customerID,
		PaymentMethod: string(s.PaymentMethod),
		TotalPrice:    total,
		SaleDate:      primitive.NewDateTimeFromTime(s.SaleDate),
		IsPaid:        s.IsPaid,
		IsActive:      s.IsActive,
		AuditFields:   mapping.ToModelAuditFields(s.AuditFields),
	}, nil
}

func (d saleDocument) toDomain() (domain.Sale, error) {
	total, err := fromDecimal128(d.TotalPrice)
	if err != nil {
		return domain.Sale{}, err
	}
	items := make([]domain.SaleItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = domain.SaleItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return domain.Sale{
		SaleID:        d.ID,
		OwnerID:       d.OwnerID,
		Items:         items,
		CustomerID:    d.CustomerID,
		PaymentMethod: domain.PaymentMethod(d.PaymentMethod),
		TotalPrice:    total,
		SaleDate:      d.SaleDate.Time().UTC(),
		IsPaid:        d.IsPaid,
		IsActive:      d.IsActive,
		AuditFields:   mapping.ToDomainAuditFields(d.AuditFields),
	}, nil
}
