package mapping

import (
	"github.com/aadil-nv/invoise-management/internal/core/domain"
	"github.com/aadil-nv/invoise-management/internal/models"
)

// ToModelCustomer converts a domain Customer to a model Customer
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:  d.CustomerID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Email:       d.Email,
		Mobile:      d.Mobile,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:  m.CustomerID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Email:       m.Email,
		Mobile:      m.Mobile,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
