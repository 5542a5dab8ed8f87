package services

import (
	portsrepo "github.com/aadil-nv/invoise-management/internal/core/ports/repositories"
	portssvc "github.com/aadil-nv/invoise-management/internal/core/ports/services"
	"github.com/aadil-nv/invoise-management/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Product = NewProductService(repos.ProductRepo)
	container.Customer = NewCustomerService(repos.CustomerRepo)
	container.Sale = NewSaleService(
		repos.SaleRepo,
		repos.CustomerRepo,
		WithDeleteRestoresStock(cfg.SaleDeleteRestoresStock),
		WithRelatedRecords(repos.ProductRepo),
	)

	return container
}
