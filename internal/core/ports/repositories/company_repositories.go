package repositories

import (
	"context"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
)

// CompanyRepositoryFacade defines persistence operations for tenants.
type CompanyRepositoryFacade interface {
	SaveCompany(ctx context.Context, company domain.Company) error
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	UpdateCompany(ctx context.Context, company domain.Company) error
}
