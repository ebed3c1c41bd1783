package services

import (
	"context"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
	"github.com/gullak-app/gullak_backend/internal/dto"
)

// CompanySvcFacade manages tenant onboarding and attributes.
type CompanySvcFacade interface {
	// CreateCompany onboards a tenant together with its first Admin user.
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*domain.Company, error)
	GetCompanyByID(ctx context.Context, actor domain.Actor, companyID string) (*domain.Company, error)
	UpdateCompany(ctx context.Context, actor domain.Actor, companyID string, req dto.UpdateCompanyRequest) (*domain.Company, error)
}
