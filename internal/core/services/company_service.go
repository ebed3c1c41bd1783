package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gullak-app/gullak_backend/internal/apperrors"
	"github.com/gullak-app/gullak_backend/internal/core/domain"
	portsrepo "github.com/gullak-app/gullak_backend/internal/core/ports/repositories"
	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/dto"
	"github.com/gullak-app/gullak_backend/internal/middleware"
	"github.com/gullak-app/gullak_backend/internal/utils"
)

// companyService manages tenant onboarding and attributes.
type companyService struct {
	companyRepo portsrepo.CompanyRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	txRunner    portsrepo.TxRunner
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, txRunner portsrepo.TxRunner) portssvc.CompanySvcFacade {
	return &companyService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		txRunner:    txRunner,
	}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// CreateCompany onboards a tenant together with its first Admin user. Both
// rows land atomically: a company without an admin is unreachable.
func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	hash, err := utils.HashPassword(req.AdminPassword)
	if err != nil {
		logger.Error("Failed to hash admin password", slog.String("error", err.Error()))
		return nil, apperrors.NewAppError(500, "failed to process credentials", err)
	}

	company := domain.Company{
		CompanyID: uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		IsActive:  true,
	}
	admin := domain.User{
		UserID:       uuid.NewString(),
		CompanyID:    company.CompanyID,
		Name:         req.AdminName,
		Email:        req.AdminEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}

	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     admin.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: admin.UserID,
	}
	company.AuditFields = audit
	admin.AuditFields = audit

	txErr := s.txRunner.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.companyRepo.SaveCompany(txCtx, company); err != nil {
			return err
		}
		return s.userRepo.SaveUser(txCtx, admin)
	})
	if txErr != nil {
		logger.Error("Failed to onboard company", slog.String("name", req.Name), slog.String("error", txErr.Error()))
		return nil, txErr
	}

	logger.Info("Company onboarded", slog.String("company_id", company.CompanyID))
	return &company, nil
}

// GetCompanyByID retrieves a tenant. Actors only ever see their own company.
func (s *companyService) GetCompanyByID(ctx context.Context, actor domain.Actor, companyID string) (*domain.Company, error) {
	if actor.CompanyID != companyID {
		return nil, apperrors.ErrForbidden
	}
	return s.companyRepo.FindCompanyByID(ctx, companyID)
}

// UpdateCompany edits tenant attributes (Admin of that company only).
func (s *companyService) UpdateCompany(ctx context.Context, actor domain.Actor, companyID string, req dto.UpdateCompanyRequest) (*domain.Company, error) {
	if actor.CompanyID != companyID || actor.Role != domain.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: company name cannot be empty", apperrors.ErrValidation)
		}
		company.Name = *req.Name
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	company.LastUpdatedAt = time.Now().UTC()
	company.LastUpdatedBy = actor.UserID

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		return nil, err
	}
	return company, nil
}
