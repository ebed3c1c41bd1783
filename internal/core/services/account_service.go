package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gullak-app/gullak_backend/internal/apperrors"
	"github.com/gullak-app/gullak_backend/internal/core/domain"
	portsrepo "github.com/gullak-app/gullak_backend/internal/core/ports/repositories"
	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/dto"
	"github.com/gullak-app/gullak_backend/internal/middleware"
)

// daysPerCollectionMonth is the heuristic multiplier used to derive a Daily
// account's monthly target from its per-day amount when no explicit target is
// supplied.
const daysPerCollectionMonth = 30

// accountService manages savings-account lifecycle outside the deposit flow.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	userRepo    portsrepo.UserReader
	txRunner    portsrepo.TxRunner
	scopeSvc    portssvc.ScopeResolverSvcFacade
	auditSvc    portssvc.AuditSvcFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	accountRepo portsrepo.AccountRepositoryFacade,
	userRepo portsrepo.UserReader,
	txRunner portsrepo.TxRunner,
	scopeSvc portssvc.ScopeResolverSvcFacade,
	auditSvc portssvc.AuditSvcFacade,
) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		txRunner:    txRunner,
		scopeSvc:    scopeSvc,
		auditSvc:    auditSvc,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount opens an account: validates the client and agent, reserves the
// next scheme-prefixed sequential number for the payment mode, derives the
// maturity date from the duration and fills the mode-specific targets.
func (s *accountService) CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	auditFail := func(reason domain.RejectReason) {
		s.auditSvc.Record(ctx, actor, domain.ActionAccountCreate, "account", "", domain.AuditFailure, map[string]any{
			"reason": string(reason),
			"userId": req.UserID,
		})
	}

	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleManager {
		auditFail(domain.ReasonRoleNotPermitted)
		return nil, apperrors.ErrForbidden
	}

	mode := domain.PaymentMode(req.PaymentMode)
	if !mode.Valid() {
		auditFail(domain.ReasonInvalidInput)
		return nil, fmt.Errorf("%w: unknown payment mode %q", apperrors.ErrValidation, req.PaymentMode)
	}

	client, err := s.userRepo.FindUserByID(ctx, actor.CompanyID, req.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			auditFail(domain.ReasonClientNotFound)
			return nil, apperrors.NewNotFoundError("client not found")
		}
		return nil, err
	}
	if client.Role != domain.RoleClient {
		auditFail(domain.ReasonInvalidInput)
		return nil, fmt.Errorf("%w: accounts can only be opened for client users", apperrors.ErrValidation)
	}

	agentID := req.AgentID
	if agentID == "" {
		agentID = client.AgentID
	}
	if agentID != "" {
		agent, err := s.userRepo.FindUserByID(ctx, actor.CompanyID, agentID)
		if err != nil || agent.Role != domain.RoleAgent {
			auditFail(domain.ReasonInvalidInput)
			return nil, fmt.Errorf("%w: agent %s not found in company", apperrors.ErrValidation, agentID)
		}
	}

	if actor.Role == domain.RoleManager {
		scope, err := s.scopeSvc.ResolveScope(ctx, actor)
		if err != nil {
			return nil, err
		}
		if !scope.AllowsClient(client.UserID) {
			auditFail(domain.ReasonScopeViolation)
			return nil, apperrors.ErrForbidden
		}
	}

	startDate := now
	if req.StartDate != nil {
		startDate = req.StartDate.UTC()
	}

	acct := domain.Account{
		AccountID:          uuid.NewString(),
		CompanyID:          actor.CompanyID,
		SchemeType:         domain.SchemeType(req.SchemeType),
		PaymentMode:        mode,
		UserID:             client.UserID,
		AgentID:            agentID,
		DurationMonths:     req.DurationMonths,
		StartDate:          startDate,
		MaturityDate:       startDate.AddDate(0, req.DurationMonths, 0),
		TotalPayableAmount: req.TotalPayableAmount,
		Balance:            decimal.Zero,
		Status:             domain.StatusInactive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	switch mode {
	case domain.ModeMonthly:
		if !req.InstallmentAmount.IsPositive() {
			auditFail(domain.ReasonInvalidInput)
			return nil, fmt.Errorf("%w: installmentAmount is required for monthly accounts", apperrors.ErrValidation)
		}
		acct.InstallmentAmount = req.InstallmentAmount
		if !acct.TotalPayableAmount.IsPositive() {
			acct.TotalPayableAmount = req.InstallmentAmount.Mul(decimal.NewFromInt(int64(req.DurationMonths)))
		}
	case domain.ModeDaily:
		acct.MonthlyTarget = req.MonthlyTarget
		if !acct.MonthlyTarget.IsPositive() {
			if !req.DailyDepositAmount.IsPositive() {
				auditFail(domain.ReasonInvalidInput)
				return nil, fmt.Errorf("%w: dailyDepositAmount or monthlyTarget is required for daily accounts", apperrors.ErrValidation)
			}
			acct.MonthlyTarget = req.DailyDepositAmount.Mul(decimal.NewFromInt(daysPerCollectionMonth))
		}
		if !acct.TotalPayableAmount.IsPositive() {
			acct.TotalPayableAmount = acct.MonthlyTarget.Mul(decimal.NewFromInt(int64(req.DurationMonths)))
		}
	case domain.ModeYearly:
		acct.YearlyAmount = req.YearlyAmount
		if !acct.YearlyAmount.IsPositive() && !acct.TotalPayableAmount.IsPositive() {
			auditFail(domain.ReasonInvalidInput)
			return nil, fmt.Errorf("%w: yearlyAmount or totalPayableAmount is required for yearly accounts", apperrors.ErrValidation)
		}
		if !acct.TotalPayableAmount.IsPositive() {
			acct.TotalPayableAmount = acct.YearlyAmount
		}
	}

	txErr := s.txRunner.RunInTx(ctx, func(txCtx context.Context) error {
		seq, err := s.accountRepo.NextAccountNumber(txCtx, actor.CompanyID, mode)
		if err != nil {
			return err
		}
		acct.AccountNumber = fmt.Sprintf("%s%05d", mode.NumberPrefix(), seq)
		return s.accountRepo.SaveAccount(txCtx, acct)
	})
	if txErr != nil {
		logger.Error("Failed to create account", slog.String("user_id", req.UserID), slog.String("error", txErr.Error()))
		return nil, txErr
	}

	s.auditSvc.Record(ctx, actor, domain.ActionAccountCreate, "account", acct.AccountID, domain.AuditSuccess, map[string]any{
		"accountNumber": acct.AccountNumber,
		"paymentMode":   string(mode),
		"userId":        acct.UserID,
	})
	return &acct, nil
}

// GetAccountByID retrieves one account, enforcing the actor's scope. Clients
// may only view their own accounts.
func (s *accountService) GetAccountByID(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error) {
	acct, err := s.accountRepo.FindAccountByID(ctx, actor.CompanyID, accountID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleClient {
		if acct.UserID != actor.UserID {
			return nil, apperrors.ErrForbidden
		}
		return acct, nil
	}
	scope, err := s.scopeSvc.ResolveScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsClient(acct.UserID) {
		return nil, apperrors.ErrForbidden
	}
	return acct, nil
}

// ListAccounts retrieves the accounts visible to the actor. Admins see the
// whole company, Managers/Agents their resolved client set, clients only
// themselves.
func (s *accountService) ListAccounts(ctx context.Context, actor domain.Actor, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	filter := portsrepo.ListAccountsFilter{
		Status:    domain.AccountStatus(params.Status),
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}

	if actor.Role == domain.RoleClient {
		filter.ClientIDs = []string{actor.UserID}
	} else {
		scope, err := s.scopeSvc.ResolveScope(ctx, actor)
		if err != nil {
			return nil, err
		}
		if !scope.IsAll {
			if len(scope.ClientIDs) == 0 {
				return &dto.ListAccountsResponse{Accounts: []dto.AccountResponse{}}, nil
			}
			filter.ClientIDs = scope.ClientIDs
		}
	}

	accounts, nextToken, err := s.accountRepo.ListAccounts(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	return &dto.ListAccountsResponse{
		Accounts:  dto.ToAccountResponses(accounts),
		NextToken: nextToken,
	}, nil
}

// UpdateAccount mutates account targets and agent assignment (Admin only).
// A lowered TotalPayableAmount may not undercut what has already been collected.
func (s *accountService) UpdateAccount(ctx context.Context, actor domain.Actor, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	now := time.Now().UTC()

	auditFail := func(reason domain.RejectReason) {
		s.auditSvc.Record(ctx, actor, domain.ActionAccountUpdate, "account", accountID, domain.AuditFailure, map[string]any{
			"reason": string(reason),
		})
	}

	if actor.Role != domain.RoleAdmin {
		auditFail(domain.ReasonRoleNotPermitted)
		return nil, apperrors.ErrForbidden
	}

	var updated domain.Account
	txErr := s.txRunner.RunInTx(ctx, func(txCtx context.Context) error {
		acct, err := s.accountRepo.FindAccountByIDForUpdate(txCtx, actor.CompanyID, accountID)
		if err != nil {
			return err
		}
		if acct.Status == domain.StatusClosed {
			return rejection(domain.ReasonAccountClosed)
		}

		if req.TotalPayableAmount != nil {
			if !req.TotalPayableAmount.IsPositive() || req.TotalPayableAmount.LessThan(acct.Balance) {
				return rejection(domain.ReasonInvalidInput)
			}
			acct.TotalPayableAmount = *req.TotalPayableAmount
		}
		if req.InstallmentAmount != nil {
			if acct.PaymentMode != domain.ModeMonthly || !req.InstallmentAmount.IsPositive() {
				return rejection(domain.ReasonInvalidInput)
			}
			acct.InstallmentAmount = *req.InstallmentAmount
		}
		if req.MonthlyTarget != nil {
			if acct.PaymentMode != domain.ModeDaily || !req.MonthlyTarget.IsPositive() {
				return rejection(domain.ReasonInvalidInput)
			}
			acct.MonthlyTarget = *req.MonthlyTarget
		}
		if req.YearlyAmount != nil {
			if acct.PaymentMode != domain.ModeYearly || !req.YearlyAmount.IsPositive() {
				return rejection(domain.ReasonInvalidInput)
			}
			acct.YearlyAmount = *req.YearlyAmount
		}
		if req.AgentID != nil {
			agent, err := s.userRepo.FindUserByID(txCtx, actor.CompanyID, *req.AgentID)
			if err != nil || agent.Role != domain.RoleAgent {
				return rejection(domain.ReasonInvalidInput)
			}
			acct.AgentID = *req.AgentID
		}

		acct.LastUpdatedAt = now
		acct.LastUpdatedBy = actor.UserID
		if err := s.accountRepo.UpdateAccount(txCtx, *acct); err != nil {
			return err
		}
		updated = *acct
		return nil
	})

	if txErr != nil {
		var rej *rejectionError
		if errors.As(txErr, &rej) {
			auditFail(rej.reason)
			return nil, rej
		}
		return nil, txErr
	}

	s.auditSvc.Record(ctx, actor, domain.ActionAccountUpdate, "account", accountID, domain.AuditSuccess, nil)
	return &updated, nil
}

// CloseAccount moves an account to the terminal CLOSED state (Admin only).
func (s *accountService) CloseAccount(ctx context.Context, actor domain.Actor, accountID string) error {
	now := time.Now().UTC()

	if actor.Role != domain.RoleAdmin {
		s.auditSvc.Record(ctx, actor, domain.ActionAccountClose, "account", accountID, domain.AuditFailure, map[string]any{
			"reason": string(domain.ReasonRoleNotPermitted),
		})
		return apperrors.ErrForbidden
	}

	acct, err := s.accountRepo.FindAccountByID(ctx, actor.CompanyID, accountID)
	if err != nil {
		return err
	}
	if acct.Status == domain.StatusClosed {
		return nil // already closed, idempotent
	}

	if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, domain.StatusClosed, actor.UserID, now); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, actor, domain.ActionAccountClose, "account", accountID, domain.AuditSuccess, map[string]any{
		"previousStatus": string(acct.Status),
	})
	return nil
}

// DeleteAccount hard-deletes an account together with its deposits (Admin only).
func (s *accountService) DeleteAccount(ctx context.Context, actor domain.Actor, accountID string) error {
	if actor.Role != domain.RoleAdmin {
		s.auditSvc.Record(ctx, actor, domain.ActionAccountDelete, "account", accountID, domain.AuditFailure, map[string]any{
			"reason": string(domain.ReasonRoleNotPermitted),
		})
		return apperrors.ErrForbidden
	}

	txErr := s.txRunner.RunInTx(ctx, func(txCtx context.Context) error {
		return s.accountRepo.DeleteAccount(txCtx, actor.CompanyID, accountID)
	})
	if txErr != nil {
		return txErr
	}

	s.auditSvc.Record(ctx, actor, domain.ActionAccountDelete, "account", accountID, domain.AuditSuccess, nil)
	return nil
}

// RunMaturitySweep flips every past-maturity open account to MATURED. It runs
// on a schedule with no request actor; one audit entry under the synthetic
// "system" actor carries the affected IDs.
func (s *accountService) RunMaturitySweep(ctx context.Context, now time.Time) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ids, err := s.accountRepo.MarkMaturedAccounts(ctx, now.UTC())
	if err != nil {
		logger.Error("Maturity sweep failed", slog.String("error", err.Error()))
		return 0, err
	}
	if len(ids) > 0 {
		logger.Info("Maturity sweep completed", slog.Int("accounts_matured", len(ids)))
		s.auditSvc.Record(ctx, domain.Actor{UserID: "system"}, domain.ActionMaturitySweep, "account", "", domain.AuditSuccess, map[string]any{
			"accountsMatured": len(ids),
			"accountIds":      ids,
		})
	}
	return len(ids), nil
}
