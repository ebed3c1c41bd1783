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

// rejectionError carries the machine-readable reason of a refused posting
// through the transaction boundary. Callers outside this package only ever
// see the generic business-rule error it unwraps to; the reason itself is
// written to the audit trail.
type rejectionError struct {
	reason      domain.RejectReason
	statusAfter domain.AccountStatus
}

func (e *rejectionError) Error() string { return "deposit not permitted" }

func (e *rejectionError) Unwrap() error { return apperrors.ErrBusinessRule }

func rejection(reason domain.RejectReason) *rejectionError {
	return &rejectionError{reason: reason}
}

// depositService is the posting engine: it validates, authorizes and persists
// deposits, keeping each account's balance and status consistent with the sum
// of its deposits after every mutation.
type depositService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	depositRepo portsrepo.DepositRepositoryFacade
	userRepo    portsrepo.UserReader
	txRunner    portsrepo.TxRunner
	scopeSvc    portssvc.ScopeResolverSvcFacade
	auditSvc    portssvc.AuditSvcFacade
	notifier    portssvc.NotificationSender
}

// NewDepositService creates a new DepositService.
func NewDepositService(
	accountRepo portsrepo.AccountRepositoryFacade,
	depositRepo portsrepo.DepositRepositoryFacade,
	userRepo portsrepo.UserReader,
	txRunner portsrepo.TxRunner,
	scopeSvc portssvc.ScopeResolverSvcFacade,
	auditSvc portssvc.AuditSvcFacade,
	notifier portssvc.NotificationSender,
) portssvc.DepositSvcFacade {
	return &depositService{
		accountRepo: accountRepo,
		depositRepo: depositRepo,
		userRepo:    userRepo,
		txRunner:    txRunner,
		scopeSvc:    scopeSvc,
		auditSvc:    auditSvc,
		notifier:    notifier,
	}
}

var _ portssvc.DepositSvcFacade = (*depositService)(nil)

// CreateDeposit posts one deposit. Validation, the mode-specific policy check
// and the account-state recompute run inside a single transaction with the
// account row locked. The audit entry is written after the transaction settles
// so a rollback cannot erase a FAILURE record.
func (s *depositService) CreateDeposit(ctx context.Context, actor domain.Actor, req dto.CreateDepositRequest) (*domain.Deposit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	auditFail := func(reason domain.RejectReason) {
		s.auditSvc.Record(ctx, actor, domain.ActionDepositCreate, "deposit", req.AccountID, domain.AuditFailure, map[string]any{
			"reason": string(reason),
			"userId": req.UserID,
			"amount": req.Amount.String(),
		})
	}

	if !actor.Role.IsCollectionStaff() {
		auditFail(domain.ReasonRoleNotPermitted)
		return nil, apperrors.ErrForbidden
	}
	if !req.Amount.IsPositive() {
		auditFail(domain.ReasonInvalidAmount)
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	depositDate := now
	if req.Date != nil {
		depositDate = req.Date.UTC()
	}

	scope, err := s.scopeSvc.ResolveScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsClient(req.UserID) {
		auditFail(domain.ReasonScopeViolation)
		return nil, apperrors.ErrForbidden
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
		return nil, fmt.Errorf("%w: deposits can only be posted for client users", apperrors.ErrValidation)
	}

	var (
		deposit     domain.Deposit
		maturedAcct *domain.Account
	)

	txErr := s.txRunner.RunInTx(ctx, func(txCtx context.Context) error {
		acct, err := s.accountRepo.FindAccountByIDForUpdate(txCtx, actor.CompanyID, req.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return rejection(domain.ReasonAccountNotFound)
			}
			return err
		}
		if acct.UserID != req.UserID {
			return rejection(domain.ReasonUserAccountMismatch)
		}

		lifetime, monthCollected, monthCount, err := s.loadAggregates(txCtx, acct, depositDate, "")
		if err != nil {
			return err
		}

		decision := domain.EvaluateDeposit(*acct, lifetime, monthCollected, monthCount, req.Amount, now)
		if !decision.Allowed {
			if decision.Reason == domain.ReasonAccountMatured {
				maturedAcct = acct
			}
			return rejection(decision.Reason)
		}

		deposit = domain.Deposit{
			DepositID:   uuid.NewString(),
			CompanyID:   actor.CompanyID,
			AccountID:   acct.AccountID,
			UserID:      acct.UserID,
			CollectedBy: actor.UserID,
			SchemeType:  acct.SchemeType,
			Amount:      req.Amount,
			Date:        depositDate,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actor.UserID,
			},
		}
		if err := s.depositRepo.SaveDeposit(txCtx, deposit); err != nil {
			return err
		}

		newBalance := lifetime.Add(req.Amount)
		status, fullyPaid := domain.DeriveAccountState(*acct, newBalance, monthCollected.Add(req.Amount), now)
		return s.accountRepo.UpdateAccountState(txCtx, acct.AccountID, newBalance, status, fullyPaid, actor.UserID, now)
	})

	if txErr != nil {
		var rej *rejectionError
		if errors.As(txErr, &rej) {
			// A maturity discovered mid-posting is recorded even though the
			// deposit itself was rolled back.
			if maturedAcct != nil {
				if err := s.accountRepo.UpdateAccountStatus(ctx, maturedAcct.AccountID, domain.StatusMatured, actor.UserID, now); err != nil {
					logger.Error("Failed to persist maturity flip", slog.String("account_id", maturedAcct.AccountID), slog.String("error", err.Error()))
				}
			}
			auditFail(rej.reason)
			return nil, rej
		}
		logger.Error("CreateDeposit transaction failed", slog.String("account_id", req.AccountID), slog.String("error", txErr.Error()))
		return nil, txErr
	}

	s.auditSvc.Record(ctx, actor, domain.ActionDepositCreate, "deposit", deposit.DepositID, domain.AuditSuccess, map[string]any{
		"accountId": deposit.AccountID,
		"userId":    deposit.UserID,
		"amount":    deposit.Amount.String(),
	})
	s.notifyClients(ctx, "Deposit received", fmt.Sprintf("A deposit of %s was recorded on your account.", deposit.Amount.String()), []string{deposit.UserID}, deposit.AccountID)

	return &deposit, nil
}

// loadAggregates fetches the collected totals a policy decision needs:
// lifetime sum, calendar-month sum and the deposit count inside the calendar
// month. excludeDepositID leaves one deposit out for update/delete
// re-validation.
func (s *depositService) loadAggregates(ctx context.Context, acct *domain.Account, depositDate time.Time, excludeDepositID string) (lifetime, monthCollected decimal.Decimal, monthCount int, err error) {
	lifetime, err = s.depositRepo.SumDeposits(ctx, acct.AccountID, nil, excludeDepositID)
	if err != nil {
		return
	}
	monthWindow := domain.MonthWindow(depositDate)
	monthCollected, err = s.depositRepo.SumDeposits(ctx, acct.AccountID, &monthWindow, excludeDepositID)
	if err != nil {
		return
	}
	monthCount, err = s.depositRepo.CountDeposits(ctx, acct.AccountID, &monthWindow, excludeDepositID)
	return
}

// UpdateDeposit edits a deposit's amount and/or date (Admin only). The full
// policy check re-runs with the original deposit excluded from every
// aggregate, then the account state is recomputed from scratch.
func (s *depositService) UpdateDeposit(ctx context.Context, actor domain.Actor, depositID string, req dto.UpdateDepositRequest) (*domain.Deposit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	auditFail := func(reason domain.RejectReason) {
		s.auditSvc.Record(ctx, actor, domain.ActionDepositUpdate, "deposit", depositID, domain.AuditFailure, map[string]any{
			"reason": string(reason),
		})
	}

	if actor.Role != domain.RoleAdmin {
		auditFail(domain.ReasonRoleNotPermitted)
		return nil, apperrors.ErrForbidden
	}
	if req.Amount == nil && req.Date == nil {
		auditFail(domain.ReasonInvalidInput)
		return nil, fmt.Errorf("%w: nothing to update", apperrors.ErrValidation)
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		auditFail(domain.ReasonInvalidAmount)
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	var updated domain.Deposit

	txErr := s.txRunner.RunInTx(ctx, func(txCtx context.Context) error {
		deposit, err := s.depositRepo.FindDepositByID(txCtx, actor.CompanyID, depositID)
		if err != nil {
			return err
		}
		acct, err := s.accountRepo.FindAccountByIDForUpdate(txCtx, actor.CompanyID, deposit.AccountID)
		if err != nil {
			return err
		}

		newAmount := deposit.Amount
		if req.Amount != nil {
			newAmount = *req.Amount
		}
		newDate := deposit.Date
		if req.Date != nil {
			newDate = req.Date.UTC()
		}

		lifetime, monthCollected, monthCount, err := s.loadAggregates(txCtx, acct, newDate, deposit.DepositID)
		if err != nil {
			return err
		}
		decision := domain.EvaluateDepositCorrection(*acct, lifetime, monthCollected, monthCount, newAmount)
		if !decision.Allowed {
			return rejection(decision.Reason)
		}

		updated = *deposit
		updated.Amount = newAmount
		updated.Date = newDate
		updated.LastUpdatedAt = now
		updated.LastUpdatedBy = actor.UserID
		if err := s.depositRepo.UpdateDeposit(txCtx, updated); err != nil {
			return err
		}

		newBalance := lifetime.Add(newAmount)
		status, fullyPaid := domain.DeriveAccountState(*acct, newBalance, monthCollected.Add(newAmount), now)
		return s.accountRepo.UpdateAccountState(txCtx, acct.AccountID, newBalance, status, fullyPaid, actor.UserID, now)
	})

	if txErr != nil {
		var rej *rejectionError
		if errors.As(txErr, &rej) {
			auditFail(rej.reason)
			return nil, rej
		}
		if errors.Is(txErr, apperrors.ErrNotFound) {
			return nil, txErr
		}
		logger.Error("UpdateDeposit transaction failed", slog.String("deposit_id", depositID), slog.String("error", txErr.Error()))
		return nil, txErr
	}

	s.auditSvc.Record(ctx, actor, domain.ActionDepositUpdate, "deposit", depositID, domain.AuditSuccess, map[string]any{
		"accountId": updated.AccountID,
		"amount":    updated.Amount.String(),
	})
	return &updated, nil
}

// DeleteDeposit removes a deposit (Admin only) and recomputes the account
// state. Deleting the sole deposit of a fully-paid Yearly account is refused:
// the account would silently revert to unpaid with no trace of the payment.
func (s *depositService) DeleteDeposit(ctx context.Context, actor domain.Actor, depositID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	auditFail := func(reason domain.RejectReason) {
		s.auditSvc.Record(ctx, actor, domain.ActionDepositDelete, "deposit", depositID, domain.AuditFailure, map[string]any{
			"reason": string(reason),
		})
	}

	if actor.Role != domain.RoleAdmin {
		auditFail(domain.ReasonRoleNotPermitted)
		return nil, apperrors.ErrForbidden
	}

	var result domain.Account

	txErr := s.txRunner.RunInTx(ctx, func(txCtx context.Context) error {
		deposit, err := s.depositRepo.FindDepositByID(txCtx, actor.CompanyID, depositID)
		if err != nil {
			return err
		}
		acct, err := s.accountRepo.FindAccountByIDForUpdate(txCtx, actor.CompanyID, deposit.AccountID)
		if err != nil {
			return err
		}

		if acct.PaymentMode == domain.ModeYearly {
			remaining, err := s.depositRepo.CountDeposits(txCtx, acct.AccountID, nil, deposit.DepositID)
			if err != nil {
				return err
			}
			if remaining == 0 {
				return rejection(domain.ReasonSoleYearlyDeposit)
			}
		}

		if err := s.depositRepo.DeleteDeposit(txCtx, actor.CompanyID, depositID); err != nil {
			return err
		}

		lifetime, err := s.depositRepo.SumDeposits(txCtx, acct.AccountID, nil, "")
		if err != nil {
			return err
		}
		monthWindow := domain.MonthWindow(now)
		monthCollected, err := s.depositRepo.SumDeposits(txCtx, acct.AccountID, &monthWindow, "")
		if err != nil {
			return err
		}

		status, fullyPaid := domain.DeriveAccountState(*acct, lifetime, monthCollected, now)
		if err := s.accountRepo.UpdateAccountState(txCtx, acct.AccountID, lifetime, status, fullyPaid, actor.UserID, now); err != nil {
			return err
		}

		result = *acct
		result.Balance = lifetime
		result.Status = status
		result.IsFullyPaid = fullyPaid
		return nil
	})

	if txErr != nil {
		var rej *rejectionError
		if errors.As(txErr, &rej) {
			auditFail(rej.reason)
			return nil, rej
		}
		if errors.Is(txErr, apperrors.ErrNotFound) {
			return nil, txErr
		}
		logger.Error("DeleteDeposit transaction failed", slog.String("deposit_id", depositID), slog.String("error", txErr.Error()))
		return nil, txErr
	}

	s.auditSvc.Record(ctx, actor, domain.ActionDepositDelete, "deposit", depositID, domain.AuditSuccess, map[string]any{
		"accountId":  result.AccountID,
		"newBalance": result.Balance.String(),
	})
	return &result, nil
}

// bulkPersistChunkSize bounds one persisted-and-audited unit of a bulk run.
const bulkPersistChunkSize = 100

// bulkItemOutcome tracks a pre-validated bulk item awaiting persistence.
type bulkItemOutcome struct {
	deposit domain.Deposit
	acct    domain.Account
}

// BulkCreateDeposits fans single-deposit validation out over many items with
// per-item failure isolation (Agent only). Accounts and recent deposits are
// prefetched in two queries; per-item policy checks run in memory with
// running aggregates so earlier items in the batch count against later ones.
// Accepted items are persisted in fixed-size chunks, each chunk audited as it
// commits; a batch where every item fails is still a successful call.
func (s *depositService) BulkCreateDeposits(ctx context.Context, actor domain.Actor, req dto.BulkCreateDepositsRequest) (*dto.BulkCreateDepositsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	if actor.Role != domain.RoleAgent {
		s.auditSvc.Record(ctx, actor, domain.ActionDepositBulkCreate, "deposit", "", domain.AuditFailure, map[string]any{
			"reason": string(domain.ReasonRoleNotPermitted),
			"total":  len(req.Deposits),
		})
		return nil, apperrors.ErrForbidden
	}

	scope, err := s.scopeSvc.ResolveScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(req.Deposits))
	for _, item := range req.Deposits {
		accountIDs = append(accountIDs, item.AccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, actor.CompanyID, accountIDs)
	if err != nil {
		return nil, err
	}

	// One fetch covers every duplicate window: the year containing today is
	// the widest window any payment mode uses.
	yearWindow := domain.YearWindow(now)
	recent, err := s.depositRepo.FindDepositsByAccountsSince(ctx, accountIDs, yearWindow.Start)
	if err != nil {
		return nil, err
	}

	type aggregates struct {
		lifetime       decimal.Decimal
		monthCollected decimal.Decimal
		dupCount       int
		monthCount     int
	}
	monthWindow := domain.MonthWindow(now)
	aggs := make(map[string]*aggregates, len(accounts))
	for id, acct := range accounts {
		// Balance equals the lifetime deposit sum after every mutation, so the
		// prefetched account row already carries the lifetime aggregate.
		aggs[id] = &aggregates{lifetime: acct.Balance, monthCollected: decimal.Zero}
	}
	for _, d := range recent {
		agg, ok := aggs[d.AccountID]
		if !ok {
			continue
		}
		acct := accounts[d.AccountID]
		if monthWindow.Contains(d.Date) {
			agg.monthCollected = agg.monthCollected.Add(d.Amount)
			agg.monthCount++
		}
		if domain.DuplicateWindow(acct.PaymentMode, now).Contains(d.Date) {
			agg.dupCount++
		}
	}

	resp := &dto.BulkCreateDepositsResponse{
		Total:           len(req.Deposits),
		SuccessAccounts: []string{},
		FailedAccounts:  []dto.FailedBulkAccount{},
		FailureSummary:  map[string]int{},
	}
	failItem := func(accountID string, reason domain.RejectReason) {
		resp.FailedCount++
		resp.FailedAccounts = append(resp.FailedAccounts, dto.FailedBulkAccount{
			AccountID: accountID,
			Reason:    string(reason),
		})
		resp.FailureSummary[string(reason)]++
	}

	var accepted []bulkItemOutcome
	for _, item := range req.Deposits {
		if item.CollectedBy != actor.UserID {
			failItem(item.AccountID, domain.ReasonCollectorMismatch)
			continue
		}
		if !item.Amount.IsPositive() {
			failItem(item.AccountID, domain.ReasonInvalidAmount)
			continue
		}
		acct, ok := accounts[item.AccountID]
		if !ok {
			failItem(item.AccountID, domain.ReasonAccountNotFound)
			continue
		}
		if !scope.AllowsClient(acct.UserID) {
			failItem(item.AccountID, domain.ReasonScopeViolation)
			continue
		}
		agg := aggs[item.AccountID]
		if acct.PaymentMode == domain.ModeDaily && agg.dupCount > 0 {
			failItem(item.AccountID, domain.ReasonDuplicateDeposit)
			continue
		}

		decision := domain.EvaluateDeposit(acct, agg.lifetime, agg.monthCollected, agg.monthCount, item.Amount, now)
		if !decision.Allowed {
			failItem(item.AccountID, decision.Reason)
			continue
		}

		agg.lifetime = agg.lifetime.Add(item.Amount)
		agg.monthCollected = agg.monthCollected.Add(item.Amount)
		agg.monthCount++
		agg.dupCount++

		accepted = append(accepted, bulkItemOutcome{
			deposit: domain.Deposit{
				DepositID:   uuid.NewString(),
				CompanyID:   actor.CompanyID,
				AccountID:   acct.AccountID,
				UserID:      acct.UserID,
				CollectedBy: actor.UserID,
				SchemeType:  acct.SchemeType,
				Amount:      item.Amount,
				Date:        now,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     actor.UserID,
					LastUpdatedAt: now,
					LastUpdatedBy: actor.UserID,
				},
			},
			acct: acct,
		})
		resp.SuccessCount++
		resp.SuccessAccounts = append(resp.SuccessAccounts, acct.AccountID)
	}

	for start := 0; start < len(accepted); start += bulkPersistChunkSize {
		end := start + bulkPersistChunkSize
		if end > len(accepted) {
			end = len(accepted)
		}
		chunk := accepted[start:end]

		txErr := s.txRunner.RunInTx(ctx, func(txCtx context.Context) error {
			deposits := make([]domain.Deposit, len(chunk))
			for i, out := range chunk {
				deposits[i] = out.deposit
			}
			if err := s.depositRepo.SaveDepositsBatch(txCtx, deposits); err != nil {
				return err
			}
			for _, out := range chunk {
				agg := aggs[out.acct.AccountID]
				status, fullyPaid := domain.DeriveAccountState(out.acct, agg.lifetime, agg.monthCollected, now)
				if err := s.accountRepo.UpdateAccountState(txCtx, out.acct.AccountID, agg.lifetime, status, fullyPaid, actor.UserID, now); err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			logger.Error("BulkCreateDeposits chunk failed", slog.Int("offset", start), slog.Int("size", len(chunk)), slog.String("error", txErr.Error()))
			return nil, txErr
		}

		s.auditSvc.Record(ctx, actor, domain.ActionDepositBulkCreate, "deposit", "", domain.AuditSuccess, map[string]any{
			"chunkOffset": start,
			"chunkSize":   len(chunk),
		})
	}

	s.auditSvc.Record(ctx, actor, domain.ActionDepositBulkCreate, "deposit", "", domain.AuditSuccess, map[string]any{
		"total":          resp.Total,
		"successCount":   resp.SuccessCount,
		"failedCount":    resp.FailedCount,
		"failureSummary": resp.FailureSummary,
	})

	if resp.SuccessCount > 0 {
		recipients := make([]string, 0, len(accepted))
		seen := make(map[string]bool, len(accepted))
		for _, out := range accepted {
			if !seen[out.deposit.UserID] {
				seen[out.deposit.UserID] = true
				recipients = append(recipients, out.deposit.UserID)
			}
		}
		s.notifyClients(ctx, "Deposit received", "Your collection for today has been recorded.", recipients, "")
	}

	return resp, nil
}

// ListDepositsByAccount retrieves a scope-checked page of an account's deposits.
func (s *depositService) ListDepositsByAccount(ctx context.Context, actor domain.Actor, accountID string, params dto.ListDepositsParams) (*dto.ListDepositsResponse, error) {
	acct, err := s.accountRepo.FindAccountByID(ctx, actor.CompanyID, accountID)
	if err != nil {
		return nil, err
	}

	if actor.Role == domain.RoleClient {
		if acct.UserID != actor.UserID {
			return nil, apperrors.ErrForbidden
		}
	} else {
		scope, err := s.scopeSvc.ResolveScope(ctx, actor)
		if err != nil {
			return nil, err
		}
		if !scope.AllowsClient(acct.UserID) {
			return nil, apperrors.ErrForbidden
		}
	}

	deposits, nextToken, err := s.depositRepo.ListDepositsByAccount(ctx, actor.CompanyID, accountID, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListDepositsResponse{
		Deposits:  dto.ToDepositResponses(deposits),
		NextToken: nextToken,
	}, nil
}

// notifyClients pushes a best-effort notification; failures are logged only.
func (s *depositService) notifyClients(ctx context.Context, title, message string, recipientIDs []string, accountID string) {
	if s.notifier == nil || len(recipientIDs) == 0 {
		return
	}
	n := portssvc.Notification{
		Title:        title,
		Message:      message,
		RecipientIDs: recipientIDs,
	}
	if accountID != "" {
		n.Data = map[string]string{"accountId": accountID}
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to send deposit notification", slog.String("error", err.Error()))
	}
}
