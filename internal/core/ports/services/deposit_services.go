package services

import (
	"context"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
	"github.com/gullak-app/gullak_backend/internal/dto"
)

// DepositSvcFacade is the deposit-posting engine: single-deposit orchestration,
// the admin update/delete variants and the bulk fan-out.
type DepositSvcFacade interface {
	// CreateDeposit validates, authorizes and posts one deposit atomically,
	// recomputing the account's balance, status and fully-paid flag. Every
	// rejection is recorded in the audit trail before the error returns.
	CreateDeposit(ctx context.Context, actor domain.Actor, req dto.CreateDepositRequest) (*domain.Deposit, error)

	// UpdateDeposit edits a deposit's amount/date (Admin only), re-running the
	// cap and mode checks with the original amount excluded from aggregates.
	UpdateDeposit(ctx context.Context, actor domain.Actor, depositID string, req dto.UpdateDepositRequest) (*domain.Deposit, error)

	// DeleteDeposit removes a deposit (Admin only) and recomputes the account
	// state from scratch. Deleting the sole deposit of a Yearly account is rejected.
	DeleteDeposit(ctx context.Context, actor domain.Actor, depositID string) (*domain.Account, error)

	// BulkCreateDeposits fans single-deposit validation out over many items
	// with per-item failure isolation (Agent only).
	BulkCreateDeposits(ctx context.Context, actor domain.Actor, req dto.BulkCreateDepositsRequest) (*dto.BulkCreateDepositsResponse, error)

	// ListDepositsByAccount retrieves a scope-checked page of an account's deposits.
	ListDepositsByAccount(ctx context.Context, actor domain.Actor, accountID string, params dto.ListDepositsParams) (*dto.ListDepositsResponse, error)
}
