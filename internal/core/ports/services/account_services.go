package services

import (
	"context"
	"time"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
	"github.com/gullak-app/gullak_backend/internal/dto"
)

// AccountSvcFacade manages savings-account lifecycle outside the deposit flow.
type AccountSvcFacade interface {
	// CreateAccount opens an account: assigns the scheme-prefixed sequential
	// number, computes the maturity date and mode-specific targets.
	CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error)

	GetAccountByID(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error)

	ListAccounts(ctx context.Context, actor domain.Actor, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error)

	// UpdateAccount mutates targets/assignment (Admin only); a changed
	// TotalPayableAmount is validated against the payment mode and collected totals.
	UpdateAccount(ctx context.Context, actor domain.Actor, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// CloseAccount moves an account to the terminal CLOSED state (Admin only).
	CloseAccount(ctx context.Context, actor domain.Actor, accountID string) error

	// DeleteAccount hard-deletes an account and its deposits (Admin only).
	DeleteAccount(ctx context.Context, actor domain.Actor, accountID string) error

	// RunMaturitySweep flips every past-maturity open account to MATURED.
	// Invoked on a schedule; returns the number of accounts transitioned.
	RunMaturitySweep(ctx context.Context, now time.Time) (int, error)
}
