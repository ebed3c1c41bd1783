package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
)

// ListAccountsFilter narrows ListAccounts to an actor's visible set.
// A nil ClientIDs means no client restriction (Admin scope).
type ListAccountsFilter struct {
	ClientIDs []string
	AgentID   string
	Status    domain.AccountStatus
	Limit     int
	NextToken *string
}

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves an account scoped to a company.
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves several accounts in one query, keyed by ID.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByIDForUpdate retrieves an account and, when the context
	// carries a database transaction, locks its row for the duration.
	FindAccountByIDForUpdate(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a filtered, token-paginated account list.
	ListAccounts(ctx context.Context, companyID string, filter ListAccountsFilter) ([]domain.Account, *string, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountState applies a recomputed aggregate snapshot: balance,
	// status and the fully-paid flag, in one statement.
	UpdateAccountState(ctx context.Context, accountID string, balance decimal.Decimal, status domain.AccountStatus, isFullyPaid bool, updatedBy string, at time.Time) error

	// UpdateAccountStatus flips only the status (maturity transitions).
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, updatedBy string, at time.Time) error

	// UpdateAccount persists mutable account attributes (targets, agent).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount hard-deletes an account and cascades its deposits.
	DeleteAccount(ctx context.Context, companyID, accountID string) error

	// NextAccountNumber reserves the next sequential number for a payment mode
	// within a company.
	NextAccountNumber(ctx context.Context, companyID string, mode domain.PaymentMode) (int64, error)

	// MarkMaturedAccounts flips every past-maturity, still-open account to
	// MATURED and returns the affected account IDs.
	MarkMaturedAccounts(ctx context.Context, now time.Time) ([]string, error)
}

// AccountRepositoryFacade combines account reads and writes.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
