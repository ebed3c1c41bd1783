package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
)

// DepositReader defines read operations for deposit data. Aggregation reads
// join an in-flight database transaction when the context carries one, which
// keeps the cap checks consistent with the mutation that follows them.
type DepositReader interface {
	FindDepositByID(ctx context.Context, companyID, depositID string) (*domain.Deposit, error)

	// SumDeposits totals deposit amounts for an account, optionally windowed
	// to a billing period. excludeDepositID, when non-empty, leaves one
	// deposit out of the aggregate (update/delete re-validation).
	SumDeposits(ctx context.Context, accountID string, window *domain.DateWindow, excludeDepositID string) (decimal.Decimal, error)

	// CountDeposits counts deposits with the same windowing semantics.
	CountDeposits(ctx context.Context, accountID string, window *domain.DateWindow, excludeDepositID string) (int, error)

	// ListDepositsByAccount retrieves a token-paginated deposit list, newest first.
	ListDepositsByAccount(ctx context.Context, companyID, accountID string, limit int, nextToken *string) ([]domain.Deposit, *string, error)

	// FindDepositsByAccountsSince fetches all deposits for the given accounts
	// dated at or after since, in one query (bulk duplicate-window pre-check).
	FindDepositsByAccountsSince(ctx context.Context, accountIDs []string, since time.Time) ([]domain.Deposit, error)
}

// DepositWriter defines write operations for deposit data.
type DepositWriter interface {
	SaveDeposit(ctx context.Context, deposit domain.Deposit) error

	// SaveDepositsBatch inserts many deposits in a single round trip.
	SaveDepositsBatch(ctx context.Context, deposits []domain.Deposit) error

	UpdateDeposit(ctx context.Context, deposit domain.Deposit) error

	DeleteDeposit(ctx context.Context, companyID, depositID string) error
}

// DepositRepositoryFacade combines deposit reads and writes.
type DepositRepositoryFacade interface {
	DepositReader
	DepositWriter
}
