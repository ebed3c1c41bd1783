package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/gullak-app/gullak_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider builds every pgsql repository against one pool and
// selects the transaction strategy. With useTransactions disabled, multi-step
// operations run as independent best-effort statements.
func NewRepositoryProvider(pool *pgxpool.Pool, useTransactions bool) *portsrepo.RepositoryProvider {
	var runner portsrepo.TxRunner
	if useTransactions {
		runner = NewPgxTxRunner(pool)
	} else {
		runner = NewSequentialTxRunner()
	}

	return &portsrepo.RepositoryProvider{
		AccountRepo: newPgxAccountRepository(pool),
		DepositRepo: newPgxDepositRepository(pool),
		UserRepo:    newPgxUserRepository(pool),
		CompanyRepo: newPgxCompanyRepository(pool),
		AuditRepo:   newPgxAuditRepository(pool),
		TxRunner:    runner,
	}
}
