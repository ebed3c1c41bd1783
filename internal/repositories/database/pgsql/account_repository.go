package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gullak-app/gullak_backend/internal/apperrors"
	"github.com/gullak-app/gullak_backend/internal/core/domain"
	portsrepo "github.com/gullak-app/gullak_backend/internal/core/ports/repositories"
	"github.com/gullak-app/gullak_backend/internal/models"
	"github.com/gullak-app/gullak_backend/internal/utils/mapping"
	"github.com/gullak-app/gullak_backend/internal/utils/pagination"
)

const accountColumns = `account_id, company_id, account_number, scheme_type, payment_mode,
	user_id, agent_id, duration_months, start_date, maturity_date,
	total_payable_amount, installment_amount, monthly_target, yearly_amount,
	balance, is_fully_paid, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.CompanyID,
		&m.AccountNumber,
		&m.SchemeType,
		&m.PaymentMode,
		&m.UserID,
		&m.AgentID,
		&m.DurationMonths,
		&m.StartDate,
		&m.MaturityDate,
		&m.TotalPayableAmount,
		&m.InstallmentAmount,
		&m.MonthlyTarget,
		&m.YearlyAmount,
		&m.Balance,
		&m.IsFullyPaid,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.AccountID, m.CompanyID, m.AccountNumber, m.SchemeType, m.PaymentMode,
		m.UserID, m.AgentID, m.DurationMonths, m.StartDate, m.MaturityDate,
		m.TotalPayableAmount, m.InstallmentAmount, m.MonthlyTarget, m.YearlyAmount,
		m.Balance, m.IsFullyPaid, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return apperrors.NewAppError(500, "failed to save account "+m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account scoped to a company.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND company_id = $2;`
	m, err := scanAccount(r.db(ctx).QueryRow(ctx, query, accountID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+accountID, err)
	}
	acc := mapping.ToDomainAccount(*m)
	return &acc, nil
}

// FindAccountByIDForUpdate retrieves an account, locking its row when the
// context carries a transaction. Outside a transaction the lock would be
// released immediately, so a plain read is issued instead.
func (r *PgxAccountRepository) FindAccountByIDForUpdate(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND company_id = $2`
	if r.inTx(ctx) {
		query += ` FOR UPDATE`
	}
	m, err := scanAccount(r.db(ctx).QueryRow(ctx, query+";", accountID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock account "+accountID, err)
	}
	acc := mapping.ToDomainAccount(*m)
	return &acc, nil
}

// FindAccountsByIDs retrieves several accounts in one query, keyed by ID.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND account_id = ANY($2);`
	rows, err := r.db(ctx).Query(ctx, query, companyID, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by IDs", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		result[m.AccountID] = mapping.ToDomainAccount(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return result, nil
}

// ListAccounts retrieves a filtered, token-paginated account list ordered by
// creation time, newest first.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string, filter portsrepo.ListAccountsFilter) ([]domain.Account, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1`
	args := []any{companyID}

	if filter.ClientIDs != nil {
		args = append(args, filter.ClientIDs)
		query += ` AND user_id = ANY($` + strconv.Itoa(len(args)) + `)`
	}
	if filter.AgentID != "" {
		args = append(args, filter.AgentID)
		query += ` AND agent_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		query += ` AND created_at < $` + strconv.Itoa(len(args))
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list accounts for company "+companyID, err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0, fetchLimit)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}

	var nextTokenVal *string
	if len(accounts) > limit {
		token := pagination.EncodeDateBasedToken(accounts[limit-1].CreatedAt)
		nextTokenVal = &token
		accounts = accounts[:limit]
	}

	result := make([]domain.Account, len(accounts))
	for i, m := range accounts {
		result[i] = mapping.ToDomainAccount(m)
	}
	return result, nextTokenVal, nil
}

// UpdateAccountState applies a recomputed aggregate snapshot in one statement.
func (r *PgxAccountRepository) UpdateAccountState(ctx context.Context, accountID string, balance decimal.Decimal, status domain.AccountStatus, isFullyPaid bool, updatedBy string, at time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, status = $3, is_fully_paid = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $1;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, accountID, balance, string(status), isFullyPaid, at, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update state of account "+accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found for state update")
	}
	return nil
}

// UpdateAccountStatus flips only the status column.
func (r *PgxAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, updatedBy string, at time.Time) error {
	query := `
		UPDATE accounts
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, accountID, string(status), at, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of account "+accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found for status update")
	}
	return nil
}

// UpdateAccount persists mutable account attributes.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET agent_id = $2, total_payable_amount = $3, installment_amount = $4,
		    monthly_target = $5, yearly_amount = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE account_id = $1;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		m.AccountID, m.AgentID, m.TotalPayableAmount, m.InstallmentAmount,
		m.MonthlyTarget, m.YearlyAmount, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update account "+m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + m.AccountID + " not found for update")
	}
	return nil
}

// DeleteAccount hard-deletes an account and its deposits. The deposit cascade
// runs first so a failure cannot orphan rows.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, companyID, accountID string) error {
	q := r.db(ctx)
	if _, err := q.Exec(ctx, `DELETE FROM deposits WHERE account_id = $1 AND company_id = $2;`, accountID, companyID); err != nil {
		return apperrors.NewAppError(500, "failed to delete deposits of account "+accountID, err)
	}
	cmdTag, err := q.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1 AND company_id = $2;`, accountID, companyID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete account "+accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found for delete")
	}
	return nil
}

// NextAccountNumber reserves the next sequential number for a payment mode
// within a company. The counter row is upserted on first use.
func (r *PgxAccountRepository) NextAccountNumber(ctx context.Context, companyID string, mode domain.PaymentMode) (int64, error) {
	query := `
		INSERT INTO account_counters (company_id, payment_mode, next_value)
		VALUES ($1, $2, 2)
		ON CONFLICT (company_id, payment_mode)
		DO UPDATE SET next_value = account_counters.next_value + 1
		RETURNING next_value - 1;
	`
	var value int64
	if err := r.db(ctx).QueryRow(ctx, query, companyID, string(mode)).Scan(&value); err != nil {
		return 0, apperrors.NewAppError(500, "failed to reserve account number", err)
	}
	return value, nil
}

// MarkMaturedAccounts flips every past-maturity open account to MATURED and
// returns the affected IDs.
func (r *PgxAccountRepository) MarkMaturedAccounts(ctx context.Context, now time.Time) ([]string, error) {
	query := `
		UPDATE accounts
		SET status = $1, last_updated_at = $2, last_updated_by = 'maturity-sweep'
		WHERE maturity_date <= $2 AND status NOT IN ($3, $4)
		RETURNING account_id;
	`
	rows, err := r.db(ctx).Query(ctx, query, string(domain.StatusMatured), now, string(domain.StatusMatured), string(domain.StatusClosed))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to mark matured accounts", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan matured account id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating matured account rows", err)
	}
	return ids, nil
}
