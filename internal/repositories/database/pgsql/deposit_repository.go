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

const depositColumns = `deposit_id, company_id, account_id, user_id, collected_by,
	scheme_type, amount, deposit_date,
	created_at, created_by, last_updated_at, last_updated_by`

// batchInsertChunkSize bounds one pgx.Batch round trip during bulk posting.
const batchInsertChunkSize = 100

type PgxDepositRepository struct {
	BaseRepository
}

// newPgxDepositRepository creates a new repository for deposit data.
func newPgxDepositRepository(pool *pgxpool.Pool) portsrepo.DepositRepositoryFacade {
	return &PgxDepositRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DepositRepositoryFacade = (*PgxDepositRepository)(nil)

func scanDeposit(row pgx.Row) (*models.Deposit, error) {
	var m models.Deposit
	err := row.Scan(
		&m.DepositID,
		&m.CompanyID,
		&m.AccountID,
		&m.UserID,
		&m.CollectedBy,
		&m.SchemeType,
		&m.Amount,
		&m.Date,
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

const insertDepositSQL = `
	INSERT INTO deposits (` + depositColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

func depositInsertArgs(m models.Deposit) []any {
	return []any{
		m.DepositID, m.CompanyID, m.AccountID, m.UserID, m.CollectedBy,
		m.SchemeType, m.Amount, m.Date,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

// SaveDeposit inserts a single deposit.
func (r *PgxDepositRepository) SaveDeposit(ctx context.Context, deposit domain.Deposit) error {
	m := mapping.ToModelDeposit(deposit)
	_, err := r.db(ctx).Exec(ctx, insertDepositSQL, depositInsertArgs(m)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: deposit %s already exists", apperrors.ErrDuplicate, m.DepositID)
		}
		return apperrors.NewAppError(500, "failed to save deposit "+m.DepositID, err)
	}
	return nil
}

// SaveDepositsBatch inserts many deposits using batched round trips.
func (r *PgxDepositRepository) SaveDepositsBatch(ctx context.Context, deposits []domain.Deposit) error {
	if len(deposits) == 0 {
		return nil
	}
	q := r.db(ctx)
	for start := 0; start < len(deposits); start += batchInsertChunkSize {
		end := start + batchInsertChunkSize
		if end > len(deposits) {
			end = len(deposits)
		}

		batch := &pgx.Batch{}
		for _, d := range deposits[start:end] {
			batch.Queue(insertDepositSQL, depositInsertArgs(mapping.ToModelDeposit(d))...)
		}

		br := q.SendBatch(ctx, batch)
		var execErr error
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil && execErr == nil {
				execErr = err
			}
		}
		if closeErr := br.Close(); closeErr != nil && execErr == nil {
			execErr = closeErr
		}
		if execErr != nil {
			return apperrors.NewAppError(500, "failed to batch-insert deposits", execErr)
		}
	}
	return nil
}

// FindDepositByID retrieves a deposit scoped to a company.
func (r *PgxDepositRepository) FindDepositByID(ctx context.Context, companyID, depositID string) (*domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE deposit_id = $1 AND company_id = $2;`
	m, err := scanDeposit(r.db(ctx).QueryRow(ctx, query, depositID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find deposit "+depositID, err)
	}
	d := mapping.ToDomainDeposit(*m)
	return &d, nil
}

func depositAggregateClause(accountID string, window *domain.DateWindow, excludeDepositID string) (string, []any) {
	clause := ` WHERE account_id = $1`
	args := []any{accountID}
	if window != nil {
		args = append(args, window.Start, window.End)
		clause += ` AND deposit_date >= $` + strconv.Itoa(len(args)-1) + ` AND deposit_date < $` + strconv.Itoa(len(args))
	}
	if excludeDepositID != "" {
		args = append(args, excludeDepositID)
		clause += ` AND deposit_id <> $` + strconv.Itoa(len(args))
	}
	return clause, args
}

// SumDeposits totals deposit amounts for an account, optionally windowed.
func (r *PgxDepositRepository) SumDeposits(ctx context.Context, accountID string, window *domain.DateWindow, excludeDepositID string) (decimal.Decimal, error) {
	clause, args := depositAggregateClause(accountID, window, excludeDepositID)
	query := `SELECT COALESCE(SUM(amount), 0) FROM deposits` + clause + `;`

	var sum decimal.Decimal
	if err := r.db(ctx).QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum deposits of account "+accountID, err)
	}
	return sum, nil
}

// CountDeposits counts deposits with the same windowing semantics as SumDeposits.
func (r *PgxDepositRepository) CountDeposits(ctx context.Context, accountID string, window *domain.DateWindow, excludeDepositID string) (int, error) {
	clause, args := depositAggregateClause(accountID, window, excludeDepositID)
	query := `SELECT COUNT(*) FROM deposits` + clause + `;`

	var count int
	if err := r.db(ctx).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count deposits of account "+accountID, err)
	}
	return count, nil
}

// ListDepositsByAccount retrieves a token-paginated deposit list ordered by
// deposit date then creation time, newest first.
func (r *PgxDepositRepository) ListDepositsByAccount(ctx context.Context, companyID, accountID string, limit int, nextToken *string) ([]domain.Deposit, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + depositColumns + ` FROM deposits WHERE company_id = $1 AND account_id = $2`
	args := []any{companyID, accountID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		query += ` AND (deposit_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY deposit_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list deposits of account "+accountID, err)
	}
	defer rows.Close()

	deposits := make([]models.Deposit, 0, fetchLimit)
	for rows.Next() {
		m, err := scanDeposit(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan deposit row", err)
		}
		deposits = append(deposits, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating deposit rows", err)
	}

	var nextTokenVal *string
	if len(deposits) > limit {
		last := deposits[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextTokenVal = &token
		deposits = deposits[:limit]
	}

	return mapping.ToDomainDepositSlice(deposits), nextTokenVal, nil
}

// FindDepositsByAccountsSince fetches all deposits for the given accounts
// dated at or after since.
func (r *PgxDepositRepository) FindDepositsByAccountsSince(ctx context.Context, accountIDs []string, since time.Time) ([]domain.Deposit, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE account_id = ANY($1) AND deposit_date >= $2;`
	rows, err := r.db(ctx).Query(ctx, query, accountIDs, since)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query deposits by accounts", err)
	}
	defer rows.Close()

	var deposits []models.Deposit
	for rows.Next() {
		m, err := scanDeposit(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan deposit row", err)
		}
		deposits = append(deposits, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating deposit rows", err)
	}
	return mapping.ToDomainDepositSlice(deposits), nil
}

// UpdateDeposit persists a corrected amount and date.
func (r *PgxDepositRepository) UpdateDeposit(ctx context.Context, deposit domain.Deposit) error {
	m := mapping.ToModelDeposit(deposit)
	query := `
		UPDATE deposits
		SET amount = $2, deposit_date = $3, last_updated_at = $4, last_updated_by = $5
		WHERE deposit_id = $1;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, m.DepositID, m.Amount, m.Date, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update deposit "+m.DepositID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("deposit " + m.DepositID + " not found for update")
	}
	return nil
}

// DeleteDeposit hard-deletes a deposit.
func (r *PgxDepositRepository) DeleteDeposit(ctx context.Context, companyID, depositID string) error {
	cmdTag, err := r.db(ctx).Exec(ctx, `DELETE FROM deposits WHERE deposit_id = $1 AND company_id = $2;`, depositID, companyID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete deposit "+depositID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("deposit " + depositID + " not found for delete")
	}
	return nil
}
