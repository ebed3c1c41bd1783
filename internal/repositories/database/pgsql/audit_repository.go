package pgsql

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gullak-app/gullak_backend/internal/apperrors"
	"github.com/gullak-app/gullak_backend/internal/core/domain"
	portsrepo "github.com/gullak-app/gullak_backend/internal/core/ports/repositories"
	"github.com/gullak-app/gullak_backend/internal/models"
	"github.com/gullak-app/gullak_backend/internal/utils/mapping"
	"github.com/gullak-app/gullak_backend/internal/utils/pagination"
)

const auditColumns = `audit_id, company_id, action, entity_type, entity_id,
	status, details, actor_id, created_at`

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// SaveAuditLog appends one entry to the trail. Audit writes never join an
// in-flight transaction so a rollback cannot erase a FAILURE record.
func (r *PgxAuditRepository) SaveAuditLog(ctx context.Context, entry domain.AuditLog) error {
	m, err := mapping.ToModelAuditLog(entry)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode audit details", err)
	}
	query := `
		INSERT INTO audit_logs (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.AuditID, m.CompanyID, m.Action, m.EntityType, m.EntityID,
		m.Status, m.Details, m.ActorID, m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save audit log "+m.AuditID, err)
	}
	return nil
}

// ListAuditLogs retrieves a token-paginated slice of a company's trail,
// newest first.
func (r *PgxAuditRepository) ListAuditLogs(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.AuditLog, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE company_id = $1`
	args := []any{companyID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
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
		return nil, nil, apperrors.NewAppError(500, "failed to list audit logs for company "+companyID, err)
	}
	defer rows.Close()

	entries := make([]models.AuditLog, 0, fetchLimit)
	for rows.Next() {
		var m models.AuditLog
		if err := rows.Scan(
			&m.AuditID, &m.CompanyID, &m.Action, &m.EntityType, &m.EntityID,
			&m.Status, &m.Details, &m.ActorID, &m.CreatedAt,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan audit log row", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating audit log rows", err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		token := pagination.EncodeDateBasedToken(entries[limit-1].CreatedAt)
		nextTokenVal = &token
		entries = entries[:limit]
	}

	return mapping.ToDomainAuditLogSlice(entries), nextTokenVal, nil
}

// ClearAuditLogs bulk-deletes a company's trail and reports rows removed.
func (r *PgxAuditRepository) ClearAuditLogs(ctx context.Context, companyID string) (int64, error) {
	cmdTag, err := r.db(ctx).Exec(ctx, `DELETE FROM audit_logs WHERE company_id = $1;`, companyID)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to clear audit logs for company "+companyID, err)
	}
	return cmdTag.RowsAffected(), nil
}
