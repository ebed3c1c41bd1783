package repositories

import (
	"context"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
)

// AuditRepositoryFacade defines persistence for the append-only audit trail.
type AuditRepositoryFacade interface {
	SaveAuditLog(ctx context.Context, entry domain.AuditLog) error

	// ListAuditLogs retrieves a token-paginated slice of a company's trail, newest first.
	ListAuditLogs(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.AuditLog, *string, error)

	// ClearAuditLogs bulk-deletes a company's trail and reports rows removed.
	ClearAuditLogs(ctx context.Context, companyID string) (int64, error)
}
