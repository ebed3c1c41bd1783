package services

import (
	"context"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
	"github.com/gullak-app/gullak_backend/internal/dto"
)

// AuditSvcFacade is the audit emitter plus the Admin-only read/clear surface.
type AuditSvcFacade interface {
	// Record appends one entry to the trail. It never returns an error: audit
	// write failures are logged and swallowed so they cannot block or roll
	// back the mutation they describe. The write is awaited, which preserves
	// ordering relative to the triggering mutation.
	Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, entityType, entityID string, status domain.AuditStatus, details map[string]any)

	ListAuditLogs(ctx context.Context, actor domain.Actor, params dto.ListAuditLogsParams) (*dto.ListAuditLogsResponse, error)

	// ClearAuditLogs bulk-deletes the company trail (Admin only).
	ClearAuditLogs(ctx context.Context, actor domain.Actor) (int64, error)
}
