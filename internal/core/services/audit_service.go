package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gullak-app/gullak_backend/internal/apperrors"
	"github.com/gullak-app/gullak_backend/internal/core/domain"
	portsrepo "github.com/gullak-app/gullak_backend/internal/core/ports/repositories"
	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/dto"
	"github.com/gullak-app/gullak_backend/internal/middleware"
)

// auditService is the single audit emitter plus the Admin read/clear surface.
type auditService struct {
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// Record appends one entry to the trail. The write is awaited so entries land
// in mutation order, but a failure is only logged: the audit trail must never
// block or roll back the operation it describes.
func (s *auditService) Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, entityType, entityID string, status domain.AuditStatus, details map[string]any) {
	entry := domain.AuditLog{
		AuditID:    uuid.NewString(),
		CompanyID:  actor.CompanyID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Status:     status,
		Details:    details,
		ActorID:    actor.UserID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.auditRepo.SaveAuditLog(ctx, entry); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to save audit log",
			slog.String("action", string(action)),
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()),
		)
	}
}

// ListAuditLogs retrieves a page of the company trail (Admin only).
func (s *auditService) ListAuditLogs(ctx context.Context, actor domain.Actor, params dto.ListAuditLogsParams) (*dto.ListAuditLogsResponse, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	entries, nextToken, err := s.auditRepo.ListAuditLogs(ctx, actor.CompanyID, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListAuditLogsResponse{
		Entries:   dto.ToAuditLogResponses(entries),
		NextToken: nextToken,
	}, nil
}

// ClearAuditLogs bulk-deletes the company trail (Admin only). The clear itself
// is recorded afterwards, so the fresh trail starts with who emptied it.
func (s *auditService) ClearAuditLogs(ctx context.Context, actor domain.Actor) (int64, error) {
	if actor.Role != domain.RoleAdmin {
		return 0, apperrors.ErrForbidden
	}
	removed, err := s.auditRepo.ClearAuditLogs(ctx, actor.CompanyID)
	if err != nil {
		return 0, err
	}
	s.Record(ctx, actor, domain.ActionAuditClear, "auditLog", "", domain.AuditSuccess, map[string]any{
		"entriesRemoved": removed,
	})
	return removed, nil
}
