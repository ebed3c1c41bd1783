package dto

import (
	"time"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
)

// AuditLogResponse is the wire shape of one audit entry.
type AuditLogResponse struct {
	AuditID    string         `json:"auditID"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityID,omitempty"`
	Status     string         `json:"status"`
	Details    map[string]any `json:"details,omitempty"`
	ActorID    string         `json:"actorID"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// ListAuditLogsParams controls audit trail pagination.
type ListAuditLogsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListAuditLogsResponse is a page of audit entries.
type ListAuditLogsResponse struct {
	Entries   []AuditLogResponse `json:"entries"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToAuditLogResponse converts a domain audit entry to its wire shape.
func ToAuditLogResponse(e *domain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		AuditID:    e.AuditID,
		Action:     string(e.Action),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Status:     string(e.Status),
		Details:    e.Details,
		ActorID:    e.ActorID,
		CreatedAt:  e.CreatedAt,
	}
}

// ToAuditLogResponses converts a slice of domain audit entries.
func ToAuditLogResponses(entries []domain.AuditLog) []AuditLogResponse {
	out := make([]AuditLogResponse, len(entries))
	for i := range entries {
		out[i] = ToAuditLogResponse(&entries[i])
	}
	return out
}
