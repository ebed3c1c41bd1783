package mapping

import (
	"encoding/json"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
	"github.com/gullak-app/gullak_backend/internal/models"
)

// ToModelAuditLog converts a domain audit entry to its DB shape, marshalling
// the detail payload to jsonb bytes.
func ToModelAuditLog(d domain.AuditLog) (models.AuditLog, error) {
	var details []byte
	if d.Details != nil {
		b, err := json.Marshal(d.Details)
		if err != nil {
			return models.AuditLog{}, err
		}
		details = b
	}
	return models.AuditLog{
		AuditID:    d.AuditID,
		CompanyID:  d.CompanyID,
		Action:     string(d.Action),
		EntityType: d.EntityType,
		EntityID:   d.EntityID,
		Status:     string(d.Status),
		Details:    details,
		ActorID:    d.ActorID,
		CreatedAt:  d.CreatedAt,
	}, nil
}

// ToDomainAuditLog converts a DB audit row to the domain shape. A corrupt
// detail payload yields a nil map rather than an error; the entry itself is
// still returned.
func ToDomainAuditLog(m models.AuditLog) domain.AuditLog {
	var details map[string]any
	if len(m.Details) > 0 {
		_ = json.Unmarshal(m.Details, &details)
	}
	return domain.AuditLog{
		AuditID:    m.AuditID,
		CompanyID:  m.CompanyID,
		Action:     domain.AuditAction(m.Action),
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Status:     domain.AuditStatus(m.Status),
		Details:    details,
		ActorID:    m.ActorID,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomainAuditLogSlice converts DB audit rows to domain shapes.
func ToDomainAuditLogSlice(ms []models.AuditLog) []domain.AuditLog {
	out := make([]domain.AuditLog, len(ms))
	for i, m := range ms {
		out[i] = ToDomainAuditLog(m)
	}
	return out
}
