package models

import "time"

// AuditLog is the DB shape of one audit-trail entry. Details is stored as a
// jsonb column.
type AuditLog struct {
	AuditID    string    `db:"audit_id"`
	CompanyID  string    `db:"company_id"`
	Action     string    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Status     string    `db:"status"`
	Details    []byte    `db:"details"`
	ActorID    string    `db:"actor_id"`
	CreatedAt  time.Time `db:"created_at"`
}
