package models

// Company is the DB shape of a tenant.
type Company struct {
	CompanyID string `db:"company_id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Phone     string `db:"phone"`
	Address   string `db:"address"`
	IsActive  bool   `db:"is_active"`
	AuditFields
}
