package models

// User is the DB shape of a hierarchy member. DeviceTokens is stored as a
// text[] column.
type User struct {
	UserID       string   `db:"user_id"`
	CompanyID    string   `db:"company_id"`
	Name         string   `db:"name"`
	Email        string   `db:"email"`
	Phone        string   `db:"phone"`
	Role         string   `db:"role"`
	ManagerID    string   `db:"manager_id"`
	AgentID      string   `db:"agent_id"`
	PasswordHash string   `db:"password_hash"`
	DeviceTokens []string `db:"device_tokens"`
	IsActive     bool     `db:"is_active"`
	AuditFields
}
