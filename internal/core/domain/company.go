package domain

// Company is a tenant. Every other entity is scoped to exactly one company.
type Company struct {
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	IsActive  bool   `json:"isActive"`
	AuditFields
}
