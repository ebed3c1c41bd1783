package domain

// User is any person in the hierarchy: Admin, Manager, Agent or client.
// ManagerID is set for Agents (their supervisor); AgentID is set for clients
// (the Agent who services their accounts).
type User struct {
	UserID       string   `json:"userID"`
	CompanyID    string   `json:"companyID"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Role         Role     `json:"role"`
	ManagerID    string   `json:"managerID,omitempty"`
	AgentID      string   `json:"agentID,omitempty"`
	PasswordHash string   `json:"-"`
	DeviceTokens []string `json:"-"` // push-notification targets
	IsActive     bool     `json:"isActive"`
	AuditFields
}

// OrgChartNode is one level of the Manager -> Agents -> Clients shaping
// returned by the org-chart endpoint.
type OrgChartNode struct {
	User    User           `json:"user"`
	Reports []OrgChartNode `json:"reports,omitempty"`
}
