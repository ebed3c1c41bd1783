package domain

import "fmt"

// Role is the closed set of positions in the company hierarchy.
// Admin supervises Managers, Managers supervise Agents, Agents collect
// deposits from their assigned clients.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleAgent   Role = "AGENT"
	RoleClient  Role = "USER"
)

// ParseRole converts a raw string into a Role, rejecting anything outside the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleAgent, RoleClient:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// IsCollectionStaff reports whether the role is allowed to record deposits.
func (r Role) IsCollectionStaff() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleAgent
}

// Actor is the authenticated identity attached to every request.
type Actor struct {
	UserID    string `json:"userID"`
	Role      Role   `json:"role"`
	CompanyID string `json:"companyID"`
}
