package dto

import (
	"github.com/gullak-app/gullak_backend/internal/core/domain"
)

// CreateUserRequest adds a user to the company hierarchy.
// ManagerID is required when creating an Agent, AgentID when creating a client.
type CreateUserRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=ADMIN MANAGER AGENT USER"`
	ManagerID string `json:"managerId,omitempty"`
	AgentID   string `json:"agentId,omitempty"`
}

// UpdateUserRequest edits mutable user attributes.
type UpdateUserRequest struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	ManagerID   *string `json:"managerId,omitempty"`
	AgentID     *string `json:"agentId,omitempty"`
	DeviceToken *string `json:"deviceToken,omitempty"` // appended, not replaced
	IsActive    *bool   `json:"isActive,omitempty"`
}

// UserResponse is the wire shape of a user. Credentials never leave the server.
type UserResponse struct {
	UserID    string `json:"userID"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	ManagerID string `json:"managerId,omitempty"`
	AgentID   string `json:"agentId,omitempty"`
	IsActive  bool   `json:"isActive"`
}

// ListUsersParams controls user listing.
type ListUsersParams struct {
	Role      string  `form:"role"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListUsersResponse is a page of users.
type ListUsersResponse struct {
	Users     []UserResponse `json:"users"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToUserResponse converts a domain user to its wire shape.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		ManagerID: u.ManagerID,
		AgentID:   u.AgentID,
		IsActive:  u.IsActive,
	}
}

// ToUserResponses converts a slice of domain users.
func ToUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}
