package services

import (
	"context"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
	"github.com/gullak-app/gullak_backend/internal/dto"
)

// UserSvcFacade manages the company hierarchy.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, actor domain.Actor, params dto.ListUsersParams) (*dto.ListUsersResponse, error)
	UpdateUser(ctx context.Context, actor domain.Actor, userID string, req dto.UpdateUserRequest) (*domain.User, error)
	// DeactivateUser soft-deletes a user (Admin only).
	DeactivateUser(ctx context.Context, actor domain.Actor, userID string) error

	// GetOrgChart shapes the company hierarchy Manager -> Agents -> Clients,
	// restricted to the actor's scope. Served through a TTL cache invalidated
	// on user mutations.
	GetOrgChart(ctx context.Context, actor domain.Actor) ([]domain.OrgChartNode, error)
}

// AuthSvcFacade issues access tokens. Session mechanics beyond token issuance
// are out of scope.
type AuthSvcFacade interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
