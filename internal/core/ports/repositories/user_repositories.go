package repositories

import (
	"context"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
)

// UserReader defines read operations for users and the org hierarchy.
type UserReader interface {
	FindUserByID(ctx context.Context, companyID, userID string) (*domain.User, error)

	// FindUserByEmail looks a user up for login; email is unique platform-wide.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	FindUsersByIDs(ctx context.Context, companyID string, userIDs []string) (map[string]domain.User, error)

	// ListUsers retrieves users of a company, optionally restricted to a role.
	ListUsers(ctx context.Context, companyID string, role domain.Role, limit int, nextToken *string) ([]domain.User, *string, error)

	// ListAgentIDsByManager returns the IDs of every Agent supervised by the manager.
	ListAgentIDsByManager(ctx context.Context, companyID, managerID string) ([]string, error)

	// ListClientIDsByAgents returns the IDs of every client assigned to any of the agents.
	ListClientIDsByAgents(ctx context.Context, companyID string, agentIDs []string) ([]string, error)

	// ListDeviceTokens collects registered device tokens for the given users.
	ListDeviceTokens(ctx context.Context, userIDs []string) ([]string, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	SaveUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
	// DeactivateUser soft-deletes a user.
	DeactivateUser(ctx context.Context, companyID, userID, updatedBy string) error
}

// UserRepositoryFacade combines user reads and writes.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
