package services

import (
	"context"
	"log/slog"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
	portsrepo "github.com/gullak-app/gullak_backend/internal/core/ports/repositories"
	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/middleware"
)

// scopeResolverService computes per-request visibility from the org hierarchy.
type scopeResolverService struct {
	userRepo portsrepo.UserReader
}

// NewScopeResolverService creates a new ScopeResolverService.
func NewScopeResolverService(userRepo portsrepo.UserReader) portssvc.ScopeResolverSvcFacade {
	return &scopeResolverService{userRepo: userRepo}
}

var _ portssvc.ScopeResolverSvcFacade = (*scopeResolverService)(nil)

// ResolveScope derives the actor's visible agents and clients. Admins see
// everything in their company. Managers see their agents plus those agents'
// clients. Agents see themselves plus their own clients. Clients and unknown
// roles resolve to the empty scope.
func (s *scopeResolverService) ResolveScope(ctx context.Context, actor domain.Actor) (domain.Scope, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if actor.UserID == "" || actor.CompanyID == "" {
		return domain.EmptyScope(), nil
	}

	switch actor.Role {
	case domain.RoleAdmin:
		return domain.Scope{IsAll: true}, nil

	case domain.RoleManager:
		agentIDs, err := s.userRepo.ListAgentIDsByManager(ctx, actor.CompanyID, actor.UserID)
		if err != nil {
			logger.Error("Failed to list agents for manager", slog.String("manager_id", actor.UserID), slog.String("error", err.Error()))
			return domain.EmptyScope(), err
		}
		clientIDs, err := s.userRepo.ListClientIDsByAgents(ctx, actor.CompanyID, agentIDs)
		if err != nil {
			logger.Error("Failed to list clients for manager scope", slog.String("manager_id", actor.UserID), slog.String("error", err.Error()))
			return domain.EmptyScope(), err
		}
		return domain.Scope{AgentIDs: agentIDs, ClientIDs: clientIDs}, nil

	case domain.RoleAgent:
		clientIDs, err := s.userRepo.ListClientIDsByAgents(ctx, actor.CompanyID, []string{actor.UserID})
		if err != nil {
			logger.Error("Failed to list clients for agent scope", slog.String("agent_id", actor.UserID), slog.String("error", err.Error()))
			return domain.EmptyScope(), err
		}
		return domain.Scope{AgentIDs: []string{actor.UserID}, ClientIDs: clientIDs}, nil

	default:
		return domain.EmptyScope(), nil
	}
}
