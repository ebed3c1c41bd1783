package services

import (
	"context"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
)

// ScopeResolverSvcFacade computes the set of agents and clients visible to an
// actor from the org hierarchy. Pure read, no side effects; a malformed actor
// resolves to the empty scope.
type ScopeResolverSvcFacade interface {
	ResolveScope(ctx context.Context, actor domain.Actor) (domain.Scope, error)
}
