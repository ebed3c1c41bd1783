package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gullak-app/gullak_backend/internal/apperrors"
	"github.com/gullak-app/gullak_backend/internal/core/domain"
	portsrepo "github.com/gullak-app/gullak_backend/internal/core/ports/repositories"
	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/dto"
	"github.com/gullak-app/gullak_backend/internal/middleware"
	"github.com/gullak-app/gullak_backend/internal/platform/cache"
	"github.com/gullak-app/gullak_backend/internal/utils"
)

// userService manages the company hierarchy: Admin supervises Managers,
// Managers supervise Agents, Agents service clients.
type userService struct {
	userRepo      portsrepo.UserRepositoryFacade
	scopeSvc      portssvc.ScopeResolverSvcFacade
	auditSvc      portssvc.AuditSvcFacade
	orgChartCache *cache.TTLCache[[]domain.OrgChartNode]
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo portsrepo.UserRepositoryFacade,
	scopeSvc portssvc.ScopeResolverSvcFacade,
	auditSvc portssvc.AuditSvcFacade,
	orgChartTTL time.Duration,
) portssvc.UserSvcFacade {
	return &userService{
		userRepo:      userRepo,
		scopeSvc:      scopeSvc,
		auditSvc:      auditSvc,
		orgChartCache: cache.NewTTLCache[[]domain.OrgChartNode](orgChartTTL),
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// validateHierarchy checks the parent links a new or updated user must carry:
// Agents point at a Manager, clients point at an Agent.
func (s *userService) validateHierarchy(ctx context.Context, companyID string, role domain.Role, managerID, agentID string) error {
	switch role {
	case domain.RoleAgent:
		if managerID == "" {
			return fmt.Errorf("%w: managerId is required for agents", apperrors.ErrValidation)
		}
		mgr, err := s.userRepo.FindUserByID(ctx, companyID, managerID)
		if err != nil || mgr.Role != domain.RoleManager {
			return fmt.Errorf("%w: manager %s not found in company", apperrors.ErrValidation, managerID)
		}
	case domain.RoleClient:
		if agentID == "" {
			return fmt.Errorf("%w: agentId is required for clients", apperrors.ErrValidation)
		}
		agent, err := s.userRepo.FindUserByID(ctx, companyID, agentID)
		if err != nil || agent.Role != domain.RoleAgent {
			return fmt.Errorf("%w: agent %s not found in company", apperrors.ErrValidation, agentID)
		}
	}
	return nil
}

// CreateUser adds a user to the hierarchy (Admin only).
func (s *userService) CreateUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	if actor.Role != domain.RoleAdmin {
		s.auditSvc.Record(ctx, actor, domain.ActionUserCreate, "user", "", domain.AuditFailure, map[string]any{
			"reason": string(domain.ReasonRoleNotPermitted),
		})
		return nil, apperrors.ErrForbidden
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if err := s.validateHierarchy(ctx, actor.CompanyID, role, req.ManagerID, req.AgentID); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, apperrors.NewAppError(500, "failed to process credentials", err)
	}

	user := domain.User{
		UserID:       uuid.NewString(),
		CompanyID:    actor.CompanyID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         role,
		ManagerID:    req.ManagerID,
		AgentID:      req.AgentID,
		PasswordHash: hash,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.orgChartCache.Invalidate(actor.CompanyID)
	s.auditSvc.Record(ctx, actor, domain.ActionUserCreate, "user", user.UserID, domain.AuditSuccess, map[string]any{
		"role": string(role),
	})
	return &user, nil
}

// GetUserByID retrieves one user. Staff see users inside their scope; every
// user may fetch themself.
func (s *userService) GetUserByID(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, actor.CompanyID, userID)
	if err != nil {
		return nil, err
	}
	if userID == actor.UserID {
		return user, nil
	}

	scope, err := s.scopeSvc.ResolveScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	switch user.Role {
	case domain.RoleClient:
		if !scope.AllowsClient(userID) {
			return nil, apperrors.ErrForbidden
		}
	case domain.RoleAgent:
		if !scope.AllowsAgent(userID) {
			return nil, apperrors.ErrForbidden
		}
	default:
		if !scope.IsAll {
			return nil, apperrors.ErrForbidden
		}
	}
	return user, nil
}

// ListUsers retrieves a page of the company's users (Admin and Manager).
func (s *userService) ListUsers(ctx context.Context, actor domain.Actor, params dto.ListUsersParams) (*dto.ListUsersResponse, error) {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleManager {
		return nil, apperrors.ErrForbidden
	}

	var role domain.Role
	if params.Role != "" {
		parsed, err := domain.ParseRole(params.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		role = parsed
	}

	users, nextToken, err := s.userRepo.ListUsers(ctx, actor.CompanyID, role, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	// Managers only see their own subtree.
	if actor.Role == domain.RoleManager {
		scope, err := s.scopeSvc.ResolveScope(ctx, actor)
		if err != nil {
			return nil, err
		}
		visible := users[:0]
		for _, u := range users {
			if u.UserID == actor.UserID || scope.AllowsAgent(u.UserID) || scope.AllowsClient(u.UserID) {
				visible = append(visible, u)
			}
		}
		users = visible
	}

	return &dto.ListUsersResponse{
		Users:     dto.ToUserResponses(users),
		NextToken: nextToken,
	}, nil
}

// UpdateUser edits mutable attributes. Admins may edit anyone in the company;
// other users only themselves, and never their own hierarchy links.
func (s *userService) UpdateUser(ctx context.Context, actor domain.Actor, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	now := time.Now().UTC()

	isSelf := userID == actor.UserID
	if !isSelf && actor.Role != domain.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.userRepo.FindUserByID(ctx, actor.CompanyID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.DeviceToken != nil && *req.DeviceToken != "" {
		exists := false
		for _, t := range user.DeviceTokens {
			if t == *req.DeviceToken {
				exists = true
				break
			}
		}
		if !exists {
			user.DeviceTokens = append(user.DeviceTokens, *req.DeviceToken)
		}
	}

	hierarchyChanged := false
	if req.ManagerID != nil || req.AgentID != nil {
		if actor.Role != domain.RoleAdmin {
			return nil, apperrors.ErrForbidden
		}
		managerID := user.ManagerID
		if req.ManagerID != nil {
			managerID = *req.ManagerID
		}
		agentID := user.AgentID
		if req.AgentID != nil {
			agentID = *req.AgentID
		}
		if err := s.validateHierarchy(ctx, actor.CompanyID, user.Role, managerID, agentID); err != nil {
			return nil, err
		}
		user.ManagerID = managerID
		user.AgentID = agentID
		hierarchyChanged = true
	}

	user.LastUpdatedAt = now
	user.LastUpdatedBy = actor.UserID
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}

	if hierarchyChanged {
		s.orgChartCache.Invalidate(actor.CompanyID)
	}
	s.auditSvc.Record(ctx, actor, domain.ActionUserUpdate, "user", userID, domain.AuditSuccess, nil)
	return user, nil
}

// DeactivateUser soft-deletes a user (Admin only). Deactivating yourself is
// refused so a company cannot lock out its last admin.
func (s *userService) DeactivateUser(ctx context.Context, actor domain.Actor, userID string) error {
	if actor.Role != domain.RoleAdmin {
		s.auditSvc.Record(ctx, actor, domain.ActionUserDelete, "user", userID, domain.AuditFailure, map[string]any{
			"reason": string(domain.ReasonRoleNotPermitted),
		})
		return apperrors.ErrForbidden
	}
	if userID == actor.UserID {
		return fmt.Errorf("%w: cannot deactivate your own account", apperrors.ErrValidation)
	}

	if err := s.userRepo.DeactivateUser(ctx, actor.CompanyID, userID, actor.UserID); err != nil {
		return err
	}

	s.orgChartCache.Invalidate(actor.CompanyID)
	s.auditSvc.Record(ctx, actor, domain.ActionUserDelete, "user", userID, domain.AuditSuccess, nil)
	return nil
}

// GetOrgChart shapes the company hierarchy Manager -> Agents -> Clients. The
// full company chart is built once and cached per company; the actor's scope
// then prunes it per request.
func (s *userService) GetOrgChart(ctx context.Context, actor domain.Actor) ([]domain.OrgChartNode, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if actor.Role == domain.RoleClient {
		return nil, apperrors.ErrForbidden
	}

	chart, ok := s.orgChartCache.Get(actor.CompanyID)
	if !ok {
		built, err := s.buildOrgChart(ctx, actor.CompanyID)
		if err != nil {
			logger.Error("Failed to build org chart", slog.String("company_id", actor.CompanyID), slog.String("error", err.Error()))
			return nil, err
		}
		s.orgChartCache.Set(actor.CompanyID, built)
		chart = built
	}

	if actor.Role == domain.RoleAdmin {
		return chart, nil
	}

	scope, err := s.scopeSvc.ResolveScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	var pruned []domain.OrgChartNode
	for _, managerNode := range chart {
		if actor.Role == domain.RoleManager && managerNode.User.UserID != actor.UserID {
			continue
		}
		node := domain.OrgChartNode{User: managerNode.User}
		for _, agentNode := range managerNode.Reports {
			if !scope.AllowsAgent(agentNode.User.UserID) {
				continue
			}
			node.Reports = append(node.Reports, agentNode)
		}
		if actor.Role == domain.RoleManager || len(node.Reports) > 0 {
			pruned = append(pruned, node)
		}
	}
	return pruned, nil
}

// buildOrgChart loads the whole company in pages and wires the three levels
// in memory.
func (s *userService) buildOrgChart(ctx context.Context, companyID string) ([]domain.OrgChartNode, error) {
	var all []domain.User
	var nextToken *string
	for {
		page, token, err := s.userRepo.ListUsers(ctx, companyID, "", 500, nextToken)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if token == nil {
			break
		}
		nextToken = token
	}

	clientsByAgent := make(map[string][]domain.OrgChartNode)
	for _, u := range all {
		if u.Role == domain.RoleClient {
			clientsByAgent[u.AgentID] = append(clientsByAgent[u.AgentID], domain.OrgChartNode{User: u})
		}
	}
	agentsByManager := make(map[string][]domain.OrgChartNode)
	for _, u := range all {
		if u.Role == domain.RoleAgent {
			agentsByManager[u.ManagerID] = append(agentsByManager[u.ManagerID], domain.OrgChartNode{
				User:    u,
				Reports: clientsByAgent[u.UserID],
			})
		}
	}

	var chart []domain.OrgChartNode
	for _, u := range all {
		if u.Role == domain.RoleManager {
			chart = append(chart, domain.OrgChartNode{
				User:    u,
				Reports: agentsByManager[u.UserID],
			})
		}
	}
	return chart, nil
}
