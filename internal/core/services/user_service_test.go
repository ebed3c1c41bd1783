package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/gullak-app/gullak_backend/internal/apperrors"
	"github.com/gullak-app/gullak_backend/internal/core/domain"
	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/core/services"
	"github.com/gullak-app/gullak_backend/internal/dto"
	"github.com/gullak-app/gullak_backend/internal/utils"
)

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, companyID, userID string) (*domain.User, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsersByIDs(ctx context.Context, companyID string, userIDs []string) (map[string]domain.User, error) {
	args := m.Called(ctx, companyID, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, companyID string, role domain.Role, limit int, nextToken *string) ([]domain.User, *string, error) {
	args := m.Called(ctx, companyID, role, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(*string), args.Error(2)
}

func (m *MockUserRepository) ListAgentIDsByManager(ctx context.Context, companyID, managerID string) ([]string, error) {
	args := m.Called(ctx, companyID, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserRepository) ListClientIDsByAgents(ctx context.Context, companyID string, agentIDs []string) ([]string, error) {
	args := m.Called(ctx, companyID, agentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserRepository) ListDeviceTokens(ctx context.Context, userIDs []string) ([]string, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeactivateUser(ctx context.Context, companyID, userID, updatedBy string) error {
	args := m.Called(ctx, companyID, userID, updatedBy)
	return args.Error(0)
}

// --- Test Suite Setup ---

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockUserRepository
	mockScope *MockScopeResolver
	audit     *recordingAuditService
	service   portssvc.UserSvcFacade

	admin domain.Actor
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.mockScope = new(MockScopeResolver)
	suite.audit = &recordingAuditService{}
	suite.service = services.NewUserService(suite.mockRepo, suite.mockScope, suite.audit, time.Minute)
	suite.admin = domain.Actor{
		UserID:    uuid.NewString(),
		Role:      domain.RoleAdmin,
		CompanyID: uuid.NewString(),
	}
}

// --- Test Cases ---

func (suite *UserServiceTestSuite) TestCreateUser_Manager() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Name:     "M. Iyer",
		Email:    "m.iyer@example.com",
		Password: "secret-pass-123",
		Role:     "MANAGER",
	}

	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, suite.admin, req)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleManager, user.Role)
	suite.Equal(suite.admin.CompanyID, user.CompanyID)
	suite.True(user.IsActive)
	suite.NotEqual(req.Password, user.PasswordHash)
	suite.True(utils.CheckPasswordHash(req.Password, user.PasswordHash))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_AgentNeedsManager() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Name:     "A. Gupta",
		Email:    "a.gupta@example.com",
		Password: "secret-pass-123",
		Role:     "AGENT",
	}

	user, err := suite.service.CreateUser(ctx, suite.admin, req)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(user)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser")
}

func (suite *UserServiceTestSuite) TestCreateUser_ClientLinksToAgent() {
	ctx := context.Background()
	agentID := uuid.NewString()
	req := dto.CreateUserRequest{
		Name:     "C. Rao",
		Email:    "c.rao@example.com",
		Password: "secret-pass-123",
		Role:     "USER",
		AgentID:  agentID,
	}

	agent := &domain.User{UserID: agentID, Role: domain.RoleAgent, CompanyID: suite.admin.CompanyID}
	suite.mockRepo.On("FindUserByID", ctx, suite.admin.CompanyID, agentID).Return(agent, nil).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, suite.admin, req)

	suite.Require().NoError(err)
	suite.Equal(agentID, user.AgentID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_NonAdminForbidden() {
	ctx := context.Background()
	manager := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleManager, CompanyID: suite.admin.CompanyID}

	user, err := suite.service.CreateUser(ctx, manager, dto.CreateUserRequest{
		Name: "X", Email: "x@example.com", Password: "secret-pass-123", Role: "AGENT",
	})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestGetUserByID_Self() {
	ctx := context.Background()
	self := &domain.User{UserID: suite.admin.UserID, Role: domain.RoleAdmin, CompanyID: suite.admin.CompanyID}

	suite.mockRepo.On("FindUserByID", ctx, suite.admin.CompanyID, suite.admin.UserID).Return(self, nil).Once()

	user, err := suite.service.GetUserByID(ctx, suite.admin, suite.admin.UserID)

	suite.Require().NoError(err)
	suite.Equal(self.UserID, user.UserID)
	suite.mockScope.AssertNotCalled(suite.T(), "ResolveScope")
}

func (suite *UserServiceTestSuite) TestGetUserByID_OutOfScope() {
	ctx := context.Background()
	agent := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAgent, CompanyID: suite.admin.CompanyID}
	otherClient := &domain.User{UserID: uuid.NewString(), Role: domain.RoleClient, CompanyID: agent.CompanyID}

	suite.mockRepo.On("FindUserByID", ctx, agent.CompanyID, otherClient.UserID).Return(otherClient, nil).Once()
	suite.mockScope.On("ResolveScope", ctx, agent).Return(domain.Scope{AgentIDs: []string{agent.UserID}}, nil).Once()

	user, err := suite.service.GetUserByID(ctx, agent, otherClient.UserID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestListUsers_ManagerSeesOwnSubtree() {
	ctx := context.Background()
	manager := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleManager, CompanyID: suite.admin.CompanyID}
	agentID := uuid.NewString()
	clientID := uuid.NewString()
	outsider := uuid.NewString()

	page := []domain.User{
		{UserID: manager.UserID, Role: domain.RoleManager},
		{UserID: agentID, Role: domain.RoleAgent, ManagerID: manager.UserID},
		{UserID: clientID, Role: domain.RoleClient, AgentID: agentID},
		{UserID: outsider, Role: domain.RoleAgent},
	}
	suite.mockRepo.On("ListUsers", ctx, manager.CompanyID, domain.Role(""), 50, (*string)(nil)).
		Return(page, (*string)(nil), nil).Once()
	suite.mockScope.On("ResolveScope", ctx, manager).
		Return(domain.Scope{AgentIDs: []string{agentID}, ClientIDs: []string{clientID}}, nil).Once()

	resp, err := suite.service.ListUsers(ctx, manager, dto.ListUsersParams{Limit: 50})

	suite.Require().NoError(err)
	suite.Len(resp.Users, 3)
	for _, u := range resp.Users {
		suite.NotEqual(outsider, u.UserID)
	}
}

func (suite *UserServiceTestSuite) TestListUsers_AgentForbidden() {
	ctx := context.Background()
	agent := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAgent, CompanyID: suite.admin.CompanyID}

	resp, err := suite.service.ListUsers(ctx, agent, dto.ListUsersParams{Limit: 50})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(resp)
}

func (suite *UserServiceTestSuite) TestUpdateUser_AppendsDeviceToken() {
	ctx := context.Background()
	user := &domain.User{
		UserID:       suite.admin.UserID,
		CompanyID:    suite.admin.CompanyID,
		Role:         domain.RoleAdmin,
		DeviceTokens: []string{"tok-1"},
	}
	token := "tok-2"

	suite.mockRepo.On("FindUserByID", ctx, suite.admin.CompanyID, user.UserID).Return(user, nil).Once()
	suite.mockRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return len(u.DeviceTokens) == 2 && u.DeviceTokens[1] == token
	})).Return(nil).Once()

	updated, err := suite.service.UpdateUser(ctx, suite.admin, user.UserID, dto.UpdateUserRequest{DeviceToken: &token})

	suite.Require().NoError(err)
	suite.Len(updated.DeviceTokens, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUser_DuplicateDeviceTokenIgnored() {
	ctx := context.Background()
	user := &domain.User{
		UserID:       suite.admin.UserID,
		CompanyID:    suite.admin.CompanyID,
		Role:         domain.RoleAdmin,
		DeviceTokens: []string{"tok-1"},
	}
	token := "tok-1"

	suite.mockRepo.On("FindUserByID", ctx, suite.admin.CompanyID, user.UserID).Return(user, nil).Once()
	suite.mockRepo.On("UpdateUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	updated, err := suite.service.UpdateUser(ctx, suite.admin, user.UserID, dto.UpdateUserRequest{DeviceToken: &token})

	suite.Require().NoError(err)
	suite.Len(updated.DeviceTokens, 1)
}

func (suite *UserServiceTestSuite) TestUpdateUser_HierarchyLinksAdminOnly() {
	ctx := context.Background()
	agent := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAgent, CompanyID: suite.admin.CompanyID}
	self := &domain.User{UserID: agent.UserID, CompanyID: agent.CompanyID, Role: domain.RoleAgent}
	newManager := uuid.NewString()

	suite.mockRepo.On("FindUserByID", ctx, agent.CompanyID, agent.UserID).Return(self, nil).Once()

	updated, err := suite.service.UpdateUser(ctx, agent, agent.UserID, dto.UpdateUserRequest{ManagerID: &newManager})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(updated)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateUser")
}

func (suite *UserServiceTestSuite) TestDeactivateUser_SelfRefused() {
	ctx := context.Background()

	err := suite.service.DeactivateUser(ctx, suite.admin, suite.admin.UserID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateUser")
}

func (suite *UserServiceTestSuite) TestDeactivateUser_Success() {
	ctx := context.Background()
	target := uuid.NewString()

	suite.mockRepo.On("DeactivateUser", ctx, suite.admin.CompanyID, target, suite.admin.UserID).Return(nil).Once()

	err := suite.service.DeactivateUser(ctx, suite.admin, target)

	suite.Require().NoError(err)
	last := suite.audit.last()
	suite.Equal(domain.ActionUserDelete, last.action)
	suite.Equal(domain.AuditSuccess, last.status)
}

func (suite *UserServiceTestSuite) TestGetOrgChart_ClientForbidden() {
	ctx := context.Background()
	client := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleClient, CompanyID: suite.admin.CompanyID}

	chart, err := suite.service.GetOrgChart(ctx, client)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(chart)
}

func (suite *UserServiceTestSuite) TestGetOrgChart_BuildsAndCaches() {
	ctx := context.Background()
	managerID := uuid.NewString()
	agentID := uuid.NewString()
	clientID := uuid.NewString()

	all := []domain.User{
		{UserID: managerID, Role: domain.RoleManager},
		{UserID: agentID, Role: domain.RoleAgent, ManagerID: managerID},
		{UserID: clientID, Role: domain.RoleClient, AgentID: agentID},
	}
	suite.mockRepo.On("ListUsers", ctx, suite.admin.CompanyID, domain.Role(""), 500, (*string)(nil)).
		Return(all, (*string)(nil), nil).Once()

	chart, err := suite.service.GetOrgChart(ctx, suite.admin)
	suite.Require().NoError(err)
	suite.Require().Len(chart, 1)
	suite.Equal(managerID, chart[0].User.UserID)
	suite.Require().Len(chart[0].Reports, 1)
	suite.Equal(agentID, chart[0].Reports[0].User.UserID)
	suite.Require().Len(chart[0].Reports[0].Reports, 1)
	suite.Equal(clientID, chart[0].Reports[0].Reports[0].User.UserID)

	// Second call is served from cache; ListUsers was registered Once.
	_, err = suite.service.GetOrgChart(ctx, suite.admin)
	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetOrgChart_ManagerPruned() {
	ctx := context.Background()
	manager := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleManager, CompanyID: suite.admin.CompanyID}
	otherManager := uuid.NewString()
	agentID := uuid.NewString()

	all := []domain.User{
		{UserID: manager.UserID, Role: domain.RoleManager},
		{UserID: otherManager, Role: domain.RoleManager},
		{UserID: agentID, Role: domain.RoleAgent, ManagerID: manager.UserID},
	}
	suite.mockRepo.On("ListUsers", ctx, manager.CompanyID, domain.Role(""), 500, (*string)(nil)).
		Return(all, (*string)(nil), nil).Once()
	suite.mockScope.On("ResolveScope", ctx, manager).
		Return(domain.Scope{AgentIDs: []string{agentID}}, nil).Once()

	chart, err := suite.service.GetOrgChart(ctx, manager)

	suite.Require().NoError(err)
	suite.Require().Len(chart, 1)
	suite.Equal(manager.UserID, chart[0].User.UserID)
	suite.Len(chart[0].Reports, 1)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
