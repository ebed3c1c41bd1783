package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/core/services"
)

type ScopeServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.ScopeResolverSvcFacade
}

func (suite *ScopeServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewScopeResolverService(suite.mockRepo)
}

func (suite *ScopeServiceTestSuite) TestResolveScope_Admin() {
	ctx := context.Background()
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAdmin, CompanyID: uuid.NewString()}

	scope, err := suite.service.ResolveScope(ctx, actor)

	suite.Require().NoError(err)
	suite.True(scope.IsAll)
	suite.True(scope.AllowsClient(uuid.NewString()))
	suite.mockRepo.AssertNotCalled(suite.T(), "ListAgentIDsByManager")
}

func (suite *ScopeServiceTestSuite) TestResolveScope_Manager() {
	ctx := context.Background()
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleManager, CompanyID: uuid.NewString()}
	agentIDs := []string{uuid.NewString(), uuid.NewString()}
	clientIDs := []string{uuid.NewString()}

	suite.mockRepo.On("ListAgentIDsByManager", ctx, actor.CompanyID, actor.UserID).Return(agentIDs, nil).Once()
	suite.mockRepo.On("ListClientIDsByAgents", ctx, actor.CompanyID, agentIDs).Return(clientIDs, nil).Once()

	scope, err := suite.service.ResolveScope(ctx, actor)

	suite.Require().NoError(err)
	suite.False(scope.IsAll)
	suite.Equal(agentIDs, scope.AgentIDs)
	suite.Equal(clientIDs, scope.ClientIDs)
	suite.True(scope.AllowsAgent(agentIDs[0]))
	suite.True(scope.AllowsClient(clientIDs[0]))
	suite.False(scope.AllowsClient(uuid.NewString()))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ScopeServiceTestSuite) TestResolveScope_Agent() {
	ctx := context.Background()
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAgent, CompanyID: uuid.NewString()}
	clientIDs := []string{uuid.NewString()}

	suite.mockRepo.On("ListClientIDsByAgents", ctx, actor.CompanyID, []string{actor.UserID}).Return(clientIDs, nil).Once()

	scope, err := suite.service.ResolveScope(ctx, actor)

	suite.Require().NoError(err)
	suite.Equal([]string{actor.UserID}, scope.AgentIDs)
	suite.Equal(clientIDs, scope.ClientIDs)
}

func (suite *ScopeServiceTestSuite) TestResolveScope_ClientEmpty() {
	ctx := context.Background()
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleClient, CompanyID: uuid.NewString()}

	scope, err := suite.service.ResolveScope(ctx, actor)

	suite.Require().NoError(err)
	suite.False(scope.IsAll)
	suite.Empty(scope.AgentIDs)
	suite.Empty(scope.ClientIDs)
	suite.False(scope.AllowsClient(actor.UserID))
}

func (suite *ScopeServiceTestSuite) TestResolveScope_MalformedActorEmpty() {
	ctx := context.Background()

	scope, err := suite.service.ResolveScope(ctx, domain.Actor{Role: domain.RoleAdmin})

	suite.Require().NoError(err)
	suite.False(scope.IsAll)
	suite.False(scope.AllowsClient(uuid.NewString()))
}

func TestScopeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ScopeServiceTestSuite))
}
