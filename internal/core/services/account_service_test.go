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
	portsrepo "github.com/gullak-app/gullak_backend/internal/core/ports/repositories"
	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/core/services"
	"github.com/gullak-app/gullak_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockUserRepo    *MockUserRepository
	mockScope       *MockScopeResolver
	audit           *recordingAuditService
	service         portssvc.AccountSvcFacade

	admin  domain.Actor
	client domain.User
	agent  domain.User
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockScope = new(MockScopeResolver)
	suite.audit = &recordingAuditService{}
	suite.service = services.NewAccountService(
		suite.mockAccountRepo,
		suite.mockUserRepo,
		passthroughTxRunner{},
		suite.mockScope,
		suite.audit,
	)

	suite.admin = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAdmin, CompanyID: uuid.NewString()}
	suite.agent = domain.User{UserID: uuid.NewString(), CompanyID: suite.admin.CompanyID, Role: domain.RoleAgent}
	suite.client = domain.User{
		UserID:    uuid.NewString(),
		CompanyID: suite.admin.CompanyID,
		Role:      domain.RoleClient,
		AgentID:   suite.agent.UserID,
		IsActive:  true,
	}
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_DailyDerivesTarget() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		UserID:             suite.client.UserID,
		SchemeType:         "RD",
		PaymentMode:        "DAILY",
		DurationMonths:     12,
		DailyDepositAmount: d("100"),
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.admin.CompanyID, suite.client.UserID).Return(&suite.client, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.admin.CompanyID, suite.agent.UserID).Return(&suite.agent, nil).Once()
	suite.mockAccountRepo.On("NextAccountNumber", mock.Anything, suite.admin.CompanyID, domain.ModeDaily).Return(int64(1), nil).Once()
	suite.mockAccountRepo.On("SaveAccount", mock.Anything, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	acct, err := suite.service.CreateAccount(ctx, suite.admin, req)

	suite.Require().NoError(err)
	suite.Equal("D00001", acct.AccountNumber)
	suite.Equal(suite.agent.UserID, acct.AgentID)
	suite.True(acct.MonthlyTarget.Equal(d("3000")))
	suite.True(acct.TotalPayableAmount.Equal(d("36000")))
	suite.Equal(domain.StatusInactive, acct.Status)
	suite.Equal(acct.StartDate.AddDate(0, 12, 0), acct.MaturityDate)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_MonthlyDefaultsTotal() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		UserID:            suite.client.UserID,
		SchemeType:        "RD",
		PaymentMode:       "MONTHLY",
		DurationMonths:    24,
		InstallmentAmount: d("500"),
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.admin.CompanyID, suite.client.UserID).Return(&suite.client, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.admin.CompanyID, suite.agent.UserID).Return(&suite.agent, nil).Once()
	suite.mockAccountRepo.On("NextAccountNumber", mock.Anything, suite.admin.CompanyID, domain.ModeMonthly).Return(int64(42), nil).Once()
	suite.mockAccountRepo.On("SaveAccount", mock.Anything, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	acct, err := suite.service.CreateAccount(ctx, suite.admin, req)

	suite.Require().NoError(err)
	suite.Equal("M00042", acct.AccountNumber)
	suite.True(acct.TotalPayableAmount.Equal(d("12000")))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_MonthlyNeedsInstallment() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		UserID:         suite.client.UserID,
		SchemeType:     "RD",
		PaymentMode:    "MONTHLY",
		DurationMonths: 12,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.admin.CompanyID, suite.client.UserID).Return(&suite.client, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.admin.CompanyID, suite.agent.UserID).Return(&suite.agent, nil).Once()

	acct, err := suite.service.CreateAccount(ctx, suite.admin, req)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(acct)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_AgentForbidden() {
	ctx := context.Background()
	agentActor := domain.Actor{UserID: suite.agent.UserID, Role: domain.RoleAgent, CompanyID: suite.admin.CompanyID}

	acct, err := suite.service.CreateAccount(ctx, agentActor, dto.CreateAccountRequest{
		UserID: suite.client.UserID, SchemeType: "RD", PaymentMode: "DAILY", DurationMonths: 12,
	})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(acct)
	suite.Equal(string(domain.ReasonRoleNotPermitted), suite.audit.last().details["reason"])
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ManagerOutOfScope() {
	ctx := context.Background()
	manager := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleManager, CompanyID: suite.admin.CompanyID}

	suite.mockUserRepo.On("FindUserByID", ctx, manager.CompanyID, suite.client.UserID).Return(&suite.client, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, manager.CompanyID, suite.agent.UserID).Return(&suite.agent, nil).Once()
	suite.mockScope.On("ResolveScope", ctx, manager).Return(domain.Scope{}, nil).Once()

	acct, err := suite.service.CreateAccount(ctx, manager, dto.CreateAccountRequest{
		UserID: suite.client.UserID, SchemeType: "RD", PaymentMode: "DAILY", DurationMonths: 12, MonthlyTarget: d("3000"),
	})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(acct)
	suite.Equal(string(domain.ReasonScopeViolation), suite.audit.last().details["reason"])
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_TotalBelowBalanceRejected() {
	ctx := context.Background()
	acct := &domain.Account{
		AccountID:          uuid.NewString(),
		CompanyID:          suite.admin.CompanyID,
		PaymentMode:        domain.ModeDaily,
		Status:             domain.StatusPending,
		Balance:            d("5000"),
		TotalPayableAmount: d("36000"),
	}
	lowered := d("4000")

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", mock.Anything, suite.admin.CompanyID, acct.AccountID).Return(acct, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.admin, acct.AccountID, dto.UpdateAccountRequest{TotalPayableAmount: &lowered})

	suite.Require().ErrorIs(err, apperrors.ErrBusinessRule)
	suite.Nil(updated)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount")
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_ClosedRejected() {
	ctx := context.Background()
	acct := &domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.admin.CompanyID,
		PaymentMode: domain.ModeDaily,
		Status:      domain.StatusClosed,
	}
	target := d("4000")

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", mock.Anything, suite.admin.CompanyID, acct.AccountID).Return(acct, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.admin, acct.AccountID, dto.UpdateAccountRequest{MonthlyTarget: &target})

	suite.Require().ErrorIs(err, apperrors.ErrBusinessRule)
	suite.Nil(updated)
	suite.Equal(string(domain.ReasonAccountClosed), suite.audit.last().details["reason"])
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_WrongModeTargetRejected() {
	ctx := context.Background()
	acct := &domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.admin.CompanyID,
		PaymentMode: domain.ModeMonthly,
		Status:      domain.StatusPending,
	}
	target := d("3000") // monthlyTarget belongs to Daily accounts

	suite.mockAccountRepo.On("FindAccountByIDForUpdate", mock.Anything, suite.admin.CompanyID, acct.AccountID).Return(acct, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.admin, acct.AccountID, dto.UpdateAccountRequest{MonthlyTarget: &target})

	suite.Require().ErrorIs(err, apperrors.ErrBusinessRule)
	suite.Nil(updated)
}

func (suite *AccountServiceTestSuite) TestCloseAccount_Idempotent() {
	ctx := context.Background()
	acct := &domain.Account{
		AccountID: uuid.NewString(),
		CompanyID: suite.admin.CompanyID,
		Status:    domain.StatusClosed,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.admin.CompanyID, acct.AccountID).Return(acct, nil).Once()

	err := suite.service.CloseAccount(ctx, suite.admin, acct.AccountID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountStatus")
}

func (suite *AccountServiceTestSuite) TestCloseAccount_Success() {
	ctx := context.Background()
	acct := &domain.Account{
		AccountID: uuid.NewString(),
		CompanyID: suite.admin.CompanyID,
		Status:    domain.StatusPending,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.admin.CompanyID, acct.AccountID).Return(acct, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountStatus", ctx, acct.AccountID, domain.StatusClosed, suite.admin.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.CloseAccount(ctx, suite.admin, acct.AccountID)

	suite.Require().NoError(err)
	last := suite.audit.last()
	suite.Equal(domain.ActionAccountClose, last.action)
	suite.Equal(string(domain.StatusPending), last.details["previousStatus"])
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_ClientSeesOnlySelf() {
	ctx := context.Background()
	clientActor := domain.Actor{UserID: suite.client.UserID, Role: domain.RoleClient, CompanyID: suite.admin.CompanyID}

	suite.mockAccountRepo.On("ListAccounts", ctx, clientActor.CompanyID, mock.MatchedBy(func(f portsrepo.ListAccountsFilter) bool {
		return len(f.ClientIDs) == 1 && f.ClientIDs[0] == clientActor.UserID
	})).Return([]domain.Account{}, (*string)(nil), nil).Once()

	resp, err := suite.service.ListAccounts(ctx, clientActor, dto.ListAccountsParams{Limit: 20})

	suite.Require().NoError(err)
	suite.Empty(resp.Accounts)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_EmptyScopeShortCircuits() {
	ctx := context.Background()
	agentActor := domain.Actor{UserID: suite.agent.UserID, Role: domain.RoleAgent, CompanyID: suite.admin.CompanyID}

	suite.mockScope.On("ResolveScope", ctx, agentActor).Return(domain.Scope{AgentIDs: []string{agentActor.UserID}}, nil).Once()

	resp, err := suite.service.ListAccounts(ctx, agentActor, dto.ListAccountsParams{Limit: 20})

	suite.Require().NoError(err)
	suite.Empty(resp.Accounts)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "ListAccounts")
}

func (suite *AccountServiceTestSuite) TestRunMaturitySweep() {
	ctx := context.Background()
	now := time.Now().UTC()
	matured := []string{uuid.NewString(), uuid.NewString()}

	suite.mockAccountRepo.On("MarkMaturedAccounts", ctx, mock.AnythingOfType("time.Time")).Return(matured, nil).Once()

	count, err := suite.service.RunMaturitySweep(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(2, count)
	last := suite.audit.last()
	suite.Equal(domain.ActionMaturitySweep, last.action)
	suite.Equal(2, last.details["accountsMatured"])
}

func (suite *AccountServiceTestSuite) TestRunMaturitySweep_NothingToDo() {
	ctx := context.Background()

	suite.mockAccountRepo.On("MarkMaturedAccounts", ctx, mock.AnythingOfType("time.Time")).Return([]string{}, nil).Once()

	count, err := suite.service.RunMaturitySweep(ctx, time.Now().UTC())

	suite.Require().NoError(err)
	suite.Zero(count)
	suite.Empty(suite.audit.entries)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
