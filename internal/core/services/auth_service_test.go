package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/gullak-app/gullak_backend/internal/apperrors"
	"github.com/gullak-app/gullak_backend/internal/core/domain"
	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/core/services"
	"github.com/gullak-app/gullak_backend/internal/dto"
	"github.com/gullak-app/gullak_backend/internal/middleware"
	"github.com/gullak-app/gullak_backend/internal/platform/config"
	"github.com/gullak-app/gullak_backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	cfg      *config.Config
	service  portssvc.AuthSvcFacade

	user     domain.User
	password string
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.cfg = &config.Config{
		JWTSecret:         "test-secret",
		JWTIssuer:         "gullak-backend",
		JWTExpiryDuration: time.Hour,
	}
	suite.service = services.NewAuthService(suite.cfg, suite.mockRepo)

	suite.password = "correct-horse-battery"
	hash, err := utils.HashPassword(suite.password)
	suite.Require().NoError(err)
	suite.user = domain.User{
		UserID:       uuid.NewString(),
		CompanyID:    uuid.NewString(),
		Email:        "agent@example.com",
		Role:         domain.RoleAgent,
		PasswordHash: hash,
		IsActive:     true,
	}
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByEmail", ctx, suite.user.Email).Return(&suite.user, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: suite.user.Email, Password: suite.password})

	suite.Require().NoError(err)
	suite.NotEmpty(resp.Token)
	suite.Equal(suite.user.UserID, resp.User.UserID)

	claims := &middleware.AccessClaims{}
	parsed, err := jwt.ParseWithClaims(resp.Token, claims, func(t *jwt.Token) (any, error) {
		return []byte(suite.cfg.JWTSecret), nil
	})
	suite.Require().NoError(err)
	suite.True(parsed.Valid)
	suite.Equal(suite.user.UserID, claims.Subject)
	suite.Equal(string(domain.RoleAgent), claims.Role)
	suite.Equal(suite.user.CompanyID, claims.CompanyID)
	suite.Equal(suite.cfg.JWTIssuer, claims.Issuer)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByEmail", ctx, suite.user.Email).Return(&suite.user, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: suite.user.Email, Password: "wrong"})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(resp)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmailSameError() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByEmail", ctx, "nobody@example.com").
		Return(nil, apperrors.NewNotFoundError("user not found")).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(resp)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
