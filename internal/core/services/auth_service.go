package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gullak-app/gullak_backend/internal/apperrors"
	portsrepo "github.com/gullak-app/gullak_backend/internal/core/ports/repositories"
	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/dto"
	"github.com/gullak-app/gullak_backend/internal/middleware"
	"github.com/gullak-app/gullak_backend/internal/platform/config"
	"github.com/gullak-app/gullak_backend/internal/utils"
)

// authService issues access tokens against stored bcrypt credentials.
type authService struct {
	cfg      *config.Config
	userRepo portsrepo.UserReader
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserReader) portssvc.AuthSvcFacade {
	return &authService{cfg: cfg, userRepo: userRepo}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies the credentials and issues a JWT carrying the subject, role
// and company. A wrong email and a wrong password return the same error.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("Failed login attempt", slog.String("user_id", user.UserID))
		return nil, apperrors.ErrUnauthorized
	}

	now := time.Now().UTC()
	claims := middleware.AccessClaims{
		Role:      string(user.Role),
		CompanyID: user.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			Issuer:    s.cfg.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiryDuration)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		logger.Error("Failed to sign access token", slog.String("error", err.Error()))
		return nil, apperrors.NewAppError(500, "failed to issue token", err)
	}

	return &dto.LoginResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	}, nil
}
