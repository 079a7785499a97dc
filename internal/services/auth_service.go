package services

import (
	"context"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/logger"
	"branchdesk-backend/internal/models"

	"go.uber.org/zap"
)

type credentialStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthService struct {
	Users      credentialStore
	JWTManager *auth.JWTManager
	Logger     *zap.Logger
}

func NewAuthService(users credentialStore, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{Users: users, JWTManager: jwtManager, Logger: logger}
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.Users.GetByEmail(ctx, req.Email)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		logger.FromContext(ctx, s.Logger).Warn("login failed", zap.Int("user_id", user.ID))
		return nil, apperr.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperr.ErrAccountSuspended
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
