package services

import (
	"context"
	"testing"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/config"
	"branchdesk-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newAuthService(t *testing.T) (*AuthService, *mockUserStore, *auth.JWTManager) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "service-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "branchdesk-test"
	jwtManager := auth.NewJWTManager(cfg)

	repo := &mockUserStore{}
	t.Cleanup(func() { repo.AssertExpectations(t) })
	return NewAuthService(repo, jwtManager, zaptest.NewLogger(t)), repo, jwtManager
}

func storedUser(t *testing.T, active bool) *models.User {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	return &models.User{ID: 5, BranchID: 2, Email: "ops@example.com", PasswordHash: hash, Role: "manager", IsActive: active}
}

func TestAuthService_Login(t *testing.T) {
	svc, repo, jwtManager := newAuthService(t)
	ctx := context.Background()
	repo.On("GetByEmail", ctx, "ops@example.com").Return(storedUser(t, true), nil)

	res, err := svc.Login(ctx, &models.LoginRequest{Email: "OPS@example.com", Password: "correct horse"})
	require.NoError(t, err)

	claims, err := jwtManager.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, 5, claims.UserID)
	assert.Equal(t, 2, claims.BranchID)
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, repo, _ := newAuthService(t)
	ctx := context.Background()
	repo.On("GetByEmail", ctx, "ops@example.com").Return(storedUser(t, true), nil).Once()
	repo.On("GetByEmail", ctx, "ops@example.com").Return(storedUser(t, false), nil).Once()
	repo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, apperr.ErrUserNotFound).Once()

	_, err := svc.Login(ctx, &models.LoginRequest{Email: "ops@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "ops@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, apperr.ErrAccountSuspended)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}
