package services

import (
	"context"
	"strings"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/logger"
	"branchdesk-backend/internal/models"

	"go.uber.org/zap"
)

type userStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context, branchID int) ([]*models.User, error)
	Update(ctx context.Context, u *models.User) error
	SetActive(ctx context.Context, id int, active bool) error
}

type UserService struct {
	Repo   userStore
	Logger *zap.Logger
}

func NewUserService(repo userStore, logger *zap.Logger) *UserService {
	return &UserService{Repo: repo, Logger: logger}
}

// checkGrant keeps branch-level managers inside their own branch and within
// the permissions they hold themselves
func checkGrant(id auth.Identity, branchID int, perms []string) error {
	for _, p := range perms {
		if !auth.IsKnownPermission(p) {
			return apperr.ErrInvalidInput.Withf("unknown permission %q", p)
		}
		if p == auth.PermAll && !id.IsSuperAdmin() {
			return apperr.ErrPermissionDenied.Withf("only a super admin can grant %q", auth.PermAll)
		}
		if !id.HasAny(p) {
			return apperr.ErrPermissionDenied.Withf("cannot grant %q without holding it", p)
		}
	}
	return checkBranch(id, branchID)
}

// checkTarget stops non super admins from touching a super admin account
func checkTarget(id auth.Identity, target *models.User) error {
	if id.IsSuperAdmin() {
		return nil
	}
	for _, p := range target.Permissions {
		if p == auth.PermAll {
			return apperr.ErrPermissionDenied.Withf("only a super admin can manage a super admin")
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) ListUsers(ctx context.Context, id auth.Identity) ([]*models.User, error) {
	return s.Repo.List(ctx, branchScope(id))
}

func (s *UserService) GetUser(ctx context.Context, id auth.Identity, userID int) (*models.User, error) {
	u, err := s.Repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := checkBranch(id, u.BranchID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) CreateUser(ctx context.Context, id auth.Identity, req *models.CreateUserRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := checkGrant(id, req.BranchID, req.Permissions); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := &models.User{
		BranchID:     req.BranchID,
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Permissions:  req.Permissions,
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.FromContext(ctx, s.Logger).Info("user created", zap.Int("new_user_id", u.ID), zap.Strings("permissions", u.Permissions))
	return u, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id auth.Identity, userID int, req *models.UpdateUserRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	u, err := s.GetUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := checkTarget(id, u); err != nil {
		return nil, err
	}
	if err := checkGrant(id, req.BranchID, req.Permissions); err != nil {
		return nil, err
	}

	u.BranchID = req.BranchID
	u.Name = strings.TrimSpace(req.Name)
	u.Email = req.Email
	u.Role = req.Role
	u.Permissions = req.Permissions
	u.PasswordHash = ""
	if req.Password != "" {
		if u.PasswordHash, err = auth.HashPassword(req.Password); err != nil {
			return nil, apperr.Internal(err)
		}
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ToggleActive suspends or reactivates a user. Callers cannot suspend themselves.
func (s *UserService) ToggleActive(ctx context.Context, id auth.Identity, userID int, active bool) (*models.User, error) {
	if userID == id.UserID && !active {
		return nil, apperr.ErrInvalidState.Withf("you cannot suspend your own account")
	}
	u, err := s.GetUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := checkTarget(id, u); err != nil {
		return nil, err
	}
	if err := s.Repo.SetActive(ctx, userID, active); err != nil {
		return nil, err
	}
	u.IsActive = active
	logger.FromContext(ctx, s.Logger).Info("user active flag changed", zap.Int("target_user_id", userID), zap.Bool("active", active))
	return u, nil
}
