package repositories

import (
	"context"
	"errors"
	"fmt"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/db"
	"branchdesk-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, branch_id, name, email, password_hash, role, permissions, is_active, created_at, updated_at`

type UserRepository struct {
	DB db.DBTX
}

func NewUserRepository(conn db.DBTX) *UserRepository {
	return &UserRepository{DB: conn}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.BranchID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Permissions, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Permissions == nil {
		u.Permissions = []string{}
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users (branch_id, name, email, password_hash, role, permissions, is_active)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, created_at, updated_at`,
		u.BranchID, u.Name, u.Email, u.PasswordHash, u.Role, u.Permissions, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return apperr.ErrAlreadyExists.Withf("a user with email %s already exists", u.Email)
	}
	if db.IsForeignKeyViolation(err) {
		return apperr.ErrInvalidInput.Withf("branch %d does not exist", u.BranchID)
	}
	return err
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// List returns users of a branch (0 = all), newest first
func (r *UserRepository) List(ctx context.Context, branchID int) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+userColumns+` FROM users
         WHERE ($1 = 0 OR branch_id = $1)
         ORDER BY created_at DESC`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update writes profile, role and permissions. An empty PasswordHash keeps the old password.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	if u.Permissions == nil {
		u.Permissions = []string{}
	}
	err := r.DB.QueryRow(ctx,
		`UPDATE users SET branch_id = $1, name = $2, email = $3, role = $4, permissions = $5,
                password_hash = COALESCE(NULLIF($6, ''), password_hash), updated_at = NOW()
         WHERE id = $7
         RETURNING is_active, created_at, updated_at`,
		u.BranchID, u.Name, u.Email, u.Role, u.Permissions, u.PasswordHash, u.ID,
	).Scan(&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrUserNotFound
	}
	if db.IsUniqueViolation(err) {
		return apperr.ErrAlreadyExists.Withf("a user with email %s already exists", u.Email)
	}
	return err
}

// SetActive suspends or reactivates a user. Suspension applies on the next request.
func (r *UserRepository) SetActive(ctx context.Context, id int, active bool) error {
	tag, err := r.DB.Exec(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

// EnsureBranch returns the id of the named branch, creating it if needed
func (r *UserRepository) EnsureBranch(ctx context.Context, name string) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO branches (name) VALUES ($1)
         ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
         RETURNING id`, name).Scan(&id)
	return id, err
}
