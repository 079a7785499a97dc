package models

import "time"

type User struct {
	ID           int       `json:"id"`
	BranchID     int       `json:"branch_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Permissions  []string  `json:"permissions"`
	IsActive     bool      `json:"is_active"` // false = suspended, token rejected on next request
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type CreateUserRequest struct {
	BranchID    int      `json:"branch_id" validate:"required,gt=0"`
	Name        string   `json:"name" validate:"required,max=100"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	Role        string   `json:"role" validate:"required,max=50"`
	Permissions []string `json:"permissions"`
}

// UpdateUserRequest replaces profile, role and permissions. Password is optional.
type UpdateUserRequest struct {
	BranchID    int      `json:"branch_id" validate:"required,gt=0"`
	Name        string   `json:"name" validate:"required,max=100"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password,omitempty" validate:"omitempty,min=6"`
	Role        string   `json:"role" validate:"required,max=50"`
	Permissions []string `json:"permissions"`
}

type ToggleUserRequest struct {
	IsActive bool `json:"is_active"`
}
