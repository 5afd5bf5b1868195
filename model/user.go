package model

import (
	"time"

	"github.com/chapavet/marketplace/constant"
)

// UserEntity represents the profiles table entity
type UserEntity struct {
	ID           uint64        `db:"id" json:"id"`
	FullName     string        `db:"full_name" json:"full_name"`
	Email        string        `db:"email" json:"email"`
	Phone        string        `db:"phone" json:"phone"`
	Location     string        `db:"location" json:"location"`
	Role         constant.Role `db:"role" json:"role"`
	PasswordHash string        `db:"password_hash" json:"-"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time    `db:"updated_at" json:"updated_at,omitempty"`
}

// UserFilter for querying users
type UserFilter struct {
	ID    uint64
	Email string
	Phone string
}

type UserListFilter struct {
	Role    constant.Role
	Page    int
	PerPage int
}

type UserListResponse struct {
	Items      []UserEntity `json:"items"`
	TotalCount int64        `json:"total_count"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
}

// RegisterRequest for user registration
type RegisterRequest struct {
	FullName string        `json:"full_name" validate:"required"`
	Email    string        `json:"email" validate:"required,email"`
	Phone    string        `json:"phone" validate:"required"`
	Location string        `json:"location"`
	Role     constant.Role `json:"role" validate:"omitempty,oneof=buyer seller"`
	Password string        `json:"password" validate:"required,min=6"`
}

// LoginRequest for user login (accepts email or phone)
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"` // email or phone
	Password   string `json:"password" validate:"required"`
	UserAgent  string `json:"-"`
	IPAddress  string `json:"-"`
}

type LoginResponse struct {
	FullName string        `json:"full_name"`
	Email    string        `json:"email"`
	Role     constant.Role `json:"role"`
	Token    string        `json:"token"`
}

type RegisterResponse struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type UpdateRoleRequest struct {
	Role constant.Role `json:"role" validate:"required,oneof=buyer seller admin"`
}

// AuthSession is what a valid token resolves to.
type AuthSession struct {
	UserID    uint64
	Role      constant.Role
	SessionID string
}
