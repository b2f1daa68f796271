package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"kostku_backend/internals/constants"
	authModel "kostku_backend/internals/features/users/auth/model"
)

type RegisterRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=owner tenant"`
}

func (r *RegisterRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	if r.Role == "" {
		r.Role = constants.RoleTenant
	}
}

func (r RegisterRequest) ToModel(hash string) *authModel.UserModel {
	return &authModel.UserModel{
		UserName:     r.UserName,
		UserEmail:    r.Email,
		UserPassword: hash,
		UserRole:     r.Role,
		UserIsActive: true,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type UserResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromUser(u *authModel.UserModel) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		UserName:  u.UserName,
		Email:     u.UserEmail,
		Role:      u.UserRole,
		IsActive:  u.UserIsActive,
		CreatedAt: u.UserCreatedAt,
	}
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}
