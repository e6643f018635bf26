package dto

import (
	"time"

	"hyperlocal_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

type RegisterRequest struct {
	Username string          `json:"username" validate:"required,username"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	FullName string          `json:"fullName" validate:"required,max=255"`
	Phone    string          `json:"phone" validate:"omitempty,max=32"`
	Email    string          `json:"email" validate:"omitempty,email,max=255"`
	Role     models.UserRole `json:"role" validate:"required,is-user-role"`
	Location string          `json:"location" validate:"omitempty,max=255"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest - частичное обновление профиля. Пустой email удаляет адрес.
type UpdateUserRequest struct {
	FullName *string `json:"fullName,omitempty" validate:"omitempty,min=1,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=255"`
}

type VerifyEmailRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// ======================
// Response DTOs
// ======================

type UserResponse struct {
	ID                 int64                     `json:"id"`
	Username           string                    `json:"username"`
	FullName           string                    `json:"fullName"`
	Phone              string                    `json:"phone"`
	Email              *string                   `json:"email"`
	Role               models.UserRole           `json:"role"`
	Location           string                    `json:"location"`
	VerificationStatus models.VerificationStatus `json:"verificationStatus"`
	IsVerified         bool                      `json:"isVerified"`
	EmailVerified      bool                      `json:"emailVerified"`
	CreatedAt          time.Time                 `json:"createdAt"`
}

// PublicUserResponse - то, что видят другие пользователи (без контактов).
type PublicUserResponse struct {
	ID         int64           `json:"id"`
	Username   string          `json:"username"`
	FullName   string          `json:"fullName"`
	Role       models.UserRole `json:"role"`
	Location   string          `json:"location"`
	IsVerified bool            `json:"isVerified"`
}

type AuthResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:                 u.ID,
		Username:           u.Username,
		FullName:           u.FullName,
		Phone:              u.Phone,
		Email:              u.Email,
		Role:               u.Role,
		Location:           u.Location,
		VerificationStatus: u.VerificationStatus,
		IsVerified:         u.IsVerified,
		EmailVerified:      u.EmailVerified,
		CreatedAt:          u.CreatedAt,
	}
}

func NewPublicUserResponse(u *models.User) *PublicUserResponse {
	return &PublicUserResponse{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		Role:       u.Role,
		Location:   u.Location,
		IsVerified: u.IsVerified,
	}
}
