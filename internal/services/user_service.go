package services

import (
	"context"
	"errors"
	"strings"

	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/pkg/apperrors"
)

type UserService interface {
	GetUser(ctx context.Context, userID int64) (*dto.UserResponse, error)
	// UpdateUser меняет редактируемые поля; роль неизменна.
	// Смена email сбрасывает его подтверждение.
	UpdateUser(ctx context.Context, userID int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	store repositories.Store
}

func NewUserService(store repositories.Store) UserService {
	return &userService{store: store}
}

func (s *userService) GetUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) UpdateUser(ctx context.Context, userID int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Location != nil {
		user.Location = strings.TrimSpace(*req.Location)
	}
	if req.Email != nil {
		next := normalizeEmail(*req.Email)
		if !sameEmail(user.Email, next) {
			user.Email = next
			user.EmailVerified = false
			user.EmailVerificationCode = ""
			user.EmailVerificationExpiresAt = nil
		}
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	return dto.NewUserResponse(user), nil
}

func sameEmail(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
