package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"hyperlocal_backend/internal/auth"
	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)

	// Authenticate перечитывает пользователя сессии или токена.
	// Удаленный пользователь получает ErrAuthRequired.
	Authenticate(ctx context.Context, userID int64) (*models.User, error)
	ParseToken(token string) (int64, error)
}

type authService struct {
	store  repositories.Store
	tokens *auth.TokenManager
	emails EmailVerificationService
	now    Clock
}

func NewAuthService(store repositories.Store, tokens *auth.TokenManager, emails EmailVerificationService, now Clock) AuthService {
	if now == nil {
		now = utcClock
	}
	return &authService{
		store:  store,
		tokens: tokens,
		emails: emails,
		now:    now,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// passwordMismatch сравнивает пароль с фиктивным хешем, чтобы ответ для
// несуществующего логина занимал столько же времени.
func passwordMismatch(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = auth.HashPassword("not-a-real-password")
	})
	auth.CheckPasswordHash(password, dummyHash)
}

func normalizeEmail(raw string) *string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return nil
	}
	return &email
}

// ---------------- Auth Operations ----------------

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		Email:        normalizeEmail(req.Email),
		Role:         req.Role,
		Location:     strings.TrimSpace(req.Location),
		CreatedAt:    s.now(),
	}
	user.SetVerificationStatus(models.VerificationStatusNotSubmitted)

	if err := s.store.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateUsername):
			return nil, apperrors.ErrUsernameTaken
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "role", user.Role)

	s.emails.IssueAndSend(ctx, user)

	return s.issueToken(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			passwordMismatch(req.Password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issueToken(user)
}

func (s *authService) issueToken(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		User:  dto.NewUserResponse(user),
		Token: token,
	}, nil
}

// ---------------- Identity ----------------

func (s *authService) Authenticate(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrAuthRequired)
	}
	return user, nil
}

func (s *authService) ParseToken(token string) (int64, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return 0, apperrors.ErrInvalidToken.WithError(err)
	}
	return claims.UserID, nil
}
