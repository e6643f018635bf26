package services

import (
	"context"
	"time"

	"hyperlocal_backend/internal/auth"
	"hyperlocal_backend/internal/email"
	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/pkg/apperrors"
)

type EmailVerificationService interface {
	VerifyEmail(ctx context.Context, userID int64, req *dto.VerifyEmailRequest) (*dto.UserResponse, error)
	ResendVerification(ctx context.Context, userID int64) error

	// IssueAndSend выдает новый код и отправляет его. Ошибка отправки
	// только логируется: используется при регистрации.
	IssueAndSend(ctx context.Context, user *models.User)
}

type emailVerificationService struct {
	store  repositories.Store
	mailer email.Provider
	ttl    time.Duration
	now    Clock
}

func NewEmailVerificationService(store repositories.Store, mailer email.Provider, ttl time.Duration, now Clock) EmailVerificationService {
	if now == nil {
		now = utcClock
	}
	return &emailVerificationService{
		store:  store,
		mailer: mailer,
		ttl:    ttl,
		now:    now,
	}
}

// ---------------- Code Operations ----------------

// issue сохраняет новый код поверх предыдущего.
func (s *emailVerificationService) issue(ctx context.Context, user *models.User) (string, error) {
	code, err := auth.GenerateVerificationCode()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	expiresAt := s.now().Add(s.ttl)
	if err := s.store.SetEmailVerificationCode(ctx, user.ID, code, expiresAt); err != nil {
		return "", storeError(err, apperrors.ErrUserNotFound)
	}
	user.EmailVerificationCode = code
	user.EmailVerificationExpiresAt = &expiresAt
	return code, nil
}

func (s *emailVerificationService) send(ctx context.Context, user *models.User, code string) error {
	return s.mailer.SendVerificationCode(ctx, *user.Email, user.FullName, code, s.ttl)
}

func (s *emailVerificationService) IssueAndSend(ctx context.Context, user *models.User) {
	if !user.HasEmail() || user.EmailVerified {
		return
	}
	code, err := s.issue(ctx, user)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to issue email verification code", err, "user_id", user.ID)
		return
	}
	if err := s.send(ctx, user, code); err != nil {
		logger.CtxWithError(ctx, "Failed to send email verification code", err, "user_id", user.ID)
	}
}

func (s *emailVerificationService) VerifyEmail(ctx context.Context, userID int64, req *dto.VerifyEmailRequest) (*dto.UserResponse, error) {
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if user.EmailVerified {
		return dto.NewUserResponse(user), nil
	}

	expiresAt := user.EmailVerificationExpiresAt
	if user.EmailVerificationCode == "" || expiresAt == nil || !s.now().Before(*expiresAt) {
		return nil, apperrors.ErrVerificationCodeExpired
	}
	if !auth.CodesEqual(user.EmailVerificationCode, req.Code) {
		return nil, apperrors.ErrInvalidVerificationCode
	}

	if err := s.store.MarkEmailVerified(ctx, userID); err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	user.EmailVerified = true
	user.EmailVerificationCode = ""
	user.EmailVerificationExpiresAt = nil

	logger.CtxInfo(ctx, "Email verified", "user_id", userID)
	return dto.NewUserResponse(user), nil
}

// ResendVerification: при сбое отправки новый код остается в базе.
func (s *emailVerificationService) ResendVerification(ctx context.Context, userID int64) error {
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return err
	}
	if !user.HasEmail() {
		return apperrors.ErrEmailRequired
	}
	if user.EmailVerified {
		return apperrors.ErrEmailAlreadyVerified
	}

	code, err := s.issue(ctx, user)
	if err != nil {
		return err
	}
	if err := s.send(ctx, user, code); err != nil {
		return apperrors.NewDependencyError(err, "email", "Failed to send verification email")
	}
	return nil
}
