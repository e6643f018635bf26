package gormstore

import (
	"context"
	"strings"
	"time"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	db := s.conn(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return repositories.ErrDuplicateUsername
	}
	if user.HasEmail() {
		if err := db.Model(&models.User{}).Where("email = ?", *user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return repositories.ErrDuplicateEmail
		}
	}

	if user.VerificationStatus == "" {
		user.VerificationStatus = models.VerificationStatusNotSubmitted
	}
	user.IsVerified = user.VerificationStatus == models.VerificationStatusVerified
	stamp(&user.CreatedAt)

	if err := db.Create(user).Error; err != nil {
		// Гонка между проверкой и вставкой: решает уникальный индекс.
		if name, ok := uniqueViolation(err); ok {
			if strings.Contains(name, "email") {
				return repositories.ErrDuplicateEmail
			}
			return repositories.ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (s *Store) findUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where(query, arg).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, repositories.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, "username = ?", username)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

// userExists нужен потому, что MySQL по умолчанию считает в RowsAffected
// только реально измененные строки.
func (s *Store) userExists(ctx context.Context, id int64) error {
	var count int64
	if err := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return repositories.ErrUserNotFound
	}
	return nil
}

func (s *Store) updateUser(ctx context.Context, id int64, fields map[string]interface{}) error {
	if err := s.userExists(ctx, id); err != nil {
		return err
	}
	return s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	if user.HasEmail() {
		var count int64
		err := s.conn(ctx).Model(&models.User{}).
			Where("email = ? AND id <> ?", *user.Email, user.ID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return repositories.ErrDuplicateEmail
		}
	}

	err := s.updateUser(ctx, user.ID, map[string]interface{}{
		"full_name":                     user.FullName,
		"phone":                         user.Phone,
		"email":                         user.Email,
		"location":                      user.Location,
		"email_verified":                user.EmailVerified,
		"email_verification_code":       user.EmailVerificationCode,
		"email_verification_expires_at": user.EmailVerificationExpiresAt,
	})
	if _, ok := uniqueViolation(err); ok {
		return repositories.ErrDuplicateEmail
	}
	return err
}

func (s *Store) SetEmailVerificationCode(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	return s.updateUser(ctx, userID, map[string]interface{}{
		"email_verification_code":       code,
		"email_verification_expires_at": expiresAt,
	})
}

func (s *Store) ClearExpiredEmailCodes(ctx context.Context, before time.Time) (int64, error) {
	res := s.conn(ctx).Model(&models.User{}).
		Where("email_verification_expires_at IS NOT NULL AND email_verification_expires_at < ?", before).
		Updates(map[string]interface{}{
			"email_verification_code":       "",
			"email_verification_expires_at": nil,
		})
	return res.RowsAffected, res.Error
}

func (s *Store) MarkEmailVerified(ctx context.Context, userID int64) error {
	return s.updateUser(ctx, userID, map[string]interface{}{
		"email_verified":                true,
		"email_verification_code":       "",
		"email_verification_expires_at": nil,
	})
}

func (s *Store) SetVerificationStatus(ctx context.Context, userID int64, status models.VerificationStatus) error {
	return s.updateUser(ctx, userID, map[string]interface{}{
		"verification_status": status,
		"is_verified":         status == models.VerificationStatusVerified,
	})
}
