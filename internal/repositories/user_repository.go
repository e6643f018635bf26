package repositories

import (
	"context"
	"time"

	"hyperlocal_backend/internal/models"
)

type UserRepository interface {
	// CreateUser возвращает ErrDuplicateUsername / ErrDuplicateEmail при конфликте.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateUser сохраняет редактируемые поля профиля (имя, телефон, email, локация,
	// флаг и код email-верификации). Роль и статус верификации не трогает.
	UpdateUser(ctx context.Context, user *models.User) error

	// SetEmailVerificationCode перезаписывает предыдущий код, если он был.
	SetEmailVerificationCode(ctx context.Context, userID int64, code string, expiresAt time.Time) error
	// ClearExpiredEmailCodes стирает коды, срок которых истек до before.
	// Возвращает число затронутых пользователей.
	ClearExpiredEmailCodes(ctx context.Context, before time.Time) (int64, error)
	// MarkEmailVerified выставляет флаг и стирает код.
	MarkEmailVerified(ctx context.Context, userID int64) error
	// SetVerificationStatus согласованно меняет статус и IsVerified.
	SetVerificationStatus(ctx context.Context, userID int64, status models.VerificationStatus) error
}
