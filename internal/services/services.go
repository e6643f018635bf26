package services

import (
	"context"
	"errors"
	"time"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/pkg/apperrors"
)

// Clock подменяется в тестах.
type Clock func() time.Time

func utcClock() time.Time {
	return time.Now().UTC()
}

// storeError переводит ошибку хранилища в AppError: отсутствие записи - в notFound,
// все неизвестное - во внутреннюю ошибку.
func storeError(err error, notFound *apperrors.AppError) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	if notFound != nil && errors.Is(err, repositories.ErrNotFound) {
		return notFound
	}
	return apperrors.InternalError(err)
}

func loadUser(ctx context.Context, users repositories.UserRepository, id int64) (*models.User, error) {
	user, err := users.GetUser(ctx, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}
