package repositories

import (
	"errors"
	"fmt"
)

// ErrNotFound - общая ошибка отсутствия записи. Все *NotFound ниже оборачивают ее,
// поэтому сервисы могут проверять как конкретную, так и общую.
var ErrNotFound = errors.New("record not found")

var (
	ErrUserNotFound         = fmt.Errorf("user: %w", ErrNotFound)
	ErrWorkerNotFound       = fmt.Errorf("worker profile: %w", ErrNotFound)
	ErrJobNotFound          = fmt.Errorf("job: %w", ErrNotFound)
	ErrApplicationNotFound  = fmt.Errorf("application: %w", ErrNotFound)
	ErrDocumentNotFound     = fmt.Errorf("verification document: %w", ErrNotFound)
	ErrConversationNotFound = fmt.Errorf("conversation: %w", ErrNotFound)
	ErrMessageNotFound      = fmt.Errorf("message: %w", ErrNotFound)
)

var (
	ErrDuplicateUsername      = errors.New("username already taken")
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrDuplicateWorkerProfile = errors.New("worker profile already exists")
	ErrDuplicateApplication   = errors.New("worker already applied to this job")
	ErrDuplicateRating        = errors.New("rating for this job already exists")
	ErrDuplicateConversation  = errors.New("conversation between these users already exists")
)

// Условная запись статуса не нашла строку в ожидаемом состоянии:
// ее успел изменить другой запрос.
var (
	ErrApplicationStatusChanged = errors.New("application status changed concurrently")
	ErrDocumentAlreadyReviewed  = errors.New("verification document already reviewed")
)
