package repositories

import (
	"context"

	"hyperlocal_backend/internal/models"
)

// Worker - пользователь-работник вместе с профилем.
type Worker struct {
	User    models.User
	Profile models.WorkerProfile
}

// WorkerFilter - параметры поиска работников.
// Skill ищется подстрокой без учета регистра. TopRated сортирует по рейтингу,
// иначе по id пользователя от новых к старым. Limit <= 0 - без ограничения.
type WorkerFilter struct {
	Skill    string
	TopRated bool
	Limit    int
}

type WorkerRepository interface {
	CreateWorkerProfile(ctx context.Context, profile *models.WorkerProfile) error
	// EnsureWorkerProfile возвращает профиль, создавая пустой при отсутствии.
	// Внутри WithTx строка профиля блокируется до конца транзакции.
	EnsureWorkerProfile(ctx context.Context, userID int64) (*models.WorkerProfile, error)
	GetWorkerProfile(ctx context.Context, userID int64) (*models.WorkerProfile, error)
	// UpdateWorkerProfile сохраняет skill, description и isAvailable.
	UpdateWorkerProfile(ctx context.Context, profile *models.WorkerProfile) error
	// SetWorkerProfileVerified синхронизирует флаг профиля; отсутствие профиля не ошибка.
	SetWorkerProfileVerified(ctx context.Context, userID int64, verified bool) error

	// GetWorker возвращает ErrWorkerNotFound, если нет пользователя или профиля.
	GetWorker(ctx context.Context, userID int64) (*Worker, error)
	// ListWorkers пропускает профили, у которых нет пользователя.
	ListWorkers(ctx context.Context, filter WorkerFilter) ([]Worker, error)

	// RecomputeWorkerRating пересчитывает среднее и количество оценок работника
	// по всем его Rating под блокировкой строки профиля. Профиль создается,
	// если его еще нет. Вызывается внутри WithTx вместе со вставкой оценки.
	RecomputeWorkerRating(ctx context.Context, workerID int64) (*models.WorkerProfile, error)
}
