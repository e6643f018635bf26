package repositories

import (
	"context"
	"time"

	"hyperlocal_backend/internal/models"
)

type JobWithEmployer struct {
	Job      models.Job
	Employer models.User
}

type ApplicationWithWorker struct {
	Application models.Application
	Worker      models.User
}

type ApplicationWithJob struct {
	Application models.Application
	Job         models.Job
}

// JobFilter - фильтры ленты вакансий. Category - точное совпадение,
// Location - подстрока без учета регистра, IsActive == nil - любые.
type JobFilter struct {
	Category string
	Location string
	IsActive *bool
}

// JobRepository - вакансии. Все списки отсортированы от новых к старым.
type JobRepository interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	// GetJobWithEmployer возвращает ErrJobNotFound, если работодателя нет.
	GetJobWithEmployer(ctx context.Context, id int64) (*JobWithEmployer, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]JobWithEmployer, error)
	ListJobsByEmployer(ctx context.Context, employerID int64) ([]models.Job, error)
	UpdateJob(ctx context.Context, job *models.Job) error
}

type ApplicationRepository interface {
	// CreateApplication возвращает ErrDuplicateApplication для существующей пары.
	CreateApplication(ctx context.Context, app *models.Application) error
	GetApplication(ctx context.Context, id int64) (*models.Application, error)
	GetApplicationByJobAndWorker(ctx context.Context, jobID, workerID int64) (*models.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID int64) ([]ApplicationWithWorker, error)
	ListApplicationsByWorker(ctx context.Context, workerID int64) ([]ApplicationWithJob, error)
	// UpdateApplicationStatus меняет статус, только если текущий равен from,
	// иначе возвращает ErrApplicationStatusChanged.
	UpdateApplicationStatus(ctx context.Context, id int64, from, to models.ApplicationStatus, at time.Time) error
}

type RatingRepository interface {
	// CreateRating возвращает ErrDuplicateRating для повторной оценки за ту же вакансию.
	CreateRating(ctx context.Context, rating *models.Rating) error
	ListRatingsByWorker(ctx context.Context, workerID int64) ([]models.Rating, error)
}
