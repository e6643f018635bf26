package gormstore

import (
	"context"
	"errors"
	"time"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
)

func (s *Store) CreateJob(ctx context.Context, job *models.Job) error {
	if err := s.userExists(ctx, job.EmployerID); err != nil {
		return err
	}
	stamp(&job.CreatedAt)
	stamp(&job.UpdatedAt)
	return s.conn(ctx).Create(job).Error
}

func (s *Store) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	var job models.Job
	if err := s.conn(ctx).First(&job, id).Error; err != nil {
		if isNotFound(err) {
			return nil, repositories.ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (s *Store) GetJobWithEmployer(ctx context.Context, id int64) (*repositories.JobWithEmployer, error) {
	var job models.Job
	err := s.conn(ctx).InnerJoins("Employer").
		Where("jobs.id = ?", id).
		First(&job).Error
	if err != nil {
		if isNotFound(err) {
			return nil, repositories.ErrJobNotFound
		}
		return nil, err
	}
	return toJobWithEmployer(job), nil
}

func toJobWithEmployer(j models.Job) *repositories.JobWithEmployer {
	out := &repositories.JobWithEmployer{}
	if j.Employer != nil {
		out.Employer = *j.Employer
	}
	j.Employer = nil
	out.Job = j
	return out
}

func (s *Store) ListJobs(ctx context.Context, filter repositories.JobFilter) ([]repositories.JobWithEmployer, error) {
	q := s.conn(ctx).InnerJoins("Employer")
	if filter.Category != "" {
		q = q.Where("jobs.category = ?", filter.Category)
	}
	if filter.Location != "" {
		q = q.Where("LOWER(jobs.location) LIKE ?", likePattern(filter.Location))
	}
	if filter.IsActive != nil {
		q = q.Where("jobs.is_active = ?", *filter.IsActive)
	}

	var jobs []models.Job
	if err := q.Order("jobs.created_at DESC").Order("jobs.id DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}

	out := make([]repositories.JobWithEmployer, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, *toJobWithEmployer(j))
	}
	return out, nil
}

func (s *Store) ListJobsByEmployer(ctx context.Context, employerID int64) ([]models.Job, error) {
	jobs := make([]models.Job, 0)
	err := s.conn(ctx).
		Where("employer_id = ?", employerID).
		Order("created_at DESC").Order("id DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// UpdateJob не меняет работодателя и дату создания.
func (s *Store) UpdateJob(ctx context.Context, job *models.Job) error {
	if _, err := s.GetJob(ctx, job.ID); err != nil {
		return err
	}
	job.UpdatedAt = utcNow()
	return s.conn(ctx).Model(&models.Job{}).
		Where("id = ?", job.ID).
		Updates(map[string]interface{}{
			"title":       job.Title,
			"description": job.Description,
			"location":    job.Location,
			"category":    job.Category,
			"wage":        job.Wage,
			"duration":    job.Duration,
			"is_active":   job.IsActive,
			"updated_at":  job.UpdatedAt,
		}).Error
}

// --- отклики ---

func (s *Store) CreateApplication(ctx context.Context, app *models.Application) error {
	if _, err := s.GetApplicationByJobAndWorker(ctx, app.JobID, app.WorkerID); err == nil {
		return repositories.ErrDuplicateApplication
	} else if !errors.Is(err, repositories.ErrApplicationNotFound) {
		return err
	}
	if _, err := s.GetJob(ctx, app.JobID); err != nil {
		return err
	}
	if err := s.userExists(ctx, app.WorkerID); err != nil {
		return err
	}

	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}
	stamp(&app.AppliedAt)
	stamp(&app.UpdatedAt)

	if err := s.conn(ctx).Create(app).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return repositories.ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (s *Store) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	var app models.Application
	if err := s.conn(ctx).First(&app, id).Error; err != nil {
		if isNotFound(err) {
			return nil, repositories.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (s *Store) GetApplicationByJobAndWorker(ctx context.Context, jobID, workerID int64) (*models.Application, error) {
	var app models.Application
	err := s.conn(ctx).
		Where("job_id = ? AND worker_id = ?", jobID, workerID).
		First(&app).Error
	if err != nil {
		if isNotFound(err) {
			return nil, repositories.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (s *Store) ListApplicationsByJob(ctx context.Context, jobID int64) ([]repositories.ApplicationWithWorker, error) {
	var apps []models.Application
	err := s.conn(ctx).InnerJoins("Worker").
		Where("applications.job_id = ?", jobID).
		Order("applications.applied_at DESC").Order("applications.id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}

	out := make([]repositories.ApplicationWithWorker, 0, len(apps))
	for _, a := range apps {
		item := repositories.ApplicationWithWorker{}
		if a.Worker != nil {
			item.Worker = *a.Worker
		}
		a.Worker = nil
		item.Application = a
		out = append(out, item)
	}
	return out, nil
}

func (s *Store) ListApplicationsByWorker(ctx context.Context, workerID int64) ([]repositories.ApplicationWithJob, error) {
	var apps []models.Application
	err := s.conn(ctx).InnerJoins("Job").
		Where("applications.worker_id = ?", workerID).
		Order("applications.applied_at DESC").Order("applications.id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}

	out := make([]repositories.ApplicationWithJob, 0, len(apps))
	for _, a := range apps {
		item := repositories.ApplicationWithJob{}
		if a.Job != nil {
			item.Job = *a.Job
		}
		a.Job = nil
		item.Application = a
		out = append(out, item)
	}
	return out, nil
}

// UpdateApplicationStatus - условный UPDATE по старому статусу. Конкурентная
// запись ждет блокировку строки и после коммита первой не находит from.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id int64, from, to models.ApplicationStatus, at time.Time) error {
	res := s.conn(ctx).Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := s.GetApplication(ctx, id); err != nil {
		return err
	}
	return repositories.ErrApplicationStatusChanged
}

// --- оценки ---

func (s *Store) CreateRating(ctx context.Context, rating *models.Rating) error {
	var count int64
	err := s.conn(ctx).Model(&models.Rating{}).
		Where("job_id = ? AND worker_id = ? AND employer_id = ?", rating.JobID, rating.WorkerID, rating.EmployerID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return repositories.ErrDuplicateRating
	}

	stamp(&rating.CreatedAt)
	if err := s.conn(ctx).Create(rating).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return repositories.ErrDuplicateRating
		}
		return err
	}
	return nil
}

func (s *Store) ListRatingsByWorker(ctx context.Context, workerID int64) ([]models.Rating, error) {
	ratings := make([]models.Rating, 0)
	err := s.conn(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at DESC").Order("id DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
