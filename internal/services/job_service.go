package services

import (
	"context"
	"strings"

	"hyperlocal_backend/internal/auth"
	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/pkg/apperrors"
)

type JobService interface {
	CreateJob(ctx context.Context, userID int64, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	GetJob(ctx context.Context, jobID int64) (*dto.JobResponse, error)
	ListJobs(ctx context.Context, query *dto.JobFilterQuery) ([]*dto.JobResponse, error)
	UpdateJob(ctx context.Context, userID, jobID int64, req *dto.UpdateJobRequest) (*dto.JobResponse, error)

	// Employer dashboard
	ListEmployerJobs(ctx context.Context, userID int64) ([]*dto.JobResponse, error)
}

type jobService struct {
	store repositories.Store
	now   Clock
}

func NewJobService(store repositories.Store, now Clock) JobService {
	if now == nil {
		now = utcClock
	}
	return &jobService{store: store, now: now}
}

// ---------------- Job Operations ----------------

func (s *jobService) CreateJob(ctx context.Context, userID int64, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireEmployer(user); err != nil {
		return nil, err
	}

	now := s.now()
	job := &models.Job{
		EmployerID:  user.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Location:    strings.TrimSpace(req.Location),
		Category:    strings.TrimSpace(req.Category),
		Wage:        strings.TrimSpace(req.Wage),
		Duration:    req.Duration,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		job.IsActive = *req.IsActive
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	logger.CtxInfo(ctx, "Job created", "job_id", job.ID, "employer_id", user.ID)

	resp := dto.NewJobResponse(job)
	resp.Employer = dto.NewPublicUserResponse(user)
	return resp, nil
}

func (s *jobService) GetJob(ctx context.Context, jobID int64) (*dto.JobResponse, error) {
	job, err := s.store.GetJobWithEmployer(ctx, jobID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrJobNotFound)
	}
	return dto.NewJobWithEmployerResponse(job), nil
}

func (s *jobService) ListJobs(ctx context.Context, query *dto.JobFilterQuery) ([]*dto.JobResponse, error) {
	jobs, err := s.store.ListJobs(ctx, query.ToFilter())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewJobListResponse(jobs), nil
}

func (s *jobService) UpdateJob(ctx context.Context, userID, jobID int64, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrJobNotFound)
	}
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireJobOwner(user, job); err != nil {
		return nil, err
	}

	applyJobUpdate(job, req)
	if err := s.store.UpdateJob(ctx, job); err != nil {
		return nil, storeError(err, apperrors.ErrJobNotFound)
	}

	resp := dto.NewJobResponse(job)
	resp.Employer = dto.NewPublicUserResponse(user)
	return resp, nil
}

func applyJobUpdate(job *models.Job, req *dto.UpdateJobRequest) {
	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Location != nil {
		job.Location = strings.TrimSpace(*req.Location)
	}
	if req.Category != nil {
		job.Category = strings.TrimSpace(*req.Category)
	}
	if req.Wage != nil {
		job.Wage = strings.TrimSpace(*req.Wage)
	}
	if req.Duration != nil {
		job.Duration = req.Duration
	}
	if req.IsActive != nil {
		job.IsActive = *req.IsActive
	}
}

// ---------------- Employer Dashboard ----------------

func (s *jobService) ListEmployerJobs(ctx context.Context, userID int64) ([]*dto.JobResponse, error) {
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireEmployer(user); err != nil {
		return nil, err
	}

	jobs, err := s.store.ListJobsByEmployer(ctx, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, dto.NewJobResponse(&jobs[i]))
	}
	return out, nil
}
