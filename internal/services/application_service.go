package services

import (
	"context"
	"errors"

	"hyperlocal_backend/internal/auth"
	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/pkg/apperrors"
)

type ApplicationService interface {
	// Apply: вакансия существует (404), вызывающий - работник (403),
	// вакансия активна (409), отклика еще нет (409).
	Apply(ctx context.Context, userID, jobID int64) (*dto.ApplicationResponse, error)
	// UpdateStatus доступен только владельцу вакансии и только по разрешенным переходам.
	UpdateStatus(ctx context.Context, userID, applicationID int64, req *dto.UpdateApplicationStatusRequest) (*dto.ApplicationResponse, error)

	ListJobApplications(ctx context.Context, userID, jobID int64) ([]*dto.ApplicationResponse, error)
	ListWorkerApplications(ctx context.Context, userID int64) ([]*dto.ApplicationResponse, error)
}

type applicationService struct {
	store repositories.Store
	now   Clock
}

func NewApplicationService(store repositories.Store, now Clock) ApplicationService {
	if now == nil {
		now = utcClock
	}
	return &applicationService{store: store, now: now}
}

// ---------------- Application Operations ----------------

func (s *applicationService) Apply(ctx context.Context, userID, jobID int64) (*dto.ApplicationResponse, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrJobNotFound)
	}
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireWorker(user); err != nil {
		return nil, err
	}
	if !job.IsActive {
		return nil, apperrors.ErrJobInactive
	}

	if _, err := s.store.GetApplicationByJobAndWorker(ctx, job.ID, user.ID); err == nil {
		return nil, apperrors.ErrAlreadyApplied
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.InternalError(err)
	}

	now := s.now()
	app := &models.Application{
		JobID:     job.ID,
		WorkerID:  user.ID,
		Status:    models.ApplicationStatusPending,
		AppliedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, repositories.ErrDuplicateApplication) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, storeError(err, apperrors.ErrJobNotFound)
	}

	logger.CtxInfo(ctx, "Worker applied to job", "job_id", job.ID, "application_id", app.ID)
	return dto.NewApplicationResponse(app), nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, userID, applicationID int64, req *dto.UpdateApplicationStatusRequest) (*dto.ApplicationResponse, error) {
	if !req.Status.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"status": "Must be one of: pending, accepted, rejected, completed"})
	}

	var updated *models.Application
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		app, err := tx.GetApplication(ctx, applicationID)
		if err != nil {
			return storeError(err, apperrors.ErrApplicationNotFound)
		}
		job, err := tx.GetJob(ctx, app.JobID)
		if err != nil {
			return storeError(err, apperrors.ErrApplicationNotFound)
		}
		user, err := loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := auth.RequireJobOwner(user, job); err != nil {
			return err
		}
		if !app.Status.CanTransitionTo(req.Status) {
			return apperrors.ErrInvalidTransition.WithDetails(map[string]string{
				"from": string(app.Status),
				"to":   string(req.Status),
			})
		}

		now := s.now()
		if err := tx.UpdateApplicationStatus(ctx, app.ID, app.Status, req.Status, now); err != nil {
			if errors.Is(err, repositories.ErrApplicationStatusChanged) {
				return apperrors.ErrInvalidTransition.WithDetails(map[string]string{
					"from": string(app.Status),
					"to":   string(req.Status),
				}).WithError(err)
			}
			return storeError(err, apperrors.ErrApplicationNotFound)
		}
		app.Status = req.Status
		app.UpdatedAt = now
		updated = app
		return nil
	})
	if err != nil {
		return nil, storeError(err, nil)
	}

	logger.CtxInfo(ctx, "Application status changed", "application_id", updated.ID, "status", updated.Status)
	return dto.NewApplicationResponse(updated), nil
}

// ---------------- Listings ----------------

func (s *applicationService) ListJobApplications(ctx context.Context, userID, jobID int64) ([]*dto.ApplicationResponse, error) {
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

	apps, err := s.store.ListApplicationsByJob(ctx, job.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		resp := dto.NewApplicationResponse(&apps[i].Application)
		resp.Worker = dto.NewPublicUserResponse(&apps[i].Worker)
		out = append(out, resp)
	}
	return out, nil
}

func (s *applicationService) ListWorkerApplications(ctx context.Context, userID int64) ([]*dto.ApplicationResponse, error) {
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireWorker(user); err != nil {
		return nil, err
	}

	apps, err := s.store.ListApplicationsByWorker(ctx, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		resp := dto.NewApplicationResponse(&apps[i].Application)
		resp.Job = dto.NewJobResponse(&apps[i].Job)
		out = append(out, resp)
	}
	return out, nil
}
