package services

import (
	"context"
	"strings"

	"hyperlocal_backend/internal/auth"
	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/pkg/apperrors"
)

type WorkerService interface {
	// Public directory
	ListWorkers(ctx context.Context, query *dto.WorkerFilterQuery) ([]*dto.WorkerResponse, error)
	GetWorker(ctx context.Context, workerID int64) (*dto.WorkerResponse, error)

	// Worker dashboard. Профиль создается при первом обращении.
	GetDashboard(ctx context.Context, userID int64) (*dto.WorkerResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateWorkerProfileRequest) (*dto.WorkerResponse, error)
}

type workerService struct {
	store repositories.Store
}

func NewWorkerService(store repositories.Store) WorkerService {
	return &workerService{store: store}
}

// ---------------- Directory ----------------

func (s *workerService) ListWorkers(ctx context.Context, query *dto.WorkerFilterQuery) ([]*dto.WorkerResponse, error) {
	workers, err := s.store.ListWorkers(ctx, query.ToFilter())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewWorkerListResponse(workers), nil
}

func (s *workerService) GetWorker(ctx context.Context, workerID int64) (*dto.WorkerResponse, error) {
	worker, err := s.store.GetWorker(ctx, workerID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrWorkerNotFound)
	}
	return dto.NewWorkerResponse(worker), nil
}

// ---------------- Dashboard ----------------

func (s *workerService) GetDashboard(ctx context.Context, userID int64) (*dto.WorkerResponse, error) {
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireWorker(user); err != nil {
		return nil, err
	}

	profile, err := s.store.EnsureWorkerProfile(ctx, user.ID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrWorkerNotFound)
	}
	return dto.NewWorkerResponse(&repositories.Worker{User: *user, Profile: *profile}), nil
}

func (s *workerService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateWorkerProfileRequest) (*dto.WorkerResponse, error) {
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireWorker(user); err != nil {
		return nil, err
	}

	var profile *models.WorkerProfile
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		p, err := tx.EnsureWorkerProfile(ctx, user.ID)
		if err != nil {
			return err
		}
		if req.Skill != nil {
			p.Skill = strings.TrimSpace(*req.Skill)
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.IsAvailable != nil {
			p.IsAvailable = *req.IsAvailable
		}
		if err := tx.UpdateWorkerProfile(ctx, p); err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, storeError(err, apperrors.ErrWorkerNotFound)
	}
	return dto.NewWorkerResponse(&repositories.Worker{User: *user, Profile: *profile}), nil
}
