package services

import (
	"context"
	"errors"
	"strings"

	"hyperlocal_backend/internal/auth"
	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/pkg/apperrors"
)

type RatingService interface {
	// CreateRating требует завершенный отклик работника на вакансию работодателя.
	// Вставка оценки и пересчет профиля выполняются одной транзакцией.
	CreateRating(ctx context.Context, userID int64, req *dto.CreateRatingRequest) (*dto.CreateRatingResponse, error)
	ListWorkerRatings(ctx context.Context, workerID int64) ([]*dto.RatingResponse, error)
}

type ratingService struct {
	store repositories.Store
	now   Clock
}

func NewRatingService(store repositories.Store, now Clock) RatingService {
	if now == nil {
		now = utcClock
	}
	return &ratingService{store: store, now: now}
}

func (s *ratingService) CreateRating(ctx context.Context, userID int64, req *dto.CreateRatingRequest) (*dto.CreateRatingResponse, error) {
	job, err := s.store.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrJobNotFound)
	}
	employer, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireJobOwner(employer, job); err != nil {
		return nil, err
	}
	if req.Rating < models.MinRatingScore || req.Rating > models.MaxRatingScore {
		return nil, apperrors.ErrRatingOutOfRange
	}

	worker, err := s.store.GetUser(ctx, req.WorkerID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrWorkerNotFound)
	}
	if !worker.IsWorker() {
		return nil, apperrors.ErrWorkerNotFound
	}

	app, err := s.store.GetApplicationByJobAndWorker(ctx, job.ID, worker.ID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrJobNotCompleted)
	}
	if app.Status != models.ApplicationStatusCompleted {
		return nil, apperrors.ErrJobNotCompleted
	}

	rating := &models.Rating{
		WorkerID:   worker.ID,
		EmployerID: employer.ID,
		JobID:      job.ID,
		Rating:     req.Rating,
		Comment:    trimComment(req.Comment),
		CreatedAt:  s.now(),
	}

	var profile *models.WorkerProfile
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		// Блокировка профиля до вставки сериализует параллельные оценки одного работника.
		if _, err := tx.EnsureWorkerProfile(ctx, worker.ID); err != nil {
			return storeError(err, apperrors.ErrWorkerNotFound)
		}
		if err := tx.CreateRating(ctx, rating); err != nil {
			if errors.Is(err, repositories.ErrDuplicateRating) {
				return apperrors.ErrAlreadyRated
			}
			return err
		}
		updated, err := tx.RecomputeWorkerRating(ctx, worker.ID)
		if err != nil {
			return err
		}
		profile = updated
		return nil
	})
	if err != nil {
		return nil, storeError(err, nil)
	}

	logger.CtxInfo(ctx, "Worker rated",
		"worker_id", worker.ID,
		"job_id", job.ID,
		"average", profile.AverageRating,
		"total", profile.TotalRatings,
	)
	return &dto.CreateRatingResponse{
		Rating:  dto.NewRatingResponse(rating),
		Profile: dto.NewWorkerProfileResponse(profile),
	}, nil
}

func (s *ratingService) ListWorkerRatings(ctx context.Context, workerID int64) ([]*dto.RatingResponse, error) {
	worker, err := s.store.GetUser(ctx, workerID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrWorkerNotFound)
	}
	if !worker.IsWorker() {
		return nil, apperrors.ErrWorkerNotFound
	}

	ratings, err := s.store.ListRatingsByWorker(ctx, worker.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewRatingListResponse(ratings), nil
}

func trimComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	c := strings.TrimSpace(*comment)
	if c == "" {
		return nil
	}
	return &c
}
