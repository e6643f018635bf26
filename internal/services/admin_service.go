package services

import (
	"context"

	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/pkg/apperrors"
)

type AdminService interface {
	ReviewDocument(ctx context.Context, documentID int64, req *dto.ReviewDocumentRequest) (*dto.ReviewDocumentResponse, error)
	// DeleteAllUsers очищает все таблицы одной транзакцией.
	DeleteAllUsers(ctx context.Context) error
	Ping(ctx context.Context) error
}

type adminService struct {
	store        repositories.Store
	verification VerificationService
}

func NewAdminService(store repositories.Store, verification VerificationService) AdminService {
	return &adminService{store: store, verification: verification}
}

func (s *adminService) ReviewDocument(ctx context.Context, documentID int64, req *dto.ReviewDocumentRequest) (*dto.ReviewDocumentResponse, error) {
	return s.verification.ReviewDocument(ctx, documentID, req)
}

func (s *adminService) DeleteAllUsers(ctx context.Context) error {
	if err := s.store.DeleteAllUsers(ctx); err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxWarn(ctx, "All users deleted")
	return nil
}

func (s *adminService) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return apperrors.NewDependencyError(err, "database", "Database is unavailable")
	}
	return nil
}
