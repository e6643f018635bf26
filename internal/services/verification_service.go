package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"hyperlocal_backend/internal/imageprocessor"
	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/internal/storage"
	"hyperlocal_backend/pkg/apperrors"
)

// Upload - файл из multipart-формы
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type VerificationService interface {
	// SubmitDocument нормализует изображение, сохраняет его и переводит
	// пользователя в статус pending. Уже верифицированный пользователь получает 409.
	SubmitDocument(ctx context.Context, userID int64, req *dto.SubmitVerificationRequest, file *Upload) (*dto.VerificationDocumentResponse, error)
	ListDocuments(ctx context.Context, userID int64) ([]*dto.VerificationDocumentResponse, error)

	// ReviewDocument - решение администратора по документу.
	ReviewDocument(ctx context.Context, documentID int64, req *dto.ReviewDocumentRequest) (*dto.ReviewDocumentResponse, error)
}

type UploadLimits struct {
	MaxSize      int64
	AllowedTypes []string
}

type verificationService struct {
	store   repositories.Store
	storage storage.Storage
	images  *imageprocessor.Processor
	limits  UploadLimits
	now     Clock
}

func NewVerificationService(
	store repositories.Store,
	fileStorage storage.Storage,
	images *imageprocessor.Processor,
	limits UploadLimits,
	now Clock,
) VerificationService {
	if now == nil {
		now = utcClock
	}
	return &verificationService{
		store:   store,
		storage: fileStorage,
		images:  images,
		limits:  limits,
		now:     now,
	}
}

// ---------------- Submission ----------------

func (s *verificationService) SubmitDocument(ctx context.Context, userID int64, req *dto.SubmitVerificationRequest, file *Upload) (*dto.VerificationDocumentResponse, error) {
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if user.VerificationStatus == models.VerificationStatusVerified {
		return nil, apperrors.ErrAlreadyVerified
	}

	data, err := s.readUpload(file)
	if err != nil {
		return nil, err
	}
	normalized, err := s.images.Normalize(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, imageprocessor.ErrInvalidImage) {
			return nil, apperrors.ErrInvalidFileType.WithError(err)
		}
		return nil, apperrors.InternalError(err)
	}

	key := fmt.Sprintf("verification/%d/%s.jpg", user.ID, uuid.NewString())
	if err := s.storage.Save(ctx, key, bytes.NewReader(normalized), imageprocessor.ContentType); err != nil {
		return nil, apperrors.NewDependencyError(err, "storage", "Failed to store document image")
	}

	doc := &models.VerificationDocument{
		UserID:         user.ID,
		DocumentType:   req.DocumentType,
		DocumentNumber: strings.TrimSpace(req.DocumentNumber),
		ImagePath:      key,
		Status:         models.DocumentStatusPending,
		SubmittedAt:    s.now(),
	}
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		if err := tx.CreateVerificationDocument(ctx, doc); err != nil {
			return err
		}
		return tx.SetVerificationStatus(ctx, user.ID, models.VerificationStatusPending)
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.CtxWithError(ctx, "Failed to remove orphaned document image", delErr, "key", key)
		}
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}

	logger.CtxInfo(ctx, "Verification document submitted", "document_id", doc.ID, "type", doc.DocumentType)
	return dto.NewVerificationDocumentResponse(doc, s.imageURL(ctx, key)), nil
}

// readUpload читает не больше MaxSize+1 байт и проверяет тип по содержимому,
// а не по имени файла.
func (s *verificationService) readUpload(file *Upload) ([]byte, error) {
	if file == nil || file.Content == nil {
		return nil, apperrors.ValidationError(map[string]string{"image": "This field is required"})
	}
	if s.limits.MaxSize > 0 && file.Size > s.limits.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	reader := file.Content
	if s.limits.MaxSize > 0 {
		reader = io.LimitReader(file.Content, s.limits.MaxSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Failed to read uploaded file").WithError(err)
	}
	if s.limits.MaxSize > 0 && int64(len(data)) > s.limits.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, apperrors.ErrInvalidFileType
	}

	detected := mimetype.Detect(data)
	if !s.allowed(detected) {
		return nil, apperrors.ErrInvalidFileType.WithDetails(map[string]string{"detected": detected.String()})
	}
	return data, nil
}

func (s *verificationService) allowed(m *mimetype.MIME) bool {
	if len(s.limits.AllowedTypes) == 0 {
		return strings.HasPrefix(m.String(), "image/")
	}
	for _, t := range s.limits.AllowedTypes {
		if m.Is(t) {
			return true
		}
	}
	return false
}

func (s *verificationService) imageURL(ctx context.Context, key string) string {
	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to build document image URL", err, "key", key)
		return ""
	}
	return url
}

func (s *verificationService) ListDocuments(ctx context.Context, userID int64) ([]*dto.VerificationDocumentResponse, error) {
	if _, err := loadUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	docs, err := s.store.ListVerificationDocumentsByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.VerificationDocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, dto.NewVerificationDocumentResponse(&docs[i], s.imageURL(ctx, docs[i].ImagePath)))
	}
	return out, nil
}

// ---------------- Review ----------------

func (s *verificationService) ReviewDocument(ctx context.Context, documentID int64, req *dto.ReviewDocumentRequest) (*dto.ReviewDocumentResponse, error) {
	var userStatus models.VerificationStatus
	switch req.Status {
	case models.DocumentStatusVerified:
		userStatus = models.VerificationStatusVerified
	case models.DocumentStatusRejected:
		userStatus = models.VerificationStatusRejected
	default:
		return nil, apperrors.ValidationError(map[string]string{"status": "Must be one of: verified, rejected"})
	}

	var (
		doc  *models.VerificationDocument
		user *models.User
	)
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		current, err := tx.GetVerificationDocument(ctx, documentID)
		if err != nil {
			return storeError(err, apperrors.ErrDocumentNotFound)
		}
		if current.Status != models.DocumentStatusPending {
			return apperrors.ErrDocumentAlreadyReviewed
		}
		if err := tx.ReviewVerificationDocument(ctx, current.ID, req.Status, req.Notes, s.now()); err != nil {
			if errors.Is(err, repositories.ErrDocumentAlreadyReviewed) {
				return apperrors.ErrDocumentAlreadyReviewed.WithError(err)
			}
			return err
		}
		if err := tx.SetVerificationStatus(ctx, current.UserID, userStatus); err != nil {
			return storeError(err, apperrors.ErrUserNotFound)
		}
		if err := tx.SetWorkerProfileVerified(ctx, current.UserID, userStatus == models.VerificationStatusVerified); err != nil {
			return err
		}

		if doc, err = tx.GetVerificationDocument(ctx, current.ID); err != nil {
			return err
		}
		user, err = tx.GetUser(ctx, current.UserID)
		return err
	})
	if err != nil {
		return nil, storeError(err, nil)
	}

	logger.CtxInfo(ctx, "Verification document reviewed",
		"document_id", doc.ID,
		"user_id", user.ID,
		"status", doc.Status,
	)
	return &dto.ReviewDocumentResponse{
		Document: dto.NewVerificationDocumentResponse(doc, s.imageURL(ctx, doc.ImagePath)),
		User:     dto.NewUserResponse(user),
	}, nil
}
