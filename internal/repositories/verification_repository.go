package repositories

import (
	"context"
	"time"

	"hyperlocal_backend/internal/models"
)

type VerificationRepository interface {
	CreateVerificationDocument(ctx context.Context, doc *models.VerificationDocument) error
	GetVerificationDocument(ctx context.Context, id int64) (*models.VerificationDocument, error)
	ListVerificationDocumentsByUser(ctx context.Context, userID int64) ([]models.VerificationDocument, error)
	// ReviewVerificationDocument пишет итог только для документа в статусе pending,
	// иначе возвращает ErrDocumentAlreadyReviewed.
	ReviewVerificationDocument(ctx context.Context, id int64, status models.DocumentStatus, notes *string, at time.Time) error
}
