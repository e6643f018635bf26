package gormstore

import (
	"context"
	"time"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
)

func (s *Store) CreateVerificationDocument(ctx context.Context, doc *models.VerificationDocument) error {
	if err := s.userExists(ctx, doc.UserID); err != nil {
		return err
	}
	if doc.Status == "" {
		doc.Status = models.DocumentStatusPending
	}
	stamp(&doc.SubmittedAt)
	return s.conn(ctx).Create(doc).Error
}

func (s *Store) GetVerificationDocument(ctx context.Context, id int64) (*models.VerificationDocument, error) {
	var doc models.VerificationDocument
	if err := s.conn(ctx).First(&doc, id).Error; err != nil {
		if isNotFound(err) {
			return nil, repositories.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (s *Store) ListVerificationDocumentsByUser(ctx context.Context, userID int64) ([]models.VerificationDocument, error) {
	docs := make([]models.VerificationDocument, 0)
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").Order("id DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) ReviewVerificationDocument(ctx context.Context, id int64, status models.DocumentStatus, notes *string, at time.Time) error {
	res := s.conn(ctx).Model(&models.VerificationDocument{}).
		Where("id = ? AND status = ?", id, models.DocumentStatusPending).
		Updates(map[string]interface{}{
			"status":         status,
			"reviewer_notes": notes,
			"reviewed_at":    at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := s.GetVerificationDocument(ctx, id); err != nil {
		return err
	}
	return repositories.ErrDocumentAlreadyReviewed
}
