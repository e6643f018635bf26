package memstore

import (
	"context"
	"time"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
)

func (s *Store) CreateVerificationDocument(ctx context.Context, doc *models.VerificationDocument) error {
	defer s.lock()()

	if _, ok := s.db.t.users[doc.UserID]; !ok {
		return repositories.ErrUserNotFound
	}
	s.db.ids.documents++
	doc.ID = s.db.ids.documents
	if doc.Status == "" {
		doc.Status = models.DocumentStatusPending
	}
	stamp(&doc.SubmittedAt)
	s.db.t.documents[doc.ID] = cloneDocument(doc)
	return nil
}

func (s *Store) GetVerificationDocument(ctx context.Context, id int64) (*models.VerificationDocument, error) {
	defer s.rlock()()

	d, ok := s.db.t.documents[id]
	if !ok {
		return nil, repositories.ErrDocumentNotFound
	}
	return cloneDocument(d), nil
}

func (s *Store) ListVerificationDocumentsByUser(ctx context.Context, userID int64) ([]models.VerificationDocument, error) {
	defer s.rlock()()

	out := make([]models.VerificationDocument, 0)
	for _, d := range s.db.t.documents {
		if d.UserID == userID {
			out = append(out, *cloneDocument(d))
		}
	}
	newestFirst(out,
		func(v models.VerificationDocument) time.Time { return v.SubmittedAt },
		func(v models.VerificationDocument) int64 { return v.ID },
	)
	return out, nil
}

func (s *Store) ReviewVerificationDocument(ctx context.Context, id int64, status models.DocumentStatus, notes *string, at time.Time) error {
	defer s.lock()()

	d, ok := s.db.t.documents[id]
	if !ok {
		return repositories.ErrDocumentNotFound
	}
	if d.Status != models.DocumentStatusPending {
		return repositories.ErrDocumentAlreadyReviewed
	}
	d.Status = status
	d.ReviewerNotes = cloneString(notes)
	d.ReviewedAt = &at
	return nil
}
