package dto

import (
	"time"

	"hyperlocal_backend/internal/models"
)

// SubmitVerificationRequest - текстовые поля multipart-формы; файл передается отдельно.
type SubmitVerificationRequest struct {
	DocumentType   models.DocumentType `form:"documentType" validate:"required,is-document-type"`
	DocumentNumber string              `form:"documentNumber" validate:"required,max=64,is-document-number=DocumentType"`
}

type ReviewDocumentRequest struct {
	Status models.DocumentStatus `json:"status" validate:"required,is-review-status"`
	Notes  *string               `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type VerificationDocumentResponse struct {
	ID             int64                 `json:"id"`
	UserID         int64                 `json:"userId"`
	DocumentType   models.DocumentType   `json:"documentType"`
	DocumentNumber string                `json:"documentNumber"`
	ImageURL       string                `json:"imageUrl"`
	Status         models.DocumentStatus `json:"status"`
	SubmittedAt    time.Time             `json:"submittedAt"`
	ReviewedAt     *time.Time            `json:"reviewedAt,omitempty"`
	ReviewerNotes  *string               `json:"reviewerNotes,omitempty"`
}

// ReviewDocumentResponse - документ после проверки и новый статус пользователя
type ReviewDocumentResponse struct {
	Document *VerificationDocumentResponse `json:"document"`
	User     *UserResponse                 `json:"user"`
}

func NewVerificationDocumentResponse(d *models.VerificationDocument, imageURL string) *VerificationDocumentResponse {
	return &VerificationDocumentResponse{
		ID:             d.ID,
		UserID:         d.UserID,
		DocumentType:   d.DocumentType,
		DocumentNumber: d.DocumentNumber,
		ImageURL:       imageURL,
		Status:         d.Status,
		SubmittedAt:    d.SubmittedAt,
		ReviewedAt:     d.ReviewedAt,
		ReviewerNotes:  d.ReviewerNotes,
	}
}
