package dto

import (
	"time"

	"hyperlocal_backend/internal/models"
)

type CreateRatingRequest struct {
	WorkerID int64   `json:"workerId" validate:"required,min=1"`
	JobID    int64   `json:"jobId" validate:"required,min=1"`
	Rating   int     `json:"rating" validate:"required,min=1,max=5"`
	Comment  *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

type RatingResponse struct {
	ID         int64     `json:"id"`
	WorkerID   int64     `json:"workerId"`
	EmployerID int64     `json:"employerId"`
	JobID      int64     `json:"jobId"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateRatingResponse - новая оценка и пересчитанный профиль работника
type CreateRatingResponse struct {
	Rating  *RatingResponse        `json:"rating"`
	Profile *WorkerProfileResponse `json:"profile"`
}

func NewRatingResponse(r *models.Rating) *RatingResponse {
	return &RatingResponse{
		ID:         r.ID,
		WorkerID:   r.WorkerID,
		EmployerID: r.EmployerID,
		JobID:      r.JobID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func NewRatingListResponse(ratings []models.Rating) []*RatingResponse {
	out := make([]*RatingResponse, 0, len(ratings))
	for i := range ratings {
		out = append(out, NewRatingResponse(&ratings[i]))
	}
	return out
}
