package dto

import (
	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
)

type UpdateWorkerProfileRequest struct {
	Skill       *string `json:"skill,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsAvailable *bool   `json:"isAvailable,omitempty"`
}

// WorkerFilterQuery - query-параметры поиска работников
type WorkerFilterQuery struct {
	Skill    string `form:"skill" validate:"omitempty,max=255"`
	TopRated bool   `form:"topRated"`
	Limit    int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

type WorkerProfileResponse struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"userId"`
	Skill         string  `json:"skill"`
	Description   string  `json:"description"`
	IsAvailable   bool    `json:"isAvailable"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
	IsVerified    bool    `json:"isVerified"`
}

type WorkerResponse struct {
	User    *PublicUserResponse    `json:"user"`
	Profile *WorkerProfileResponse `json:"profile"`
}

func (q WorkerFilterQuery) ToFilter() repositories.WorkerFilter {
	return repositories.WorkerFilter{
		Skill:    q.Skill,
		TopRated: q.TopRated,
		Limit:    q.Limit,
	}
}

// NewWorkerProfileResponse округляет средний рейтинг до одного знака.
func NewWorkerProfileResponse(p *models.WorkerProfile) *WorkerProfileResponse {
	return &WorkerProfileResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		Skill:         p.Skill,
		Description:   p.Description,
		IsAvailable:   p.IsAvailable,
		AverageRating: models.RoundRating(p.AverageRating),
		TotalRatings:  p.TotalRatings,
		IsVerified:    p.IsVerified,
	}
}

func NewWorkerResponse(w *repositories.Worker) *WorkerResponse {
	return &WorkerResponse{
		User:    NewPublicUserResponse(&w.User),
		Profile: NewWorkerProfileResponse(&w.Profile),
	}
}

func NewWorkerListResponse(workers []repositories.Worker) []*WorkerResponse {
	out := make([]*WorkerResponse, 0, len(workers))
	for i := range workers {
		out = append(out, NewWorkerResponse(&workers[i]))
	}
	return out
}
