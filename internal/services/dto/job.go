package dto

import (
	"time"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
)

// ======================
// Request DTOs
// ======================

type CreateJobRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description" validate:"required,max=5000"`
	Location    string  `json:"location" validate:"required,max=255"`
	Category    string  `json:"category" validate:"required,max=100"`
	Wage        string  `json:"wage" validate:"required,max=100"`
	Duration    *string `json:"duration,omitempty" validate:"omitempty,max=100"`
	// IsActive не обязателен: новая вакансия по умолчанию открыта.
	IsActive *bool `json:"isActive,omitempty"`
}

type UpdateJobRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=5000"`
	Location    *string `json:"location,omitempty" validate:"omitempty,min=1,max=255"`
	Category    *string `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Wage        *string `json:"wage,omitempty" validate:"omitempty,min=1,max=100"`
	Duration    *string `json:"duration,omitempty" validate:"omitempty,max=100"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// JobFilterQuery - query-параметры ленты вакансий
type JobFilterQuery struct {
	Category string `form:"category" validate:"omitempty,max=100"`
	Location string `form:"location" validate:"omitempty,max=255"`
	IsActive *bool  `form:"isActive"`
}

type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required,is-application-status"`
}

// ======================
// Response DTOs
// ======================

type JobResponse struct {
	ID          int64     `json:"id"`
	EmployerID  int64     `json:"employerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Wage        string    `json:"wage"`
	Duration    *string   `json:"duration,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Employer *PublicUserResponse `json:"employer,omitempty"`
}

type ApplicationResponse struct {
	ID        int64                    `json:"id"`
	JobID     int64                    `json:"jobId"`
	WorkerID  int64                    `json:"workerId"`
	Status    models.ApplicationStatus `json:"status"`
	AppliedAt time.Time                `json:"appliedAt"`
	UpdatedAt time.Time                `json:"updatedAt"`

	Worker *PublicUserResponse `json:"worker,omitempty"`
	Job    *JobResponse        `json:"job,omitempty"`
}

func (q JobFilterQuery) ToFilter() repositories.JobFilter {
	return repositories.JobFilter{
		Category: q.Category,
		Location: q.Location,
		IsActive: q.IsActive,
	}
}

func NewJobResponse(j *models.Job) *JobResponse {
	return &JobResponse{
		ID:          j.ID,
		EmployerID:  j.EmployerID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		Category:    j.Category,
		Wage:        j.Wage,
		Duration:    j.Duration,
		IsActive:    j.IsActive,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func NewJobWithEmployerResponse(j *repositories.JobWithEmployer) *JobResponse {
	resp := NewJobResponse(&j.Job)
	resp.Employer = NewPublicUserResponse(&j.Employer)
	return resp
}

func NewJobListResponse(jobs []repositories.JobWithEmployer) []*JobResponse {
	out := make([]*JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, NewJobWithEmployerResponse(&jobs[i]))
	}
	return out
}

func NewApplicationResponse(a *models.Application) *ApplicationResponse {
	return &ApplicationResponse{
		ID:        a.ID,
		JobID:     a.JobID,
		WorkerID:  a.WorkerID,
		Status:    a.Status,
		AppliedAt: a.AppliedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
