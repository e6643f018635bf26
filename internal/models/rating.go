package models

import "time"

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// Rating - оценка работника работодателем за конкретную вакансию.
// Тройка (JobID, WorkerID, EmployerID) уникальна.
type Rating struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkerID   int64     `gorm:"not null;index;uniqueIndex:idx_ratings_job_worker_employer,priority:2" json:"workerId"`
	EmployerID int64     `gorm:"not null;index;uniqueIndex:idx_ratings_job_worker_employer,priority:3" json:"employerId"`
	JobID      int64     `gorm:"not null;uniqueIndex:idx_ratings_job_worker_employer,priority:1" json:"jobId"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    *string   `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`

	Worker   *User `gorm:"foreignKey:WorkerID" json:"-"`
	Employer *User `gorm:"foreignKey:EmployerID" json:"-"`
	Job      *Job  `gorm:"foreignKey:JobID" json:"-"`
}
